package cmd

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/k6lazy/errext"
	"github.com/liuxd6825/k6lazy/errext/exitcodes"
)

func TestConfigConsolidation(t *testing.T) {
	t.Parallel()

	const defaultPath = "/home/.config/k6lazy/config.yaml"

	testCases := []struct {
		name  string
		files map[string]string
		env   map[string]string
		args  []string
		check func(t *testing.T, conf Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "info", conf.LogLevel.String)
				assert.Equal(t, "text", conf.LogFormat.String)
				assert.Equal(t, "stderr", conf.LogOutput.String)
				assert.False(t, conf.NoColor.Bool)
				assert.False(t, conf.Quiet.Bool)
			},
		},
		{
			name:  "config file",
			files: map[string]string{defaultPath: "logLevel: warning\nnoColor: true\nlogFormat: json\n"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "warning", conf.LogLevel.String)
				assert.Equal(t, "json", conf.LogFormat.String)
				assert.True(t, conf.NoColor.Bool)
			},
		},
		{
			name:  "env over config file",
			files: map[string]string{defaultPath: "logLevel: warning\nquiet: true\n"},
			env:   map[string]string{"K6LAZY_LOG_LEVEL": "error"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "error", conf.LogLevel.String)
				assert.True(t, conf.Quiet.Bool)
			},
		},
		{
			name:  "flags over env",
			files: map[string]string{defaultPath: "logLevel: warning\n"},
			env:   map[string]string{"K6LAZY_LOG_LEVEL": "error", "K6LAZY_QUIET": "true"},
			args:  []string{"--log-level", "debug", "--quiet=false"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "debug", conf.LogLevel.String)
				assert.Equal(t, null.NewBool(false, true), conf.Quiet)
			},
		},
		{
			name: "verbose",
			args: []string{"-v"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "debug", conf.LogLevel.String)
			},
		},
		{
			name: "explicit level wins over verbose",
			args: []string{"-v", "--log-level", "error"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "error", conf.LogLevel.String)
			},
		},
		{
			name: "NO_COLOR",
			env:  map[string]string{"NO_COLOR": ""},
			check: func(t *testing.T, conf Config) {
				assert.True(t, conf.NoColor.Bool)
			},
		},
		{
			name:  "config file from env",
			files: map[string]string{"/etc/k6lazy.yaml": "logOutput: none\n"},
			env:   map[string]string{"K6LAZY_CONFIG": "/etc/k6lazy.yaml"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "none", conf.LogOutput.String)
			},
		},
		{
			name:  "config file from flag",
			files: map[string]string{"/other.yaml": "logFormat: raw\n"},
			env:   map[string]string{"K6LAZY_CONFIG": "/etc/k6lazy.yaml"},
			args:  []string{"-c", "/other.yaml"},
			check: func(t *testing.T, conf Config) {
				assert.Equal(t, "raw", conf.LogFormat.String)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ts := newGlobalTestState(t)
			for path, data := range tc.files {
				require.NoError(t, afero.WriteFile(ts.fs, path, []byte(data), 0o644))
			}
			for k, v := range tc.env {
				ts.envVars[k] = v
			}
			flags := configFlagSet()
			require.NoError(t, flags.Parse(tc.args))

			conf, err := getConsolidatedConfig(ts.globalState, flags)
			require.NoError(t, err)
			tc.check(t, conf)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		files map[string]string
		env   map[string]string
		args  []string
		err   string
	}{
		{name: "missing explicit file", args: []string{"--config", "/nope.yaml"}, err: "couldn't read the config file"},
		{name: "missing file from env", env: map[string]string{"K6LAZY_CONFIG": "/nope.yaml"}, err: "/nope.yaml"},
		{name: "bad yaml", files: map[string]string{"/bad.yaml": "logLevel: [\n"}, args: []string{"-c", "/bad.yaml"}, err: "couldn't parse"},
		{name: "bad level", args: []string{"--log-level", "loud"}, err: "unknown log level loud"},
		{name: "bad format", env: map[string]string{"K6LAZY_LOG_FORMAT": "xml"}, err: "unsupported log format 'xml'"},
		{name: "bad env bool", env: map[string]string{"K6LAZY_QUIET": "sure"}, err: "K6LAZY_QUIET"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ts := newGlobalTestState(t)
			for path, data := range tc.files {
				require.NoError(t, afero.WriteFile(ts.fs, path, []byte(data), 0o644))
			}
			for k, v := range tc.env {
				ts.envVars[k] = v
			}
			flags := configFlagSet()
			require.NoError(t, flags.Parse(tc.args))

			_, err := getConsolidatedConfig(ts.globalState, flags)
			require.ErrorContains(t, err, tc.err)

			var ecerr errext.HasExitCode
			require.ErrorAs(t, err, &ecerr)
			assert.Equal(t, exitcodes.InvalidConfig, ecerr.ExitCode())
		})
	}
}

func TestConfigApply(t *testing.T) {
	t.Parallel()

	base := defaultConfig()
	conf := base.Apply(Config{LogLevel: null.StringFrom("trace"), LogFormat: null.NewString("json", false)})
	assert.Equal(t, "trace", conf.LogLevel.String)
	assert.Equal(t, "text", conf.LogFormat.String)
	assert.Equal(t, base, base.Apply(Config{}))
}
