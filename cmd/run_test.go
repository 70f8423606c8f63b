package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/k6lazy/errext/exitcodes"
	"github.com/liuxd6825/k6lazy/lib/consts"
	"github.com/liuxd6825/k6lazy/lib/testutils"
)

func writeScript(t *testing.T, ts *globalTestState, name, src string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(ts.fs, filepath.Join(testCWD, name), []byte(src), 0o644))
}

func TestRunLazyScript(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	writeScript(t, ts, "script.js", `
		const lazy = require("k6/x/lazy").default;
		let calls = 0;
		const conf = lazy.obj(() => { calls++; return { name: "lazy" }; })();
		console.log("before", calls);
		console.log("name", conf.name, calls);
	`)

	require.Equal(t, 0, ts.run("run", "-q", "script.js"))

	entries := ts.loggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.InfoLevel, "before 0"))
	assert.True(t, testutils.LogContains(entries, logrus.InfoLevel, "name lazy 1"))
	assert.Empty(t, ts.stdOut.String())
}

func TestRunBanner(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	writeScript(t, ts, "empty.js", ``)

	require.Equal(t, 0, ts.run("run", "--no-color", "empty.js"))
	assert.Contains(t, ts.stdOut.String(), consts.Banner())
}

func TestRunExitCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		script   string
		args     []string
		exitCode exitcodes.ExitCode
		log      string
	}{
		{
			name:     "uncaught exception",
			script:   `throw new Error("boom");`,
			exitCode: exitcodes.ScriptException,
			log:      "boom",
		},
		{
			name: "factory failure",
			script: `
				const lazy = require("k6/x/lazy").default;
				const p = lazy(() => { throw new Error("no backing value"); })();
				p.anything;
			`,
			exitCode: exitcodes.ScriptException,
			log:      "no backing value",
		},
		{
			name:     "syntax error",
			script:   `let = ;`,
			exitCode: exitcodes.ScriptException,
			log:      "SyntaxError",
		},
		{
			name:     "unknown module",
			script:   `require("k6/x/nope");`,
			exitCode: exitcodes.ScriptException,
			log:      "k6/x/nope",
		},
		{
			name:     "missing script",
			args:     []string{"run", "missing.js"},
			exitCode: exitcodes.InvalidConfig,
			log:      "missing.js",
		},
		{
			name:     "bad log level",
			script:   ``,
			args:     []string{"run", "--log-level", "loud", "script.js"},
			exitCode: exitcodes.InvalidConfig,
			log:      "unknown log level loud",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ts := newGlobalTestState(t)
			args := tc.args
			if args == nil {
				args = []string{"run", "script.js"}
			}
			writeScript(t, ts, "script.js", tc.script)

			assert.Equal(t, int(tc.exitCode), ts.run(args...))
			assert.True(t, testutils.LogContains(ts.loggerHook.Drain(), logrus.ErrorLevel, tc.log))
		})
	}
}

func TestRunWrongArgs(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	assert.Equal(t, -1, ts.run("run"))
	assert.True(t, testutils.LogContains(ts.loggerHook.Drain(), logrus.ErrorLevel, "accepts 1 arg(s)"))
}

func TestRunLogsToFile(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	writeScript(t, ts, "script.js", `
		const lazy = require("k6/x/lazy").default;
		lazy(() => ({ v: 1 }))().v;
		console.log("to the file");
	`)

	require.Equal(t, 0, ts.run("run", "-q", "-v", "--log-format", "json", "--log-output", "file=k6lazy.log", "script.js"))

	data, err := afero.ReadFile(ts.fs, filepath.Join(testCWD, "k6lazy.log"))
	require.NoError(t, err)

	var found []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		found = append(found, entry["msg"].(string))
	}
	assert.Contains(t, found, "to the file")
	assert.Contains(t, found, "lazy value materialized")
}

func TestShims(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	require.Equal(t, 0, ts.run("shims"))

	var report []shimReport
	require.NoError(t, yaml.Unmarshal(ts.stdOut.Bytes(), &report))
	require.Len(t, report, 4)
	byKind := make(map[string]shimReport, len(report))
	for _, r := range report {
		byKind[r.Kind] = r
	}
	assert.Equal(t, []string{"prototype"}, byKind["func"].Plain)
	assert.Subset(t, byKind["func"].Frozen, byKind["func"].Plain)
	assert.Empty(t, byKind["arrow"].Plain)
	assert.Empty(t, byKind["obj"].Plain)
	assert.Empty(t, byKind["obj"].Frozen)
	assert.Empty(t, byKind["class"].Frozen)

	ts = newGlobalTestState(t)
	require.Equal(t, 0, ts.run("shims", "--kind", "OBJ"))
	report = nil
	require.NoError(t, yaml.Unmarshal(ts.stdOut.Bytes(), &report))
	require.Len(t, report, 1)
	assert.Equal(t, "obj", report[0].Kind)

	ts = newGlobalTestState(t)
	assert.Equal(t, int(exitcodes.InvalidConfig), ts.run("shims", "--kind", "generator"))
	assert.True(t, testutils.LogContains(ts.loggerHook.Drain(), logrus.ErrorLevel, `unknown lazy kind "generator"`))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	require.Equal(t, 0, ts.run("version"))
	assert.Contains(t, ts.stdOut.String(), "k6lazy v"+consts.Version)
	assert.Contains(t, ts.stdOut.String(), "k6/x/lazy")

	ts = newGlobalTestState(t)
	require.Equal(t, 0, ts.run("version", "--json"))
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.stdOut.Bytes(), &details))
	assert.Equal(t, consts.Version, details["version"])
	assert.Contains(t, details["modules"], "k6/x/lazy")
}
