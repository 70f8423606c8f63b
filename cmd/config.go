/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2016 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/k6lazy/errext"
	"github.com/liuxd6825/k6lazy/errext/exitcodes"
	"github.com/liuxd6825/k6lazy/log"
)

// Config is the k6lazy CLI configuration. Every field is nullable so the
// layers can be merged: defaults, the config file, the environment and the
// CLI flags, each one overriding the previous.
type Config struct {
	LogLevel  null.String `yaml:"logLevel" envconfig:"K6LAZY_LOG_LEVEL"`
	LogFormat null.String `yaml:"logFormat" envconfig:"K6LAZY_LOG_FORMAT"`
	LogOutput null.String `yaml:"logOutput" envconfig:"K6LAZY_LOG_OUTPUT"`
	NoColor   null.Bool   `yaml:"noColor" envconfig:"K6LAZY_NO_COLOR"`
	Quiet     null.Bool   `yaml:"quiet" envconfig:"K6LAZY_QUIET"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  null.StringFrom("info"),
		LogFormat: null.StringFrom("text"),
		LogOutput: null.StringFrom("stderr"),
		NoColor:   null.BoolFrom(false),
		Quiet:     null.BoolFrom(false),
	}
}

// Apply returns c with every valid field of cfg copied over it.
func (c Config) Apply(cfg Config) Config {
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat.Valid {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.LogOutput.Valid {
		c.LogOutput = cfg.LogOutput
	}
	if cfg.NoColor.Valid {
		c.NoColor = cfg.NoColor
	}
	if cfg.Quiet.Valid {
		c.Quiet = cfg.Quiet
	}
	return c
}

// Validate checks the consolidated values.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel.String); err != nil {
		return err
	}
	switch c.LogFormat.String {
	case "text", "json", "raw":
	default:
		return fmt.Errorf("unsupported log format '%s', use text, json or raw", c.LogFormat.String)
	}
	return nil
}

func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("log-level", "info", "log level, one of trace, debug, info, warning, error")
	flags.String("log-format", "text", "log output format, one of text, json or raw")
	flags.String("log-output", "stderr",
		"change the output for k6lazy logs, possible values are stderr,stdout,none,file[=./path.fileformat]")
	flags.BoolP("quiet", "q", false, "disable the banner")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("config", "c", "", "YAML config file")
	return flags
}

// Gets configuration from CLI flags.
func getConfig(flags *pflag.FlagSet) Config {
	conf := Config{
		LogLevel:  getNullString(flags, "log-level"),
		LogFormat: getNullString(flags, "log-format"),
		LogOutput: getNullString(flags, "log-output"),
		NoColor:   getNullBool(flags, "no-color"),
		Quiet:     getNullBool(flags, "quiet"),
	}
	if verbose := getNullBool(flags, "verbose"); verbose.Bool && !conf.LogLevel.Valid {
		conf.LogLevel = null.StringFrom("debug")
	}
	return conf
}

// configFilePath returns the config file to read and whether the user asked
// for it explicitly.
func configFilePath(gs *globalState, flags *pflag.FlagSet) (string, bool) {
	if flags.Changed("config") {
		return getNullString(flags, "config").String, true
	}
	if path, ok := gs.envVars["K6LAZY_CONFIG"]; ok {
		return path, true
	}
	return gs.defaultConfigFilePath, false
}

// Reads a configuration file from disk. A missing default file is fine.
func readDiskConfig(fs afero.Fs, path string, explicit bool) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("couldn't read the config file %q: %w", path, err)
	}

	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("couldn't parse the config file %q: %w", path, err)
	}
	return conf, nil
}

// Reads configuration variables from the environment.
func readEnvConfig(envMap map[string]string) (Config, error) {
	conf := Config{}
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := envMap[key]
		return v, ok
	})
	// Support https://no-color.org/, even an empty value should disable the
	// colored output.
	if _, ok := envMap["NO_COLOR"]; ok && !conf.NoColor.Valid {
		conf.NoColor = null.BoolFrom(true)
	}
	return conf, err
}

// getConsolidatedConfig merges, in increasing priority: the defaults, the
// config file, the environment and the CLI flags.
func getConsolidatedConfig(gs *globalState, flags *pflag.FlagSet) (Config, error) {
	path, explicit := configFilePath(gs, flags)
	fileConf, err := readDiskConfig(gs.fs, path, explicit)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	envConf, err := readEnvConfig(gs.envVars)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	conf := defaultConfig().Apply(fileConf).Apply(envConf).Apply(getConfig(flags))
	if err := conf.Validate(); err != nil {
		return conf, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	return conf, nil
}
