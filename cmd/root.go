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

// Package cmd implements the k6lazy command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/liuxd6825/k6lazy/errext"
	"github.com/liuxd6825/k6lazy/lib/consts"
	"github.com/liuxd6825/k6lazy/log"
)

const waitLoggerCloseTimeout = time.Second * 5

// This is to keep all fields needed for the main/root k6lazy command
type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command

	// conf is filled in by persistentPreRunE before any subcommand runs.
	conf Config

	loggerCtx      context.Context
	stopLoggers    context.CancelFunc
	loggerStopped  <-chan struct{}
	loggerIsRemote bool
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{gs: gs}
	_, noColor := gs.envVars["NO_COLOR"]
	c.loggerCtx, c.stopLoggers = context.WithCancel(gs.ctx)

	// the base command when called without any subcommands.
	c.cmd = &cobra.Command{
		Use:               "k6lazy",
		Short:             "run scripts with deferred-construction proxies",
		Long:              "\n" + getBanner(noColor),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           consts.FullVersion(),
	}
	c.cmd.PersistentFlags().AddFlagSet(configFlagSet())
	if f := c.cmd.PersistentFlags().Lookup("config"); f != nil {
		f.DefValue = gs.defaultConfigFilePath
	}
	must(cobra.MarkFlagFilename(c.cmd.PersistentFlags(), "config"))

	c.cmd.SetArgs(gs.args[1:])
	c.cmd.SetOut(gs.stdOut)
	c.cmd.SetErr(gs.stdErr)
	c.cmd.AddCommand(
		getCmdRun(c),
		getCmdShims(c),
		getCmdVersion(c),
	)
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	conf, err := getConsolidatedConfig(c.gs, cmd.Flags())
	if err != nil {
		return err
	}
	c.conf = conf

	c.loggerStopped, err = c.setupLoggers()
	if err != nil {
		return err
	}
	select {
	case <-c.loggerStopped:
	default:
		c.loggerIsRemote = true
	}

	if c.conf.NoColor.Bool {
		c.gs.stdOut.Writer = colorable.NewNonColorable(c.gs.stdOut.Writer)
		c.gs.stdErr.Writer = colorable.NewNonColorable(c.gs.stdErr.Writer)
	}
	c.gs.logger.Debugf("k6lazy version: v%s", consts.FullVersion())
	return nil
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	gs := newGlobalState(context.Background())
	newRootCommand(gs).execute()
}

func (c *rootCommand) execute() {
	err := c.cmd.Execute()
	if err == nil {
		c.stopLoggers()
		c.waitLoggers()
		return
	}

	exitCode := -1
	var ecerr errext.HasExitCode
	if errors.As(err, &ecerr) {
		exitCode = int(ecerr.ExitCode())
	}

	errText, fields := errext.Format(err)
	c.gs.logger.WithFields(fields).Error(errText)
	if c.loggerIsRemote {
		c.gs.fallbackLogger.WithFields(fields).Error(errText)
	}
	c.stopLoggers()
	c.waitLoggers()

	c.gs.osExit(exitCode)
}

func (c *rootCommand) waitLoggers() {
	if !c.loggerIsRemote {
		return
	}
	select {
	case <-c.loggerStopped:
	case <-time.After(waitLoggerCloseTimeout):
		c.gs.fallbackLogger.Errorf("the log file wasn't closed in %s", waitLoggerCloseTimeout)
	}
}

// Panic if the given error is not nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// The returned channel will be closed when the logger has finished flushing
// the log file after loggerCtx is done. It is closed right away if the logger
// doesn't write asynchronously.
func (c *rootCommand) setupLoggers() (<-chan struct{}, error) {
	ch := make(chan struct{})
	close(ch)

	level, err := log.ParseLevel(c.conf.LogLevel.String)
	if err != nil {
		return nil, err
	}
	c.gs.logger.SetLevel(level)

	switch output := c.conf.LogOutput.String; {
	case output == "stderr":
		c.gs.logger.SetOutput(c.gs.stdErr)
	case output == "stdout":
		c.gs.logger.SetOutput(c.gs.stdOut)
	case output == "none":
		c.gs.logger.SetOutput(io.Discard)
	case strings.HasPrefix(output, "file"):
		ch = make(chan struct{})
		hook, err := log.FileHookFromConfigLine(
			c.loggerCtx, c.gs.fs, c.gs.getwd, c.gs.fallbackLogger, output, ch)
		if err != nil {
			return nil, err
		}
		c.gs.logger.AddHook(hook)
		c.gs.logger.SetOutput(io.Discard)
	default:
		return nil, fmt.Errorf("unsupported log output '%s'", output)
	}

	switch c.conf.LogFormat.String {
	case "raw":
		c.gs.logger.SetFormatter(&RawFormatter{})
		c.gs.logger.Debug("Logger format: RAW")
	case "json":
		c.gs.logger.SetFormatter(&logrus.JSONFormatter{})
		c.gs.logger.Debug("Logger format: JSON")
	default:
		c.gs.logger.SetFormatter(&logrus.TextFormatter{
			ForceColors: c.gs.stdErr.isTTY, DisableColors: c.conf.NoColor.Bool,
		})
		c.gs.logger.Debug("Logger format: TEXT")
	}
	return ch, nil
}
