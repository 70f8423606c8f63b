package cmd

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/k6lazy/js"
)

// cmdRun handles the `k6lazy run` sub-command
type cmdRun struct {
	root *rootCommand
}

func (c *cmdRun) run(_ *cobra.Command, args []string) error {
	gs := c.root.gs
	printBanner(gs, c.root.conf)

	pwd, err := gs.getwd()
	if err != nil {
		return err
	}
	cwd := &url.URL{Scheme: "file", Path: filepath.ToSlash(pwd) + "/"}

	ctx, cancel := context.WithCancel(gs.ctx)
	defer cancel()
	stopSignalHandling := handleAbortSignals(gs, func(sig os.Signal) {
		gs.logger.WithField("sig", sig).Debug("Stopping k6lazy in response to signal...")
		cancel()
	})
	defer stopSignalHandling()

	runner := js.NewRunner(gs.logger, gs.fs, cwd)
	if err := runner.Run(ctx, args[0]); err != nil {
		return err
	}
	gs.logger.WithField("script", args[0]).Debug("Script finished")
	return nil
}

func getCmdRun(root *rootCommand) *cobra.Command {
	c := &cmdRun{root: root}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a script",
		Long: `Run a script.

The script can load the lazy proxy module with require("k6/x/lazy") and log
through console.`,
		Example: `
  # Run a single script.
  k6lazy run script.js

  # Run with debug logs from the lazy module, as JSON.
  k6lazy run -v --log-format json script.js`[1:],
		Args: exactArgsWithMsg(1, "arg should be a path to a script file"),
		RunE: c.run,
	}
	return runCmd
}

// handleAbortSignals calls onAbort when the process gets SIGINT or SIGTERM.
// The returned function stops listening.
func handleAbortSignals(gs *globalState, onAbort func(os.Signal)) (stop func()) {
	sigC := make(chan os.Signal, 2)
	done := make(chan struct{})
	gs.signalNotify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigC:
			onAbort(sig)
		case <-done:
		}
	}()

	return func() {
		close(done)
		gs.signalStop(sigC)
	}
}
