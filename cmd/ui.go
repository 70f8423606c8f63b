package cmd

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/liuxd6825/k6lazy/lib/consts"
)

// consoleWriter serializes writes to a terminal and clears line leftovers
// when the output is a TTY.
type consoleWriter struct {
	io.Writer
	isTTY bool
	mutex *sync.Mutex
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.isTTY {
		// Add a TTY code to erase till the end of line with each new line
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.mutex.Lock()
	n, err = w.Writer.Write(p)
	w.mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

func getBanner(noColor bool) string {
	c := color.New(color.FgCyan)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c.Sprint(consts.Banner())
}

func printBanner(gs *globalState, conf Config) {
	if conf.Quiet.Bool {
		return
	}
	printToStdout(gs, fmt.Sprintf("\n%s\n\n", getBanner(conf.NoColor.Bool)))
}

func printToStdout(gs *globalState, s string) {
	if _, err := fmt.Fprint(gs.stdOut, s); err != nil {
		gs.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}
