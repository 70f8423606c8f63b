// Package main is the entry point for the k6lazy CLI application.
package main

import (
	"github.com/liuxd6825/k6lazy/cmd"
)

func main() {
	cmd.Execute()
}
