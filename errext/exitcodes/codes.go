// Package exitcodes contains the constants representing possible k6lazy exit error codes.
//
//nolint:revive
package exitcodes

// ExitCode is just a type representing a process exit code for k6lazy
type ExitCode uint8

// list of exit codes used by k6lazy, numbered the same as k6 uses them
const (
	GenericEngine   ExitCode = 103
	InvalidConfig   ExitCode = 104
	ExternalAbort   ExitCode = 105
	ScriptException ExitCode = 107
	ScriptAborted   ExitCode = 108
)
