// Package consts houses some constants needed across k6lazy
package consts

import (
	"fmt"
	"runtime"
	"strings"
)

// Version contains the current semantic version of k6lazy.
const Version = "0.1.0"

// VersionDetails can be set externally as part of the build process
var VersionDetails = "" //nolint:gochecknoglobals

// FullVersion returns the maximally full version and build information for
// the currently running k6lazy executable.
func FullVersion() string {
	goVersionArch := fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if VersionDetails != "" {
		return fmt.Sprintf("%s (%s, %s)", Version, VersionDetails, goVersionArch)
	}
	return fmt.Sprintf("%s (dev build, %s)", Version, goVersionArch)
}

// Banner returns the ASCII-art banner with the k6lazy logo
func Banner() string {
	return strings.Join([]string{
		`  _    __   _                  `,
		` | |__/ /  | |__ _ ___ _  _    `,
		` | / / _ \ | / _' |_ / || |   `,
		` |_\_\___/ |_\__,_/__|\_, |   `,
		`                      |__/    `,
	}, "\n")
}
