package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/k6lazy/js/modules"
	"github.com/liuxd6825/k6lazy/lib/consts"
)

func versionString() string {
	v := "k6lazy v" + consts.FullVersion()

	if names := modules.GetJSModuleNames(); len(names) > 0 {
		v += fmt.Sprintf("\nModules:\n  %s\n", strings.Join(names, "\n  "))
	}
	return v
}

type versionCmd struct {
	root   *rootCommand
	isJSON bool
}

func (c *versionCmd) run(_ *cobra.Command, _ []string) error {
	if !c.isJSON {
		printToStdout(c.root.gs, versionString()+"\n")
		return nil
	}

	details := map[string]interface{}{
		"version":    consts.Version,
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
		"modules":    modules.GetJSModuleNames(),
	}
	if consts.VersionDetails != "" {
		details["commit"] = consts.VersionDetails
	}

	jsonDetails, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed produce a JSON version details: %w", err)
	}

	printToStdout(c.root.gs, string(jsonDetails)+"\n")
	return nil
}

func getCmdVersion(root *rootCommand) *cobra.Command {
	versionCmd := &versionCmd{root: root}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		RunE:  versionCmd.run,
	}

	cmd.Flags().BoolVar(&versionCmd.isJSON, "json", false, "if set, output version information will be in JSON format")

	return cmd
}
