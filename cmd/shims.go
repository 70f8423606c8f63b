package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/k6lazy/errext"
	"github.com/liuxd6825/k6lazy/errext/exitcodes"
	"github.com/liuxd6825/k6lazy/js/modules/lazy"
)

type shimReport struct {
	Kind   string   `yaml:"kind"`
	Plain  []string `yaml:"plain"`
	Frozen []string `yaml:"frozen"`
}

type cmdShims struct {
	root *rootCommand
	kind string
}

func (c *cmdShims) run(_ *cobra.Command, _ []string) error {
	kinds := lazy.Kinds()
	if c.kind != "" {
		k, err := lazy.ParseKind(c.kind)
		if err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
		}
		kinds = []lazy.Kind{k}
	}

	report := make([]shimReport, 0, len(kinds))
	for _, k := range kinds {
		report = append(report, shimReport{
			Kind:   k.String(),
			Plain:  lazy.ShimKeys(k, false),
			Frozen: lazy.ShimKeys(k, true),
		})
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode the shim table: %w", err)
	}
	printToStdout(c.root.gs, string(out))
	return nil
}

func getCmdShims(root *rootCommand) *cobra.Command {
	c := &cmdShims{root: root}

	shimsCmd := &cobra.Command{
		Use:   "shims",
		Short: "Show the non-configurable keys every proxy kind reports",
		Long: `Show the shim table.

Every kind of carrier has own properties that are not configurable. A proxy
must report them from ownKeys even when its backing value lacks them, so they
are listed here for each kind, with and without freezing.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	shimsCmd.Flags().StringVar(&c.kind, "kind", "", "only show this kind (arrow, func, obj or class)")
	return shimsCmd
}
