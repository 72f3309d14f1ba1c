package cmdconfig

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// CommandFullKey returns the dotted path of cmd from the root, e.g. bqpipe.pipeline.show
func CommandFullKey(cmd *cobra.Command) string {
	var parents []string
	parents = append(parents, cmd.Name())
	cmd.VisitParents(func(parent *cobra.Command) {
		parents = append(parents, parent.Name())
	})

	slices.Reverse(parents)

	return strings.Join(parents, ".")
}
