// Package stats provides the stats command implementation.
package stats

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/geomap/cmd/geomap/cmd/list"
	"github.com/agentstation/geomap/internal/cmd/application"
	"github.com/agentstation/geomap/internal/cmd/output"
)

// NewCommand creates the stats command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "stats [dataset]",
		GroupID: "core",
		Short:   "Summarize dataset coverage by country",
		Args:    cobra.MaximumNArgs(1),
		Example: `  geomap stats
  geomap stats -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := list.Load(app, args)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.NewStats(records))
		},
	}
}
