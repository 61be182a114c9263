// Package generate provides the generate command implementation.
package generate

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/geomap/internal/cmd/application"
)

// NewCommand creates the generate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "generate",
		GroupID: "core",
		Short:   "Update the validator location dataset",
		Args:    cobra.NoArgs,
		Long: `Generate updates the validator location dataset in place:

• List validators with a gossip address and a vote account from the cluster
• Load the existing dataset, starting fresh if it is missing or unreadable
• Keep every validator that is already located
• Geolocate the rest, one call at a time, until the call budget is spent
• Overwrite the dataset with one record per current validator

Validators that could not be located are written without location fields
and retried by the next run.`,
		Example: `  geomap generate                                  # Update validator-locations.json
  geomap generate --budget 10                      # At most 10 lookups this run
  geomap generate --budget -1 --delay 1.5s         # No cap, paced for the free tier
  geomap generate --output data/validators.yaml    # Write YAML`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd)
		},
	}

	flags = addFlags(cmd)

	return cmd
}
