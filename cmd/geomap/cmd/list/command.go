// Package list provides the list command implementation.
package list

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/internal/cmd/application"
	"github.com/agentstation/geomap/internal/cmd/output"
	"github.com/agentstation/geomap/pkg/validators"
)

// Flags holds the list command flags.
type Flags struct {
	Located bool
	Pending bool
	Country string
	Limit   int
}

// NewCommand creates the list command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "list [dataset]",
		GroupID: "core",
		Short:   "List the records of the dataset",
		Args:    cobra.MaximumNArgs(1),
		Example: `  geomap list                         # Table of all records
  geomap list --pending               # Validators still waiting for a location
  geomap list --country DE -o wide    # German validators with coordinates and ISP
  geomap list data/validators.yaml -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := Load(app, args)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), Filter(records, flags))
		},
	}

	cmd.Flags().BoolVar(&flags.Located, "located", false, "only records with a location")
	cmd.Flags().BoolVar(&flags.Pending, "pending", false, "only records without a location")
	cmd.Flags().StringVar(&flags.Country, "country", "", "only records in this country (name or code)")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0, "maximum number of records (0 for all)")
	cmd.MarkFlagsMutuallyExclusive("located", "pending")

	return cmd
}

// Load reads the dataset named by args, or the configured one.
func Load(app application.Application, args []string) ([]validators.Record, error) {
	var opts []geomap.Option
	if len(args) == 1 {
		opts = append(opts, geomap.WithOutput(args[0]))
	}
	gm, err := app.GeomapWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	return gm.Records()
}

// Filter applies the list flags to records, keeping their order.
func Filter(records []validators.Record, flags *Flags) output.Records {
	out := make(output.Records, 0, len(records))
	for _, rec := range records {
		if flags.Located && !rec.Located() {
			continue
		}
		if flags.Pending && rec.Located() {
			continue
		}
		if flags.Country != "" && !inCountry(rec, flags.Country) {
			continue
		}
		out = append(out, rec)
		if flags.Limit > 0 && len(out) == flags.Limit {
			break
		}
	}
	return out
}

func inCountry(rec validators.Record, country string) bool {
	if rec.Location == nil {
		return false
	}
	return strings.EqualFold(rec.Location.CountryCode, country) ||
		strings.EqualFold(rec.Location.Country, country)
}
