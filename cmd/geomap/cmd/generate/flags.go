package generate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/pkg/dataset"
)

// Flags holds the generate command flags.
type Flags struct {
	Endpoint      string
	RPCToken      string
	GeoURL        string
	GeoKey        string
	Budget        int
	Delay         time.Duration
	Output        string
	DatasetFormat string
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "cluster JSON-RPC endpoint")
	cmd.Flags().StringVar(&flags.RPCToken, "rpc-token", "", "bearer token for the JSON-RPC endpoint")
	cmd.Flags().StringVar(&flags.GeoURL, "geo-url", "", "geolocation service base URL")
	cmd.Flags().StringVar(&flags.GeoKey, "geo-key", "", "geolocation service key (paid plans)")
	cmd.Flags().IntVar(&flags.Budget, "budget", 0, "maximum geolocation calls this run, -1 for no limit")
	cmd.Flags().DurationVar(&flags.Delay, "delay", 0, "minimum spacing between geolocation calls")
	cmd.Flags().StringVar(&flags.Output, "output", "", "dataset file path")
	cmd.Flags().StringVar(&flags.DatasetFormat, "dataset-format", "", "dataset format: json, yaml (default from the file extension)")

	return flags
}

// Options returns geomap options for the flags set on cmd.
func (f *Flags) Options(cmd *cobra.Command) ([]geomap.Option, error) {
	var opts []geomap.Option
	changed := cmd.Flags().Changed

	if changed("endpoint") {
		opts = append(opts, geomap.WithEndpoint(f.Endpoint))
	}
	if changed("rpc-token") {
		opts = append(opts, geomap.WithRPCToken(f.RPCToken))
	}
	if changed("geo-url") {
		opts = append(opts, geomap.WithGeoURL(f.GeoURL))
	}
	if changed("geo-key") {
		opts = append(opts, geomap.WithGeoKey(f.GeoKey))
	}
	if changed("budget") {
		opts = append(opts, geomap.WithBudget(f.Budget))
	}
	if changed("delay") {
		opts = append(opts, geomap.WithDelay(f.Delay))
	}
	if changed("output") {
		opts = append(opts, geomap.WithOutput(f.Output))
	}
	if changed("dataset-format") {
		format, explicit, err := dataset.ExplicitFormat(f.DatasetFormat)
		if err != nil {
			return nil, err
		}
		if explicit {
			opts = append(opts, geomap.WithFormat(format))
		}
	}

	return opts, nil
}
