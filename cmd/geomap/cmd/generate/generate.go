package generate

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/geomap/internal/cmd/application"
	"github.com/agentstation/geomap/internal/cmd/output"
	"github.com/agentstation/geomap/pkg/logging"
)

// Summary is the printed outcome of a generate run.
type Summary struct {
	Path       string `json:"path" yaml:"path"`
	Candidates int    `json:"candidates" yaml:"candidates"`
	Added      int    `json:"added" yaml:"added"`
	Existing   int    `json:"existing" yaml:"existing"`
	Missed     int    `json:"missed" yaml:"missed"`
	Deferred   int    `json:"deferred" yaml:"deferred"`
	Dropped    int    `json:"dropped" yaml:"dropped"`
	Calls      int    `json:"calls" yaml:"calls"`
	Total      int    `json:"total" yaml:"total"`
}

// TableData renders the summary as property/value rows.
func (s Summary) TableData(_ bool) output.Data {
	return output.Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Path", s.Path},
			{"Candidates", strconv.Itoa(s.Candidates)},
			{"Added", strconv.Itoa(s.Added)},
			{"Existing", strconv.Itoa(s.Existing)},
			{"Missed", strconv.Itoa(s.Missed)},
			{"Deferred", strconv.Itoa(s.Deferred)},
			{"Dropped", strconv.Itoa(s.Dropped)},
			{"Calls", strconv.Itoa(s.Calls)},
			{"Total", strconv.Itoa(s.Total)},
		},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight},
	}
}

// Execute runs one dataset update. The summary is printed only when an
// output format was requested; the log carries it otherwise.
func Execute(ctx context.Context, app application.Application, flags *Flags, cmd *cobra.Command) error {
	ctx = logging.WithLogger(ctx, app.Logger())

	opts, err := flags.Options(cmd)
	if err != nil {
		return err
	}

	gm, err := app.GeomapWithOptions(opts...)
	if err != nil {
		return err
	}

	result, err := gm.Generate(ctx)
	if err != nil {
		return err
	}

	format := app.OutputFormat()
	if format == "" {
		return nil
	}

	return output.Write(cmd.OutOrStdout(), format, Summary{
		Path:       result.Path,
		Candidates: result.Candidates,
		Added:      result.Added(),
		Existing:   result.Existing,
		Missed:     result.Missed,
		Deferred:   result.Deferred,
		Dropped:    result.Dropped,
		Calls:      result.Calls,
		Total:      result.Total(),
	})
}
