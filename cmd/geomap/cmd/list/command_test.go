package list

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/internal/cmd/application"
	"github.com/agentstation/geomap/internal/testhelper"
	"github.com/agentstation/geomap/pkg/validators"
)

const fixture = `[
  {"nodePubkey": "NodeA", "votePubkey": "VoteA", "ip": "203.0.113.10", "country": "Germany", "countryCode": "DE", "city": "Frankfurt", "lat": 50.1, "lon": 8.6},
  {"nodePubkey": "NodeB", "votePubkey": "VoteB", "ip": "198.51.100.7"},
  {"nodePubkey": "NodeC", "votePubkey": "VoteC", "ip": "192.0.2.9", "country": "Japan", "countryCode": "JP", "city": "Tokyo", "lat": 35.6, "lon": 139.6}
]`

func mockApp(t *testing.T, format string) *application.Mock {
	t.Helper()
	path := testhelper.WriteFile(t, "validator-locations.json", []byte(fixture))
	return &application.Mock{
		GeomapWithOptionsFunc: func(opts ...geomap.Option) (geomap.Geomap, error) {
			return geomap.New(append([]geomap.Option{geomap.WithOutput(path)}, opts...)...)
		},
		OutputFormatFunc: func() string { return format },
	}
}

func run(t *testing.T, app *application.Mock, args ...string) []map[string]any {
	t.Helper()
	cmd := NewCommand(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.Execute())

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func nodes(rows []map[string]any) []string {
	var ids []string
	for _, r := range rows {
		ids = append(ids, r["nodePubkey"].(string))
	}
	return ids
}

func TestListCommand(t *testing.T) {
	app := mockApp(t, "json")

	assert.Equal(t, []string{"NodeA", "NodeB", "NodeC"}, nodes(run(t, app)))
	assert.Equal(t, []string{"NodeB"}, nodes(run(t, app, "--pending")))
	assert.Equal(t, []string{"NodeA", "NodeC"}, nodes(run(t, app, "--located")))
	assert.Equal(t, []string{"NodeC"}, nodes(run(t, app, "--country", "jp")))
	assert.Equal(t, []string{"NodeA"}, nodes(run(t, app, "--country", "germany", "--limit", "1")))
}

func TestListCommandExplicitPath(t *testing.T) {
	app := mockApp(t, "json")
	other := testhelper.WriteFile(t, "other.json", []byte(`[{"nodePubkey":"NodeZ","votePubkey":"VoteZ","ip":"10.0.0.1"}]`))

	assert.Equal(t, []string{"NodeZ"}, nodes(run(t, app, other)))
}

func TestListCommandMissingDataset(t *testing.T) {
	app := mockApp(t, "json")
	cmd := NewCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/validator-locations.json"})
	assert.Error(t, cmd.Execute())
}

func TestListCommandTable(t *testing.T) {
	app := mockApp(t, "table")
	cmd := NewCommand(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "NodeA")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "Frankfurt")
}

func TestFilterKeepsOrder(t *testing.T) {
	records := []validators.Record{
		validators.Bare(validators.Candidate{NodeIdentity: "3"}),
		validators.Bare(validators.Candidate{NodeIdentity: "1"}),
		validators.Bare(validators.Candidate{NodeIdentity: "2"}),
	}
	got := Filter(records, &Flags{})
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].NodeIdentity)
	assert.Equal(t, "2", got[2].NodeIdentity)
}
