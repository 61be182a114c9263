package stats

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/internal/cmd/application"
	"github.com/agentstation/geomap/internal/cmd/output"
	"github.com/agentstation/geomap/internal/testhelper"
)

func TestStatsCommand(t *testing.T) {
	path := testhelper.WriteFile(t, "validator-locations.json", []byte(`[
  {"nodePubkey": "A", "votePubkey": "VA", "ip": "203.0.113.1", "country": "Germany", "countryCode": "DE", "lat": 50.1, "lon": 8.6},
  {"nodePubkey": "B", "votePubkey": "VB", "ip": "203.0.113.2", "country": "Germany", "countryCode": "DE", "lat": 52.5, "lon": 13.4},
  {"nodePubkey": "C", "votePubkey": "VC", "ip": "203.0.113.3", "country": "Ghana", "countryCode": "GH", "lat": 0, "lon": -0.18},
  {"nodePubkey": "D", "votePubkey": "VD", "ip": "203.0.113.4"}
]`))

	app := &application.Mock{
		GeomapWithOptionsFunc: func(opts ...geomap.Option) (geomap.Geomap, error) {
			return geomap.New(append([]geomap.Option{geomap.WithOutput(path)}, opts...)...)
		},
		OutputFormatFunc: func() string { return "json" },
	}

	cmd := NewCommand(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var got output.Stats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 3, got.Located)
	assert.Equal(t, 1, got.Pending)
	require.Len(t, got.Countries, 2)
	assert.Equal(t, output.CountryCount{Country: "Germany", CountryCode: "DE", Count: 2}, got.Countries[0])
	assert.Equal(t, "Ghana", got.Countries[1].Country)
}
