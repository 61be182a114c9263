package output

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/geomap/pkg/validators"
)

// unknownCountry labels records without a country.
const unknownCountry = "Unknown"

// Records is a dataset listing.
type Records []validators.Record

// TableData renders one row per record. The wide layout adds coordinates
// and ISP.
func (r Records) TableData(wide bool) Data {
	headers := []string{"Node", "IP", "Status", "Country", "City"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Vote", "Lat", "Lon", "ISP")
		align = append(align, AlignLeft, AlignRight, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(r))
	for _, rec := range r {
		row := []string{rec.NodeIdentity, rec.Address, string(rec.Status()), "", ""}
		var lat, lon, isp string
		if loc := rec.Location; loc != nil {
			row[3] = countryName(loc.Country)
			row[4] = loc.City
			lat = formatCoord(loc.Latitude)
			lon = formatCoord(loc.Longitude)
			isp = loc.ISP
		}
		if wide {
			row = append(row, rec.VoteIdentity, lat, lon, isp)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// CountryCount is the number of located records in one country.
type CountryCount struct {
	Country     string `json:"country" yaml:"country"`
	CountryCode string `json:"countryCode,omitempty" yaml:"countryCode,omitempty"`
	Count       int    `json:"count" yaml:"count"`
}

// Stats summarizes a dataset.
type Stats struct {
	Total     int            `json:"total" yaml:"total"`
	Located   int            `json:"located" yaml:"located"`
	Pending   int            `json:"pending" yaml:"pending"`
	Countries []CountryCount `json:"countries" yaml:"countries"`
}

// NewStats counts located and pending records and groups the located ones
// by country, largest first.
func NewStats(records []validators.Record) *Stats {
	stats := &Stats{Total: len(records), Countries: []CountryCount{}}
	byName := make(map[string]*CountryCount)

	for _, rec := range records {
		if !rec.Located() {
			stats.Pending++
			continue
		}
		stats.Located++

		name := countryName(rec.Location.Country)
		cc, ok := byName[name]
		if !ok {
			cc = &CountryCount{Country: name, CountryCode: strings.ToUpper(rec.Location.CountryCode)}
			byName[name] = cc
		}
		cc.Count++
	}

	for _, cc := range byName {
		stats.Countries = append(stats.Countries, *cc)
	}
	slices.SortFunc(stats.Countries, func(a, b CountryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Country, b.Country)
	})
	return stats
}

// TableData renders the totals followed by one row per country.
func (s *Stats) TableData(_ bool) Data {
	rows := [][]string{
		{"Total", "", strconv.Itoa(s.Total)},
		{"Located", "", strconv.Itoa(s.Located)},
		{"Pending", "", strconv.Itoa(s.Pending)},
	}
	for _, cc := range s.Countries {
		rows = append(rows, []string{cc.Country, cc.CountryCode, strconv.Itoa(cc.Count)})
	}
	return Data{
		Headers:         []string{"Country", "Code", "Validators"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// countryName normalizes the casing of a country name.
func countryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return unknownCountry
	}
	return cases.Title(language.English, cases.NoLower).String(name)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
