// Package validators defines the data model shared by the directory client,
// the geolocation client, the dataset store and the reconciler.
//
// A Record is a Candidate plus an optional Location. The location is either
// present (the record is Located) or absent (Pending); there is no partially
// located state.
package validators

// Candidate is a validator discovered in the current run.
type Candidate struct {
	NodeIdentity string `json:"nodePubkey" yaml:"nodePubkey"`
	VoteIdentity string `json:"votePubkey" yaml:"votePubkey"`
	Address      string `json:"ip" yaml:"ip"`
}

// Location is the geographic and network metadata resolved for an address.
type Location struct {
	Country     string  `json:"country" yaml:"country"`
	CountryCode string  `json:"countryCode" yaml:"countryCode"`
	Region      string  `json:"region" yaml:"region"`
	City        string  `json:"city" yaml:"city"`
	Latitude    float64 `json:"lat" yaml:"lat"`
	Longitude   float64 `json:"lon" yaml:"lon"`
	ISP         string  `json:"isp" yaml:"isp"`
}

// Status reports whether a record carries a location.
type Status string

// Status values.
const (
	StatusLocated Status = "located"
	StatusPending Status = "pending"
)

// Record is a persisted validator: identity plus optional location.
type Record struct {
	Candidate
	Location *Location
}

// Located reports whether the record has been enriched with a location.
// A latitude of 0 is a real coordinate and counts as located.
func (r Record) Located() bool {
	return r.Location != nil
}

// Status returns StatusLocated or StatusPending.
func (r Record) Status() Status {
	if r.Located() {
		return StatusLocated
	}
	return StatusPending
}

// Merge builds a record from a candidate and an optional location.
// The location is copied so the record never aliases the caller's value.
func Merge(c Candidate, loc *Location) Record {
	r := Record{Candidate: c}
	if loc != nil {
		l := *loc
		r.Location = &l
	}
	return r
}

// Bare returns the record for a candidate without a location.
func Bare(c Candidate) Record {
	return Merge(c, nil)
}

// Index maps records by node identity. When identities repeat the last
// record wins.
func Index(records []Record) map[string]Record {
	out := make(map[string]Record, len(records))
	for _, r := range records {
		out[r.NodeIdentity] = r
	}
	return out
}
