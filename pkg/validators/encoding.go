package validators

import (
	"encoding/json"

	"github.com/agentstation/geomap/internal/utils/ptr"
)

// recordFile is the flat on-disk shape of a Record. Location keys are only
// written for located records, and a record is read back as located iff
// its lat key is present and non-null.
type recordFile struct {
	NodeIdentity string   `json:"nodePubkey" yaml:"nodePubkey"`
	VoteIdentity string   `json:"votePubkey" yaml:"votePubkey"`
	Address      string   `json:"ip" yaml:"ip"`
	Country      *string  `json:"country,omitempty" yaml:"country,omitempty"`
	CountryCode  *string  `json:"countryCode,omitempty" yaml:"countryCode,omitempty"`
	Region       *string  `json:"region,omitempty" yaml:"region,omitempty"`
	City         *string  `json:"city,omitempty" yaml:"city,omitempty"`
	Latitude     *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Longitude    *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
	ISP          *string  `json:"isp,omitempty" yaml:"isp,omitempty"`
}

func (r Record) toFile() recordFile {
	f := recordFile{
		NodeIdentity: r.NodeIdentity,
		VoteIdentity: r.VoteIdentity,
		Address:      r.Address,
	}
	if loc := r.Location; loc != nil {
		f.Country = ptr.String(loc.Country)
		f.CountryCode = ptr.String(loc.CountryCode)
		f.Region = ptr.String(loc.Region)
		f.City = ptr.String(loc.City)
		f.Latitude = ptr.Float64(loc.Latitude)
		f.Longitude = ptr.Float64(loc.Longitude)
		f.ISP = ptr.String(loc.ISP)
	}
	return f
}

func (f recordFile) toRecord() Record {
	r := Record{Candidate: Candidate{
		NodeIdentity: f.NodeIdentity,
		VoteIdentity: f.VoteIdentity,
		Address:      f.Address,
	}}
	if f.Latitude == nil {
		return r
	}
	r.Location = &Location{
		Country:     ptr.Deref(f.Country),
		CountryCode: ptr.Deref(f.CountryCode),
		Region:      ptr.Deref(f.Region),
		City:        ptr.Deref(f.City),
		Latitude:    *f.Latitude,
		Longitude:   ptr.Deref(f.Longitude),
		ISP:         ptr.Deref(f.ISP),
	}
	return r
}

// MarshalJSON writes the record in the flat dataset layout.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toFile())
}

// UnmarshalJSON reads the flat dataset layout.
func (r *Record) UnmarshalJSON(data []byte) error {
	var f recordFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = f.toRecord()
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (r Record) MarshalYAML() (any, error) {
	return r.toFile(), nil
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (r *Record) UnmarshalYAML(unmarshal func(any) error) error {
	var f recordFile
	if err := unmarshal(&f); err != nil {
		return err
	}
	*r = f.toRecord()
	return nil
}
