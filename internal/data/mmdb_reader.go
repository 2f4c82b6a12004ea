package data

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MmdbReader implements InfoLookup using a local MaxMind City MMDB file.
// Security flags are not present in the database, so that group stays empty
// and downstream consumers see null flags.
type MmdbReader struct {
	db *geoip2.Reader
}

// NewMmdbReader opens the MMDB file at the given path and returns a reader.
func NewMmdbReader(path string) (*MmdbReader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MMDB file: %w", err)
	}
	return &MmdbReader{db: db}, nil
}

// LookupInfo resolves the IP against the City database and reshapes the
// record into the same group layout the remote API uses.
func (r *MmdbReader) LookupInfo(_ context.Context, ip string) (*RawInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("invalid IP address: %q", ip)
	}

	record, err := r.db.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("city lookup failed: %w", err)
	}

	location := map[string]any{}
	if name := record.City.Names["en"]; name != "" {
		location["city"] = name
	}
	if len(record.Subdivisions) > 0 {
		if name := record.Subdivisions[0].Names["en"]; name != "" {
			location["region"] = name
		}
	}
	if name := record.Country.Names["en"]; name != "" {
		location["country"] = name
	}
	if record.Country.IsoCode != "" {
		location["country_code"] = record.Country.IsoCode
	}
	if record.Location.TimeZone != "" {
		location["time_zone"] = record.Location.TimeZone
	}

	addr := ip
	info := &RawInfo{
		IP:       &addr,
		Location: location,
	}
	info.Normalize()
	return info, nil
}

// Close releases the MMDB reader resources.
func (r *MmdbReader) Close() error {
	return r.db.Close()
}
