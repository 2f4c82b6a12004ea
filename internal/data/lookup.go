package data

import "context"

// RawInfo is the normalized form of an upstream lookup response. The three
// field groups are always non-nil maps; a group the upstream omitted is an
// empty map, not an error.
type RawInfo struct {
	IP       *string        `json:"ip"`
	Security map[string]any `json:"security"`
	Location map[string]any `json:"location"`
	Network  map[string]any `json:"network"`
}

// Normalize replaces nil field groups with empty maps.
func (r *RawInfo) Normalize() {
	if r.Security == nil {
		r.Security = map[string]any{}
	}
	if r.Location == nil {
		r.Location = map[string]any{}
	}
	if r.Network == nil {
		r.Network = map[string]any{}
	}
}

// InfoLookup defines the interface for IP metadata lookups.
type InfoLookup interface {
	// LookupInfo returns the metadata record for the given IP address.
	// The input is forwarded as-is; validation is left to the backend.
	LookupInfo(ctx context.Context, ip string) (*RawInfo, error)

	// Close releases any resources held by the lookup implementation.
	Close() error
}
