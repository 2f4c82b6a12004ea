package check

import (
	"time"

	"github.com/MuratOzte/securekit/internal/data"
)

// SecurityFlags holds the four anonymization indicators. A flag the
// upstream did not report is nil and serializes as null.
type SecurityFlags struct {
	VPN   *bool `json:"vpn"`
	Proxy *bool `json:"proxy"`
	Tor   *bool `json:"tor"`
	Relay *bool `json:"relay"`
}

// Location holds the coarse location fields plus the derived UTC offset.
type Location struct {
	City             *string `json:"city"`
	Region           *string `json:"region"`
	Country          *string `json:"country"`
	CountryCode      *string `json:"country_code"`
	TimeZone         *string `json:"time_zone"`
	UTCOffsetMinutes *int    `json:"utc_offset_minutes"`
}

// SlimInfo is the whitelisted projection of an upstream lookup record.
// The network group, coordinates, and continent are excluded.
type SlimInfo struct {
	IP       *string       `json:"ip"`
	Security SecurityFlags `json:"security"`
	Location Location      `json:"location"`
}

// Slim projects a raw record down to the fixed field whitelist and derives
// the current UTC offset for the reported timezone.
func Slim(raw *data.RawInfo) SlimInfo {
	info := SlimInfo{
		IP: raw.IP,
		Security: SecurityFlags{
			VPN:   boolField(raw.Security, "vpn"),
			Proxy: boolField(raw.Security, "proxy"),
			Tor:   boolField(raw.Security, "tor"),
			Relay: boolField(raw.Security, "relay"),
		},
		Location: Location{
			City:        stringField(raw.Location, "city"),
			Region:      stringField(raw.Location, "region"),
			Country:     stringField(raw.Location, "country"),
			CountryCode: stringField(raw.Location, "country_code"),
			TimeZone:    stringField(raw.Location, "time_zone"),
		},
	}
	if info.Location.TimeZone != nil {
		info.Location.UTCOffsetMinutes = UTCOffsetMinutes(*info.Location.TimeZone)
	}
	return info
}

// UTCOffsetMinutes returns the named zone's offset from UTC at the current
// instant, in minutes. Empty names, unknown zones, and a runtime without a
// timezone database all yield nil rather than an error.
func UTCOffsetMinutes(name string) *int {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}
	_, seconds := time.Now().In(loc).Zone()
	minutes := seconds / 60
	return &minutes
}

func boolField(group map[string]any, key string) *bool {
	if v, ok := group[key].(bool); ok {
		return &v
	}
	return nil
}

func stringField(group map[string]any, key string) *string {
	if v, ok := group[key].(string); ok {
		return &v
	}
	return nil
}
