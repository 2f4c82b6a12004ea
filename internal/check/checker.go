package check

import (
	"context"
	"strings"

	"github.com/MuratOzte/securekit/internal/data"
)

// Result is the outcome of a country check. SameCountry is nil when either
// country code is unknown, which is distinct from a mismatch.
type Result struct {
	SameCountry         *bool    `json:"same_country"`
	IPCountryCode       *string  `json:"ip_country_code"`
	ExpectedCountryCode *string  `json:"expected_country_code"`
	IPInfo              SlimInfo `json:"ip_info"`
}

// Checker resolves IP metadata through an InfoLookup and compares the
// resolved country against an expectation.
type Checker struct {
	lookup data.InfoLookup
}

// NewChecker creates a checker backed by the given InfoLookup.
func NewChecker(lookup data.InfoLookup) *Checker {
	return &Checker{lookup: lookup}
}

// CheckCountry fetches and slims the record for ip, then compares its
// country code against expected. Lookup failures propagate to the caller;
// there is no partial result.
func (c *Checker) CheckCountry(ctx context.Context, ip string, expected *string) (Result, error) {
	raw, err := c.lookup.LookupInfo(ctx, ip)
	if err != nil {
		return Result{}, err
	}

	info := Slim(raw)
	result := Result{
		IPCountryCode:       info.Location.CountryCode,
		ExpectedCountryCode: expected,
		IPInfo:              info,
	}
	if info.Location.CountryCode != nil && expected != nil {
		same := strings.EqualFold(*info.Location.CountryCode, *expected)
		result.SameCountry = &same
	}
	return result, nil
}
