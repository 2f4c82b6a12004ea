package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MuratOzte/securekit/internal/check"
	"github.com/MuratOzte/securekit/internal/config"
	"github.com/MuratOzte/securekit/internal/data"
)

const usage = "Usage: ipcheck <ip> [expected_country_code]"

func main() {
	// Configuration is a startup precondition: a missing API key aborts
	// before any arguments are looked at and before any I/O.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipcheck:", err)
		os.Exit(1)
	}

	lookup, err := newLookup(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipcheck:", err)
		os.Exit(1)
	}
	defer lookup.Close()

	os.Exit(run(os.Args[1:], lookup, os.Stdout, os.Stderr))
}

// newLookup selects the lookup backend: a local MMDB file when configured,
// the vpnapi.io client otherwise.
func newLookup(cfg *config.Config) (data.InfoLookup, error) {
	if cfg.MMDBPath != "" {
		return data.NewMmdbReader(cfg.MMDBPath)
	}
	return data.NewVPNAPIClient(cfg.APIKey), nil
}

func run(args []string, lookup data.InfoLookup, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	ip := args[0]
	var expected *string
	if len(args) > 1 && args[1] != "" {
		expected = &args[1]
	}

	checker := check.NewChecker(lookup)
	result, err := checker.CheckCountry(context.Background(), ip, expected)
	if err != nil {
		fmt.Fprintf(stderr, "ipcheck: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "ipcheck: failed to encode result: %v\n", err)
		return 1
	}
	return 0
}
