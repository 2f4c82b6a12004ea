package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/MuratOzte/securekit/internal/check"
	"github.com/MuratOzte/securekit/internal/data"
)

// recordingLookup implements data.InfoLookup and counts invocations.
type recordingLookup struct {
	info  *data.RawInfo
	err   error
	calls int
}

func (r *recordingLookup) LookupInfo(_ context.Context, _ string) (*data.RawInfo, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	r.info.Normalize()
	return r.info, nil
}

func (r *recordingLookup) Close() error {
	return nil
}

func TestRun_MissingArgument(t *testing.T) {
	lookup := &recordingLookup{}
	var stdout, stderr bytes.Buffer

	code := run(nil, lookup, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if lookup.calls != 0 {
		t.Errorf("expected no lookups for usage error, got %d", lookup.calls)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("expected usage message on stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected empty stdout, got %q", stdout.String())
	}
}

func TestRun_Success(t *testing.T) {
	ip := "8.8.8.8"
	lookup := &recordingLookup{info: &data.RawInfo{
		IP: &ip,
		Location: map[string]any{
			"country_code": "US",
			"time_zone":    "America/Los_Angeles",
		},
		Security: map[string]any{"vpn": false},
	}}
	var stdout, stderr bytes.Buffer

	code := run([]string{"8.8.8.8", "US"}, lookup, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if lookup.calls != 1 {
		t.Errorf("expected exactly one lookup, got %d", lookup.calls)
	}

	line := stdout.String()
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Errorf("expected a single JSON line, got %q", line)
	}

	var result check.Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if result.SameCountry == nil || !*result.SameCountry {
		t.Error("expected same_country true")
	}
	if result.IPCountryCode == nil || *result.IPCountryCode != "US" {
		t.Errorf("expected ip_country_code US, got %v", result.IPCountryCode)
	}
	if result.IPInfo.Security.Proxy != nil {
		t.Error("expected proxy null for field absent upstream")
	}
}

func TestRun_NoExpectedCode(t *testing.T) {
	lookup := &recordingLookup{info: &data.RawInfo{
		Location: map[string]any{"country_code": "TR"},
	}}
	var stdout, stderr bytes.Buffer

	code := run([]string{"1.2.3.4"}, lookup, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var out map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if out["same_country"] != nil {
		t.Errorf("expected null same_country, got %v", out["same_country"])
	}
	if out["expected_country_code"] != nil {
		t.Errorf("expected null expected_country_code, got %v", out["expected_country_code"])
	}
}

func TestRun_FetchFailure(t *testing.T) {
	lookup := &recordingLookup{err: &data.RemoteError{StatusCode: 503, Body: "overloaded"}}
	var stdout, stderr bytes.Buffer

	code := run([]string{"1.2.3.4", "US"}, lookup, &stdout, &stderr)

	if code == 0 {
		t.Error("expected non-zero exit code")
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no JSON on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "503") {
		t.Errorf("expected diagnostic with status on stderr, got %q", stderr.String())
	}
}

func TestRun_NonASCIIPreserved(t *testing.T) {
	lookup := &recordingLookup{info: &data.RawInfo{
		Location: map[string]any{
			"city":         "Kadıköy",
			"country_code": "TR",
		},
	}}
	var stdout, stderr bytes.Buffer

	code := run([]string{"1.2.3.4"}, lookup, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Kadıköy") {
		t.Errorf("expected non-ASCII city preserved unescaped, got %q", stdout.String())
	}
}

func TestRun_GenericLookupError(t *testing.T) {
	lookup := &recordingLookup{err: fmt.Errorf("dial tcp: i/o timeout")}
	var stdout, stderr bytes.Buffer

	code := run([]string{"1.2.3.4"}, lookup, &stdout, &stderr)

	if code == 0 {
		t.Error("expected non-zero exit code")
	}
	if !strings.Contains(stderr.String(), "i/o timeout") {
		t.Errorf("expected diagnostic on stderr, got %q", stderr.String())
	}
}
