//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestLiveness(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/livez", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	health := decode[healthResponse](t, resp)
	if health.Status != "ok" {
		t.Fatalf("expected status ok, got %q", health.Status)
	}
}

func TestReadiness(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/readyz", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	health := decode[healthResponse](t, resp)
	if health.Status != "ok" {
		t.Fatalf("expected status ok, got %q", health.Status)
	}
	if len(health.Checks) != 0 {
		t.Fatalf("expected no failing checks, got %v", health.Checks)
	}
}
