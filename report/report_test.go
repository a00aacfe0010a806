package report

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nxdus/casualty-api/services"
)

func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/summary.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPrintTotalKilled(t *testing.T) {
	server := newUpstream(t, http.StatusOK, `{"gaza": {"killed": {"total": 35000}}, "west_bank": {"killed": {"total": 600}}}`)

	var out bytes.Buffer
	if err := PrintTotalKilled(context.Background(), services.NewHTTPFetcher(server.URL), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "Total number of people killed: 35600\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrintTotalKilledUpstreamError(t *testing.T) {
	server := newUpstream(t, http.StatusInternalServerError, `oops`)

	var out bytes.Buffer
	err := PrintTotalKilled(context.Background(), services.NewHTTPFetcher(server.URL), &out)
	if !services.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "An error occurred: ") {
		t.Fatalf("unexpected output %q", got)
	}
	if strings.Contains(got, "Total number of people killed") {
		t.Fatalf("total must not be printed on failure: %q", got)
	}
}

func TestPrintTotalKilledDecodeError(t *testing.T) {
	server := newUpstream(t, http.StatusOK, `<html>maintenance</html>`)

	var out bytes.Buffer
	err := PrintTotalKilled(context.Background(), services.NewHTTPFetcher(server.URL), &out)
	if !services.IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "An error occurred: ") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPrintTotalKilledSchemaError(t *testing.T) {
	server := newUpstream(t, http.StatusOK, `{"gaza": {"killed": {"total": 35000}}}`)

	var out bytes.Buffer
	err := PrintTotalKilled(context.Background(), services.NewHTTPFetcher(server.URL), &out)
	if !services.IsSchema(err) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if !strings.Contains(out.String(), "west_bank.killed.total") {
		t.Fatalf("expected missing field in output, got %q", out.String())
	}
}
