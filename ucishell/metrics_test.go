package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsHandler(t *testing.T) {
	reg, m, err := newMetricsRegistry()
	if err != nil {
		t.Fatal(err)
	}
	m.CommandsSent.Add(3)

	srv := httptest.NewServer(newMetricsHandler(reg))
	defer srv.Close()

	body := get(t, srv.URL+"/metrics")
	for _, want := range []string{"uci_commands_sent_total 3", "uci_engine_running", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics should contain %q", want)
		}
	}

	if got := get(t, srv.URL+"/health"); got != "OK" {
		t.Errorf("/health = %q, want OK", got)
	}
}

func TestStartMetricsServer(t *testing.T) {
	reg, _, err := newMetricsRegistry()
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ms, err := startMetricsServer("127.0.0.1:0", reg, logger)
	if err != nil {
		t.Fatal(err)
	}
	if got := get(t, "http://"+ms.addr+"/health"); got != "OK" {
		t.Errorf("/health = %q", got)
	}
	ms.close()

	if _, err := http.Get("http://" + ms.addr + "/health"); err == nil {
		t.Error("server should refuse connections after close")
	}

	var nilServer *metricsServer
	nilServer.close()

	if _, err := startMetricsServer("256.0.0.1:bad", reg, logger); err == nil {
		t.Error("expected listen error for a bad address")
	}
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
