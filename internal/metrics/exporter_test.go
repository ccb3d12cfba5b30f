package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"guessgame/util"
)

func TestRegister_Values(t *testing.T) {
	c := New()
	reg := prometheus.NewRegistry()
	if err := Register(reg, c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	c.GuessEvaluated(false)
	c.GuessEvaluated(true)
	c.ResponseSent(http.StatusMovedPermanently)

	expected := `
# HELP guessgame_guesses_total Guesses evaluated.
# TYPE guessgame_guesses_total counter
guessgame_guesses_total 2
# HELP guessgame_games_won_total Correct guesses.
# TYPE guessgame_games_won_total counter
guessgame_games_won_total 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"guessgame_guesses_total", "guessgame_games_won_total")
	if err != nil {
		t.Errorf("gathered metrics differ: %v", err)
	}

	n, err := testutil.GatherAndCount(reg, "guessgame_responses_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != len(statusCodes) {
		t.Errorf("responses_total series = %d, want %d", n, len(statusCodes))
	}
}

func TestRegister_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg, New()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := Register(reg, New()); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestExporter_Serve(t *testing.T) {
	c := New()
	c.ConnectionOpened()
	reg := prometheus.NewRegistry()
	if err := Register(reg, c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exp := &Exporter{Gatherer: reg, GracePeriod: time.Second, Logger: util.NewLogger(0)}
	done := make(chan error, 1)
	go func() { done <- exp.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "guessgame_connections_active 1") {
		t.Errorf("metrics missing connections_active:\n%s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("exporter did not shut down in time")
	}
}
