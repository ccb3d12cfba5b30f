package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"guessgame/util"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help returns without error.
func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"-h"}} {
		t.Run(args[0], func(t *testing.T) {
			if err := Execute(context.Background(), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	err := Execute(context.Background(), []string{"-p", "8080", "-k", "--dry-run"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSub string
	}{
		{"port", []string{"-p", "70000", "--dry-run"}, "--port=70000"},
		{"timeout", []string{"-w", "0", "--dry-run"}, "--timeout"},
		{"request limit", []string{"--max-request-bytes", "10", "--dry-run"}, "--max-request-bytes"},
		{"metrics clash", []string{"-p", "9000", "--metrics-addr", ":9000", "--dry-run"}, "--metrics-addr"},
		{"missing pages", []string{"--pages", "/does/not/exist", "--dry-run"}, "pages directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Execute(context.Background(), tt.args)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	if err := Execute(context.Background(), []string{"--nonexistent-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_PositionalArgs verifies stray arguments are rejected.
func TestExecute_PositionalArgs(t *testing.T) {
	if err := Execute(context.Background(), []string{"example.com", "80"}); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}

// TestExecute_ConfigFile verifies flags override the YAML file.
func TestExecute_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guessgame.yaml")
	if err := os.WriteFile(path, []byte("port: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Execute(context.Background(), []string{"--config", path, "--dry-run"}); err == nil {
		t.Error("expected the file's port 0 to fail validation")
	}
	if err := Execute(context.Background(), []string{"--config", path, "-p", "8080", "--dry-run"}); err != nil {
		t.Errorf("flag should override file: %v", err)
	}
}

// TestExecute_Serve starts the server, plays one request, scrapes the
// metrics endpoint and shuts everything down.
func TestExecute_Serve(t *testing.T) {
	gamePort, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	metricsPort, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if gamePort == metricsPort {
		t.Skip("could not find two distinct free ports")
	}
	gameAddr := "127.0.0.1:" + strconv.Itoa(gamePort)
	metricsAddr := "127.0.0.1:" + strconv.Itoa(metricsPort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Execute(ctx, []string{
			"--host", "127.0.0.1",
			"-p", strconv.Itoa(gamePort),
			"--metrics-addr", metricsAddr,
			"-w", "2",
		})
	}()

	conn := dialRetry(t, gameAddr)
	fmt.Fprint(conn, "GET /index.html HTTP/1.1\r\n\r\n")
	conn.SetDeadline(time.Now().Add(3 * time.Second)) //nolint:errcheck
	out, _ := io.ReadAll(conn)
	conn.Close()
	if !strings.Contains(string(out), "Set-Cookie: clientId=1;") {
		t.Errorf("unexpected response:\n%s", out)
	}

	body := scrapeRetry(t, "http://"+metricsAddr+"/metrics")
	for _, want := range []string{
		"guessgame_sessions_created_total 1",
		`guessgame_responses_total{code="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Execute returned %v", err)
		}
	case <-time.After(8 * time.Second):
		t.Fatal("server did not stop")
	}
}

func dialRetry(t *testing.T, addr string) net.Conn {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial %s: %v", addr, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func scrapeRetry(t *testing.T, url string) string {
	t.Helper()
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := client.Get(url)
		if err == nil {
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			return string(b)
		}
		if time.Now().After(deadline) {
			t.Fatalf("scrape %s: %v", url, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
