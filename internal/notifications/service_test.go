package notifications

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pagecap/internal/config"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
	calls    int
}

func newNtfyServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.calls++
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		got.body = string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, got
}

func TestNewServiceReturnsNoopWhenNothingEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Bell = false
	cfg.Notifications.NtfyTopic = ""
	svc := NewService(&cfg, &bytes.Buffer{})
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyDocumentSaved(context.Background(), "out.pdf", 3); err != nil {
		t.Fatalf("noop returned %v", err)
	}
	if _, ok := NewService(nil, nil).(noopService); !ok {
		t.Fatal("expected noop for nil config")
	}
}

func TestBellRingsOnDocumentSaved(t *testing.T) {
	var out bytes.Buffer
	svc := &bellService{out: &out, ring: writeBell}
	if err := svc.NotifyDocumentSaved(context.Background(), "out.pdf", 2); err != nil {
		t.Fatalf("NotifyDocumentSaved: %v", err)
	}
	if out.String() != "\a" {
		t.Fatalf("expected bell, got %q", out.String())
	}
	if err := svc.NotifyRunFailed(context.Background(), errors.New("boom"), "capture"); err != nil {
		t.Fatalf("NotifyRunFailed: %v", err)
	}
	if out.String() != "\a" {
		t.Fatal("bell must only ring on completion")
	}
}

func TestNtfyDocumentSaved(t *testing.T) {
	server, got := newNtfyServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.Bell = false
	cfg.Notifications.NtfyTopic = server.URL

	svc := NewService(&cfg, nil)
	if err := svc.NotifyDocumentSaved(context.Background(), "/tmp/books/kindle_capture.pdf", 12); err != nil {
		t.Fatalf("NotifyDocumentSaved: %v", err)
	}
	if got.title != "pagecap - PDF Ready" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.body != "✅ kindle_capture.pdf saved (12 pages)" {
		t.Fatalf("unexpected body %q", got.body)
	}
	if got.tags != "pagecap,document,completed" || got.priority != "" {
		t.Fatalf("unexpected headers tags=%q priority=%q", got.tags, got.priority)
	}
}

func TestNtfyRunFailed(t *testing.T) {
	server, got := newNtfyServer(t, http.StatusOK)
	svc := &ntfyService{endpoint: server.URL, client: server.Client()}

	if err := svc.NotifyRunFailed(context.Background(), errors.New("device offline"), "capture"); err != nil {
		t.Fatalf("NotifyRunFailed: %v", err)
	}
	if got.body != "❌ Error during capture: device offline" {
		t.Fatalf("unexpected body %q", got.body)
	}
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
}

func TestNtfyReportsHTTPFailure(t *testing.T) {
	server, _ := newNtfyServer(t, http.StatusForbidden)
	svc := &ntfyService{endpoint: server.URL, client: server.Client()}
	err := svc.NotifyDocumentSaved(context.Background(), "out.pdf", 1)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestFanoutDeliversToEveryTransport(t *testing.T) {
	server, got := newNtfyServer(t, http.StatusInternalServerError)
	var out bytes.Buffer
	svc := fanout{
		&bellService{out: &out, ring: writeBell},
		&ntfyService{endpoint: server.URL, client: server.Client()},
	}
	err := svc.NotifyDocumentSaved(context.Background(), "out.pdf", 1)
	if err == nil {
		t.Fatal("expected ntfy failure to surface")
	}
	if out.String() != "\a" || got.calls != 1 {
		t.Fatalf("expected both transports to run, bell=%q ntfy calls=%d", out.String(), got.calls)
	}
	if !strings.Contains(got.body, "1 page)") {
		t.Fatalf("expected singular noun, got %q", got.body)
	}
}

func TestNewServiceCombinesTransports(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Bell = true
	cfg.Notifications.NtfyTopic = "https://ntfy.sh/pagecap-test"
	if _, ok := NewService(&cfg, &bytes.Buffer{}).(fanout); !ok {
		t.Fatal("expected fanout when bell and ntfy are enabled")
	}
}
