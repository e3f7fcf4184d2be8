package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TobiSchelling/NewsLens/internal/config"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAcquirer() *Acquirer {
	return NewAcquirer(config.Fetch{Timeout: 2 * time.Second, UserAgent: "test-agent"})
}

func TestFetchJoinsParagraphs(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body>
		<h1>Title</h1>
		<p> Shqipëria fitoi ndeshjen. </p>
		<div><p>Tifozët festuan.</p></div>
		<p>   </p>
	</body></html>`)

	text, err := newTestAcquirer().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Shqipëria fitoi ndeshjen. Tifozët festuan." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "<p>missing</p>")

	text, err := newTestAcquirer().Fetch(context.Background(), srv.URL)
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
	var ae *AcquisitionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
	if !strings.Contains(ae.Reason, "404") {
		t.Errorf("expected status in reason, got %q", ae.Reason)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "ftp://example.com/file"} {
		_, err := newTestAcquirer().Fetch(context.Background(), u)
		var ae *AcquisitionError
		if !errors.As(err, &ae) {
			t.Errorf("Fetch(%q): expected AcquisitionError, got %v", u, err)
		}
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestAcquirer().Fetch(context.Background(), addr)
	var ae *AcquisitionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
}

func TestFetchNoText(t *testing.T) {
	srv := serve(t, http.StatusOK, "<html><body></body></html>")

	_, err := newTestAcquirer().Fetch(context.Background(), srv.URL)
	var ae *AcquisitionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := serve(t, http.StatusOK, "<p>text</p>")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestAcquirer().Fetch(ctx, srv.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestExtractParagraphs(t *testing.T) {
	text, err := ExtractParagraphs([]byte("<p>One <b>bold</b> word.</p><p>Two.</p>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "One bold word. Two." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestNewAcquirerDefaults(t *testing.T) {
	a := NewAcquirer(config.Fetch{})
	if a.client.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", a.client.Timeout)
	}
	if a.userAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", a.userAgent)
	}
}

func TestFetchFallsBackToReadability(t *testing.T) {
	para := "Qeveria njoftoi sot një plan të ri për infrastrukturën rrugore në veri të vendit. " +
		"Ministri tha se punimet do të fillojnë në pranverë dhe do të zgjasin dy vjet. "
	srv := serve(t, http.StatusOK, `<html><head><title>Lajm</title></head><body>
		<article><div class="content">`+strings.Repeat(para, 6)+`</div></article>
	</body></html>`)

	text, err := newTestAcquirer().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Qeveria njoftoi sot") {
		t.Errorf("expected article text from readability, got %q", text)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.Write([]byte("<p>too late</p>"))
	}))
	defer srv.Close()

	a := NewAcquirer(config.Fetch{Timeout: 200 * time.Millisecond, UserAgent: "test-agent"})
	start := time.Now()
	text, err := a.Fetch(context.Background(), srv.URL)
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
	var ae *AcquisitionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout did not bound the request: took %v", elapsed)
	}
}
