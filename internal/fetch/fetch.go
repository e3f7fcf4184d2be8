package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"github.com/TobiSchelling/NewsLens/internal/config"
	"github.com/TobiSchelling/NewsLens/internal/logger"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "NewsLens/1.0 (news analyzer)"
	maxRedirects     = 10
	maxBodyBytes     = 10 << 20
)

// AcquisitionError reports why a URL produced no article text.
type AcquisitionError struct {
	URL    string
	Reason string
	Err    error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Reason)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// Acquirer downloads a web page and extracts its article text.
type Acquirer struct {
	client    *http.Client
	userAgent string
}

// NewAcquirer creates an acquirer from the fetch configuration.
func NewAcquirer(cfg config.Fetch) *Acquirer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Acquirer{
		userAgent: ua,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Fetch returns the text of every <p> element on the page joined by single
// spaces. Pages without paragraph text fall back to readability extraction.
// Any failure yields "" and an *AcquisitionError.
func (a *Acquirer) Fetch(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", &AcquisitionError{URL: pageURL, Reason: "invalid url", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &AcquisitionError{URL: pageURL, Reason: "building request", Err: err}
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &AcquisitionError{URL: pageURL, Reason: "connection failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &AcquisitionError{URL: pageURL, Reason: fmt.Sprintf("http status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &AcquisitionError{URL: pageURL, Reason: "reading body", Err: err}
	}

	text, err := ExtractParagraphs(body)
	if err != nil {
		return "", &AcquisitionError{URL: pageURL, Reason: "parsing html", Err: err}
	}
	if text == "" {
		text = extractReadable(body, parsed)
	}
	if text == "" {
		return "", &AcquisitionError{URL: pageURL, Reason: "no article text"}
	}

	logger.Debug("fetched article text", zap.String("url", pageURL), zap.Int("chars", len(text)))
	return text, nil
}

// ExtractParagraphs joins the trimmed text of all <p> elements in document
// order with single spaces. Empty paragraphs are skipped.
func ExtractParagraphs(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", err
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " "), nil
}

func extractReadable(html []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
