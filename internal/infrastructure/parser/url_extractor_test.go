package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
)

var longSentence = strings.Repeat("Go services keep the content pipeline simple and fast. ", 3)

func newDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	stripNoise(doc.Selection)
	return doc
}

func TestPageTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "title tag wins",
			markup: `<html><head><title>  Page Title </title><meta property="og:title" content="OG"></head><body><h1>Heading</h1></body></html>`,
			want:   "Page Title",
		},
		{
			name:   "open graph fallback",
			markup: `<html><head><meta property="og:title" content="OG Title"></head><body><h1>Heading</h1></body></html>`,
			want:   "OG Title",
		},
		{
			name:   "first h1 fallback",
			markup: `<html><body><h1> First </h1><h1>Second</h1></body></html>`,
			want:   "First",
		},
		{
			name:   "untitled",
			markup: `<html><body><p>nothing here</p></body></html>`,
			want:   "Untitled",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := pageTitle(newDoc(t, tc.markup)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPageBodyPrefersContainers(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
	<nav><p>Navigation links that are long enough to count as a paragraph</p></nav>
	<article><div class="content">` + longSentence + `</div></article>
	</body></html>`

	body := pageBody(newDoc(t, markup))
	if body != strings.TrimSpace(longSentence) {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestPageBodyFallsBackToParagraphs(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
	<article>short</article>
	<p>tiny</p>
	<p>This paragraph is longer than twenty characters.</p>
	<p>Another paragraph that also qualifies here.</p>
	</body></html>`

	body := pageBody(newDoc(t, markup))
	want := "This paragraph is longer than twenty characters. Another paragraph that also qualifies here."
	if body != want {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestPageBodyNoContent(t *testing.T) {
	t.Parallel()

	body := pageBody(newDoc(t, `<html><body><p>tiny</p></body></html>`))
	if body != "No content extracted" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestURLExtractorExtract(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><head><title>Launch Notes</title>
		<style>.secret-style { color: red }</style></head>
		<body><main>` + longSentence + `<script>var secretScript = 1;</script></main></body></html>`))
	}))
	defer server.Close()

	ex := NewURLExtractor(server.Client(), "", nil)
	res, err := ex.Extract(context.Background(), extractor.Source{Kind: domain.SourceURL, URL: server.URL})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if res.Title != "Launch Notes" {
		t.Fatalf("unexpected title: %s", res.Title)
	}
	if strings.Contains(res.Body, "secretScript") || strings.Contains(res.Body, "secret-style") {
		t.Fatalf("script or style leaked into body: %q", res.Body)
	}
	if !strings.Contains(res.Body, "content pipeline") {
		t.Fatalf("body misses main text: %q", res.Body)
	}
	if gotAgent := <-agents; gotAgent != DefaultUserAgent {
		t.Fatalf("unexpected user agent: %s", gotAgent)
	}
}

func TestURLExtractorNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	ex := NewURLExtractor(server.Client(), "", nil)
	_, err := ex.Extract(context.Background(), extractor.Source{Kind: domain.SourceURL, URL: server.URL})
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestURLExtractorNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	ex := NewURLExtractor(nil, "", nil)
	_, err := ex.Extract(context.Background(), extractor.Source{Kind: domain.SourceURL, URL: target})
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestURLExtractorRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	ex := NewURLExtractor(nil, "", nil)
	for _, raw := range []string{"", "ftp://example.com/file", "not a url"} {
		_, err := ex.Extract(context.Background(), extractor.Source{Kind: domain.SourceURL, URL: raw})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", raw, err)
		}
	}
}
