package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
)

const (
	// DefaultUserAgent mimics a desktop browser; many sites refuse bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	untitled           = "Untitled"
	noContentExtracted = "No content extracted"
	minBlockLength     = 100
	minParagraphLength = 20
)

// contentSelectors are tried in order when looking for the main body of a page.
var contentSelectors = []string{
	"article",
	"main",
	".content",
	"#content",
	".post-content",
	".post",
	".article-content",
	".article",
	".entry-content",
	".entry",
}

// URLExtractor downloads a web page and pulls its title and main text.
type URLExtractor struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ extractor.Extractor = (*URLExtractor)(nil)

// NewURLExtractor wires an HTTP client; a nil client gets a 15s timeout.
func NewURLExtractor(client *http.Client, userAgent string, log *slog.Logger) *URLExtractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &URLExtractor{client: client, userAgent: userAgent, logger: log}
}

// Kind identifies the strategy inside the registry.
func (u *URLExtractor) Kind() domain.SourceKind {
	return domain.SourceURL
}

// Extract fetches src.URL and resolves its title and body.
func (u *URLExtractor) Extract(ctx context.Context, src extractor.Source) (extractor.Result, error) {
	target := strings.TrimSpace(src.URL)
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return extractor.Result{}, fmt.Errorf("%w: invalid url %q", domain.ErrValidation, target)
	}

	doc, err := u.fetchDocument(ctx, parsed.String())
	if err != nil {
		return extractor.Result{}, err
	}

	stripNoise(doc.Selection)

	result := extractor.Result{
		Title: pageTitle(doc),
		Body:  pageBody(doc),
	}
	if u.logger != nil {
		u.logger.Debug("page extracted", "url", target, "title", result.Title, "chars", utf8.RuneCountInString(result.Body))
	}
	return result, nil
}

func (u *URLExtractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", u.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", domain.ErrFetch, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrFetch, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", domain.ErrParse, err)
	}

	return doc, nil
}

// stripNoise removes elements whose text must never reach the body.
func stripNoise(sel *goquery.Selection) {
	sel.Find("script, style").Remove()
}

func pageTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return untitled
}

func pageBody(doc *goquery.Document) string {
	var (
		blocks   []string
		accepted []*html.Node
	)

	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			node := s.Get(0)
			for _, prev := range accepted {
				if contains(prev, node) || contains(node, prev) {
					return
				}
			}

			text := collapseWhitespace(s.Text())
			if utf8.RuneCountInString(text) > minBlockLength {
				blocks = append(blocks, text)
				accepted = append(accepted, node)
			}
		})
	}

	body := strings.Join(blocks, " ")
	if utf8.RuneCountInString(body) < minBlockLength {
		blocks = blocks[:0]
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			text := collapseWhitespace(s.Text())
			if utf8.RuneCountInString(text) > minParagraphLength {
				blocks = append(blocks, text)
			}
		})
		body = strings.Join(blocks, " ")
	}

	if body == "" {
		return noContentExtracted
	}
	return body
}

// contains reports whether inner is outer or one of its descendants.
func contains(outer, inner *html.Node) bool {
	for n := inner; n != nil; n = n.Parent {
		if n == outer {
			return true
		}
	}
	return false
}
