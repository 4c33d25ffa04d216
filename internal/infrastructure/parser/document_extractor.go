package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/h2non/filetype"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
)

// compoundFileSignature opens every OLE compound file, the container of legacy .doc files
// regardless of sector size.
var compoundFileSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DocumentExtractor reads uploaded files. Plain text and HTML are decoded;
// PDF and Word files are only verified and answered with a stand-in text.
type DocumentExtractor struct {
	logger *slog.Logger
}

var _ extractor.Extractor = (*DocumentExtractor)(nil)

// NewDocumentExtractor builds the document strategy.
func NewDocumentExtractor(log *slog.Logger) *DocumentExtractor {
	return &DocumentExtractor{logger: log}
}

func (d *DocumentExtractor) Kind() domain.SourceKind {
	return domain.SourceDocument
}

// Extract dispatches on the file extension of src.Filename.
func (d *DocumentExtractor) Extract(_ context.Context, src extractor.Source) (extractor.Result, error) {
	name := filepath.Base(strings.TrimSpace(src.Filename))
	if name == "" || name == "." {
		return extractor.Result{}, fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".html", ".htm", ".pdf", ".doc", ".docx":
	default:
		return extractor.Result{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	if len(src.Data) == 0 {
		return extractor.Result{}, fmt.Errorf("%w: %s is empty", domain.ErrDecode, name)
	}

	d.debug("decode document", "file", name, "bytes", len(src.Data))

	switch ext {
	case ".txt":
		return decodePlainText(name, src.Data)
	case ".html", ".htm":
		return decodeHTML(name, src.Data)
	case ".pdf":
		if !filetype.Is(src.Data, "pdf") {
			return extractor.Result{}, fmt.Errorf("%w: %s is not a PDF file", domain.ErrDecode, name)
		}
		return extractor.Result{
			Title: name,
			Body:  fmt.Sprintf("PDF content extraction not implemented. File: %s", name),
		}, nil
	case ".doc":
		if !bytes.HasPrefix(src.Data, compoundFileSignature) {
			return extractor.Result{}, fmt.Errorf("%w: %s is not a Word document", domain.ErrDecode, name)
		}
		return wordPlaceholder(name), nil
	default:
		if !filetype.Is(src.Data, "docx") {
			return extractor.Result{}, fmt.Errorf("%w: %s is not a Word document", domain.ErrDecode, name)
		}
		return wordPlaceholder(name), nil
	}
}

func wordPlaceholder(name string) extractor.Result {
	return extractor.Result{
		Title: name,
		Body:  fmt.Sprintf("Word document content extraction not implemented. File: %s", name),
	}
}

func decodePlainText(name string, data []byte) (extractor.Result, error) {
	if !utf8.Valid(data) {
		return extractor.Result{}, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrDecode, name)
	}
	body := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	if body == "" {
		return extractor.Result{}, fmt.Errorf("%w: %s contains no text", domain.ErrDecode, name)
	}
	return extractor.Result{Title: name, Body: body}, nil
}

func decodeHTML(name string, data []byte) (extractor.Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return extractor.Result{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, name, err)
	}

	stripNoise(doc.Selection)

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = name
	}
	doc.Find("head").Remove()

	body := collapseWhitespace(doc.Text())
	if body == "" {
		return extractor.Result{}, fmt.Errorf("%w: %s contains no text", domain.ErrDecode, name)
	}
	return extractor.Result{Title: title, Body: body}, nil
}

func (d *DocumentExtractor) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
