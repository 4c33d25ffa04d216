package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
)

func extractDoc(name string, data []byte) (extractor.Result, error) {
	ex := NewDocumentExtractor(nil)
	return ex.Extract(context.Background(), extractor.Source{Kind: domain.SourceDocument, Filename: name, Data: data})
}

func TestDocumentExtractorPlainText(t *testing.T) {
	t.Parallel()

	res, err := extractDoc("notes.TXT", []byte("\ufeff  Quarterly notes for the team.  \n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Title != "notes.TXT" {
		t.Fatalf("unexpected title: %s", res.Title)
	}
	if res.Body != "Quarterly notes for the team." {
		t.Fatalf("unexpected body: %q", res.Body)
	}
}

func TestDocumentExtractorInvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := extractDoc("broken.txt", []byte{0xff, 0xfe, 0xfd})
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDocumentExtractorHTML(t *testing.T) {
	t.Parallel()

	markup := `<html><head><title>Release</title><style>.x{}</style></head>
	<body><h1>Release   notes</h1>
	<script>alert("x")</script>
	<p>All systems go.</p></body></html>`

	res, err := extractDoc("release.htm", []byte(markup))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Title != "Release" {
		t.Fatalf("unexpected title: %s", res.Title)
	}
	if res.Body != "Release notes All systems go." {
		t.Fatalf("unexpected body: %q", res.Body)
	}
}

func TestDocumentExtractorPDFPlaceholder(t *testing.T) {
	t.Parallel()

	res, err := extractDoc("deck.pdf", []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Body != "PDF content extraction not implemented. File: deck.pdf" {
		t.Fatalf("unexpected body: %q", res.Body)
	}
}

func TestDocumentExtractorRejectsMismatchedPDF(t *testing.T) {
	t.Parallel()

	_, err := extractDoc("fake.pdf", []byte("just some text"))
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDocumentExtractorRejectsWordWithoutSignature(t *testing.T) {
	t.Parallel()

	_, err := extractDoc("plan.docx", []byte("plain text pretending to be word"))
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

// compoundFile lays out an OLE header with 4096-byte sectors and the Word
// FIB magic at the start of the first sector.
func compoundFile() []byte {
	data := make([]byte, 8192)
	copy(data, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	data[0x1A] = 0x3E
	data[0x1C] = 0xFE
	data[0x1D] = 0xFF
	data[0x1E] = 0x0C
	data[4096] = 0xEC
	data[4097] = 0xA5
	return data
}

func officeOpenXML(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", `<w:document/>`},
	}
	for _, p := range parts {
		f, err := w.Create(p.name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := f.Write([]byte(p.body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestDocumentExtractorWordPlaceholder(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"legacy.doc":  compoundFile(),
		"modern.docx": officeOpenXML(t),
	}
	for name, data := range cases {
		res, err := extractDoc(name, data)
		if err != nil {
			t.Fatalf("%s: extract: %v", name, err)
		}
		if res.Title != name {
			t.Fatalf("%s: unexpected title: %s", name, res.Title)
		}
		if want := "Word document content extraction not implemented. File: " + name; res.Body != want {
			t.Fatalf("%s: unexpected body: %q", name, res.Body)
		}
	}

	if _, err := extractDoc("plain.doc", []byte("not a compound file")); !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDocumentExtractorUnsupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"image.png", "archive.zip", "noext"} {
		_, err := extractDoc(name, []byte("data"))
		if !errors.Is(err, domain.ErrUnsupportedFormat) {
			t.Fatalf("%s: expected unsupported format, got %v", name, err)
		}
	}
}

func TestDocumentExtractorEmpty(t *testing.T) {
	t.Parallel()

	_, err := extractDoc("empty.txt", nil)
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestStrategySourceResolvesByKind(t *testing.T) {
	t.Parallel()

	source := NewStrategySource(NewDefaultRegistry(NewURLExtractor(nil, "", nil), NewDocumentExtractor(nil)), nil)

	text := strings.Repeat("a", 60)
	res, err := source.Extract(context.Background(), extractor.Source{Kind: domain.SourceText, Text: text})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Title != strings.Repeat("a", 50)+"..." {
		t.Fatalf("unexpected title: %s", res.Title)
	}
	if res.Body != text {
		t.Fatalf("unexpected body: %s", res.Body)
	}

	_, err = source.Extract(context.Background(), extractor.Source{Kind: domain.SourceImage})
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format for image, got %v", err)
	}
}

func TestTitleFromText(t *testing.T) {
	t.Parallel()

	if got := TitleFromText("short title"); got != "short title" {
		t.Fatalf("unexpected title: %s", got)
	}
	exact := strings.Repeat("é", 50)
	if got := TitleFromText(exact); got != exact {
		t.Fatalf("50 runes must not be cut: %s", got)
	}
}
