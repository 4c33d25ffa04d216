package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
)

func digestEntry(snippet string) domain.DigestEntry {
	return domain.DigestEntry{
		ScheduledAt: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		Platform:    domain.PlatformLinkedIn,
		UserID:      "u1",
		Snippet:     snippet,
	}
}

func TestPublishDigestPostsMarkdownForm(t *testing.T) {
	t.Parallel()

	type captured struct {
		path, chat, text, mode string
	}
	got := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got <- captured{
			path: r.URL.Path,
			chat: r.PostForm.Get("chat_id"),
			text: r.PostForm.Get("text"),
			mode: r.PostForm.Get("parse_mode"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("token", "42").WithAPIBase(srv.URL + "/")
	if err := n.PublishDigest(context.Background(), []domain.DigestEntry{digestEntry("Launch v2.0 (beta)!")}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	c := <-got
	if c.path != "/bottoken/sendMessage" {
		t.Fatalf("unexpected path %q", c.path)
	}
	if c.chat != "42" || c.mode != "MarkdownV2" {
		t.Fatalf("unexpected form %+v", c)
	}
	want := "*Upcoming posts*\n\n• 2024\\-06\\-01 14:00 UTC \\| *LinkedIn* \\| user u1\nLaunch v2\\.0 \\(beta\\)\\!"
	if c.text != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", c.text, want)
	}
}

func TestPublishDigestEmptySendsNothing(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	if err := NewNotifier("token", "42").WithAPIBase(srv.URL).PublishDigest(context.Background(), nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if called {
		t.Fatal("empty digest must not reach the API")
	}
}

func TestPublishDigestSplitsLongDigests(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		texts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		texts = append(texts, r.PostForm.Get("text"))
		mu.Unlock()
	}))
	defer srv.Close()

	entries := make([]domain.DigestEntry, 100)
	for i := range entries {
		entries[i] = digestEntry(fmt.Sprintf("post %03d %s", i, strings.Repeat("x.", 35)))
	}
	if err := NewNotifier("token", "42").WithAPIBase(srv.URL).PublishDigest(context.Background(), entries); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(texts) < 2 {
		t.Fatalf("expected several messages, got %d", len(texts))
	}
	seen := 0
	for _, text := range texts {
		if n := utf8.RuneCountInString(text); n > maxMessageRunes {
			t.Fatalf("message of %d runes exceeds limit", n)
		}
		seen += strings.Count(text, "user u1")
	}
	if seen != len(entries) {
		t.Fatalf("expected %d entries across messages, got %d", len(entries), seen)
	}
	if !strings.Contains(texts[len(texts)-1], "post 099") {
		t.Fatal("last entry missing from final message")
	}
}

func TestPublishDigestErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: can't parse entities"}`))
	}))
	defer srv.Close()

	entries := []domain.DigestEntry{digestEntry("x")}
	err := NewNotifier("token", "42").WithAPIBase(srv.URL).PublishDigest(context.Background(), entries)
	if err == nil || !strings.Contains(err.Error(), "can't parse entities") {
		t.Fatalf("expected API description in error, got %v", err)
	}
	if err := NewNotifier("", "42").PublishDigest(context.Background(), entries); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()

	if got := escapeMarkdown(`a_b*c[d]e(f)g~h` + "`" + `i>j#k+l-m=n|o{p}q.r!s\t`); got != `a\_b\*c\[d\]e\(f\)g\~h`+"\\`"+`i\>j\#k\+l\-m\=n\|o\{p\}q\.r\!s\\t` {
		t.Fatalf("unexpected escape: %s", got)
	}
}
