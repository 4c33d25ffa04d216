package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	// maxMessageRunes is the Bot API limit for one sendMessage text.
	maxMessageRunes = 4096
	digestHeader    = "*Upcoming posts*\n\n"
	timeLayout      = "2006-01-02 15:04 MST"
)

// markdownEscaper escapes every character MarkdownV2 reserves outside entities.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`, "=", `\=`,
	"|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// Notifier sends calendar digests to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithAPIBase points the notifier at another Bot API host, e.g. a local bot server.
func (n *Notifier) WithAPIBase(base string) *Notifier {
	n.apiBase = strings.TrimRight(base, "/")
	return n
}

// PublishDigest renders entries as MarkdownV2 and sends them, split over as
// many messages as the Bot API size limit requires. An empty digest sends nothing.
func (n *Notifier) PublishDigest(ctx context.Context, entries []domain.DigestEntry) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	for i, msg := range formatDigest(entries) {
		if err := n.send(ctx, msg); err != nil {
			return fmt.Errorf("digest part %d: %w", i+1, err)
		}
	}
	return nil
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *Notifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "MarkdownV2")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body apiResponse
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Description != "" {
			return fmt.Errorf("telegram error: %s: %s", resp.Status, body.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// formatDigest renders one block per entry and packs whole blocks into
// messages that stay within maxMessageRunes.
func formatDigest(entries []domain.DigestEntry) []string {
	if len(entries) == 0 {
		return nil
	}

	var (
		messages []string
		current  strings.Builder
		size     int
	)
	current.WriteString(digestHeader)
	size = utf8.RuneCountInString(digestHeader)

	for _, entry := range entries {
		block := formatEntry(entry)
		n := utf8.RuneCountInString(block)
		if size+n > maxMessageRunes && size > 0 {
			messages = append(messages, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			size = 0
		}
		current.WriteString(block)
		size += n
	}
	return append(messages, strings.TrimRight(current.String(), "\n"))
}

func formatEntry(e domain.DigestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s \\| *%s* \\| user %s\n",
		escapeMarkdown(e.ScheduledAt.Format(timeLayout)),
		escapeMarkdown(e.Platform),
		escapeMarkdown(e.UserID))
	if e.Snippet != "" {
		b.WriteString(escapeMarkdown(e.Snippet))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
