package jobqueue

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
)

const (
	maxLoggedBody = 4096
	redacted      = "***"
)

type header struct {
	name   string
	value  string
	secret bool
}

// publishMessage is one QStash publish call. The same header list drives the
// outgoing request and the redacted curl preview, so the two never drift.
type publishMessage struct {
	publishURL string
	targetURL  string
	path       string
	headers    []header
	body       []byte
}

func newPublishMessage(baseURL, targetBaseURL, path string, body []byte, opts messageOptions) publishMessage {
	targetURL := targetBaseURL + path
	msg := publishMessage{
		publishURL: baseURL + "/v2/publish/" + targetURL,
		targetURL:  targetURL,
		path:       path,
		body:       body,
		headers: []header{
			{name: "Authorization", value: "Bearer " + opts.token, secret: true},
			{name: "Content-Type", value: "application/json"},
			{name: "Upstash-Method", value: "POST"},
		},
	}
	if opts.retries > 0 {
		msg.add("Upstash-Retries", strconv.Itoa(opts.retries), false)
	}
	if opts.delay > 0 {
		msg.add("Upstash-Delay", formatDelay(opts.delay), false)
	}
	if id := strings.TrimSpace(opts.deduplicationID); id != "" {
		msg.add("Upstash-Deduplication-Id", id, false)
	}
	if opts.forwardToken != "" {
		msg.add("Upstash-Forward-X-Internal-Job-Token", opts.forwardToken, true)
	}
	return msg
}

type messageOptions struct {
	token           string
	retries         int
	delay           time.Duration
	deduplicationID string
	forwardToken    string
}

func (m *publishMessage) add(name, value string, secret bool) {
	m.headers = append(m.headers, header{name: name, value: value, secret: secret})
}

func (m publishMessage) header(name string) string {
	for _, h := range m.headers {
		if h.name == name {
			return h.value
		}
	}
	return ""
}

// curlPreview renders the call as a shell command with secrets masked.
func (m publishMessage) curlPreview() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST ")
	_, _ = buf.WriteString(shellQuote(m.publishURL))
	for _, h := range m.headers {
		value := h.value
		if h.secret {
			value = maskSecret(h.name, value)
		}
		_, _ = buf.WriteString(" -H ")
		_, _ = buf.WriteString(shellQuote(h.name + ": " + value))
	}
	_, _ = buf.WriteString(" -d ")
	_, _ = buf.WriteString(shellQuote(truncate(string(m.body), maxLoggedBody)))
	_, _ = buf.WriteString(" # ")
	_, _ = buf.WriteString(shellQuote("path=" + m.path))
	return buf.String()
}

func maskSecret(name, value string) string {
	if name == "Authorization" {
		if scheme, _, ok := strings.Cut(value, " "); ok {
			return scheme + " " + redacted
		}
	}
	return redacted
}

// formatDelay renders a whole-second QStash delay. Sub-second delays round
// to the nearest second.
func formatDelay(delay time.Duration) string {
	return fmt.Sprintf("%ds", int64(max(delay, 0).Round(time.Second)/time.Second))
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}
