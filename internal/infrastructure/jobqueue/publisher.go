package jobqueue

import (
	"context"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/race-tipping/internal/platform/logging"
	"github.com/riskibarqy/race-tipping/internal/platform/resilience"
)

const defaultPublishTimeout = 10 * time.Second

// errQStashTransient marks failures that may succeed on a later attempt.
// Only these count against the circuit breaker.
var errQStashTransient = errors.New("qstash transient failure")

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher enqueues HTTP jobs through Upstash QStash, which calls the
// target path of this service back after the requested delay.
type QStashPublisher struct {
	cfg    QStashPublisherConfig
	client *fasthttp.Client
	guard  *resilience.Guard
	logger *logging.Logger
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPublishTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.TargetBaseURL = strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/")
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.InternalJobToken = strings.TrimSpace(cfg.InternalJobToken)

	return &QStashPublisher{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:                     "race-tipping-jobqueue",
			ReadTimeout:              cfg.Timeout,
			WriteTimeout:             cfg.Timeout,
			NoDefaultUserAgentHeader: true,
		},
		guard:  resilience.NewGuard(cfg.CircuitBreaker),
		logger: logger,
	}
}

// Enqueue asks QStash to POST payload to path on this service after delay.
// A non-empty deduplicationID collapses repeated enqueues of the same job.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return errors.New("job path is required")
	}
	if err := checkHTTPBaseURL(p.cfg.BaseURL); err != nil {
		return errors.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	if err := checkHTTPBaseURL(p.cfg.TargetBaseURL); err != nil {
		return errors.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = struct{}{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal job payload")
	}

	msg := newPublishMessage(p.cfg.BaseURL, p.cfg.TargetBaseURL, path, body, messageOptions{
		token:           p.cfg.Token,
		retries:         p.cfg.Retries,
		delay:           delay,
		deduplicationID: deduplicationID,
		forwardToken:    p.cfg.InternalJobToken,
	})
	preview := msg.curlPreview()
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", msg.targetURL),
			attribute.String("qstash.path", path),
			attribute.String("qstash.request_curl_preview", preview),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", preview)

	err = p.guard.Do(func() error { return p.send(msg) }, func(err error) bool {
		return errors.Is(err, errQStashTransient)
	})
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.guard.State())
		return errors.Wrap(err, "qstash is temporarily unavailable")
	case err != nil:
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published",
		"path", path,
		"delay", formatDelay(delay),
		"deduplication_id", deduplicationID,
	)
	return nil
}

func (p *QStashPublisher) send(msg publishMessage) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(msg.publishURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	for _, h := range msg.headers {
		req.Header.Set(h.name, h.value)
	}
	req.SetBody(msg.body)

	if err := p.client.DoTimeout(req, resp, p.cfg.Timeout); err != nil {
		return errors.Mark(errors.Wrapf(err, "publish qstash job target_url=%s", msg.targetURL), errQStashTransient)
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}
	failure := errors.Newf("publish qstash job status=%d target_url=%s body=%s",
		status, msg.targetURL, strings.TrimSpace(truncate(string(resp.Body()), maxLoggedBody)))
	if retryableStatus(status) {
		return errors.Mark(failure, errQStashTransient)
	}
	return failure
}

func retryableStatus(status int) bool {
	switch {
	case status == fasthttp.StatusRequestTimeout, status == fasthttp.StatusTooManyRequests:
		return true
	default:
		return status >= fasthttp.StatusInternalServerError
	}
}

func checkHTTPBaseURL(raw string) error {
	if raw == "" {
		return errors.New("value is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "parse %q", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.Newf("%q uses unsupported scheme %q; expected http or https", raw, parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.Newf("%q has empty host", raw)
	}
	return nil
}
