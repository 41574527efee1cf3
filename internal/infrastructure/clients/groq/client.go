package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client implements the lead extraction provider against the Groq
// chat completions API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewClient creates a new Groq client.
func NewClient(cfg *config.GroqConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("groq api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	limiter := newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst)

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter: limiter,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatEnvelope struct {
	Choices []chatChoice `json:"choices"`
}

// ExtractLead extracts the full field set from an initial email
func (c *Client) ExtractLead(ctx context.Context, emailText string) (*entities.LeadFields, error) {
	raw, err := c.complete(ctx, leadExtractionSystemPrompt, buildLeadExtractionPrompt(emailText))
	if err != nil {
		return nil, err
	}
	return parseLeadPayload(raw)
}

// ExtractReply extracts only the named missing fields from a reply email
func (c *Client) ExtractReply(ctx context.Context, replyText string, missing []entities.FieldName) (*entities.LeadFields, error) {
	raw, err := c.complete(ctx, replyExtractionSystemPrompt, buildReplyExtractionPrompt(replyText, missing))
	if err != nil {
		return nil, err
	}
	return parseLeadPayload(raw)
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordGroqMetric(ctx, c.model, 0, 0, err)
			return "", err
		}
		recordGroqRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"temperature": 0.2,
		"max_tokens":  600,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordGroqMetric(ctx, c.model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordGroqMetric(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("groq request failed with status %d", resp.StatusCode)
	}

	var envelope chatEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordGroqMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		recordGroqMetric(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing completion text"))
		return "", errors.New("groq response missing completion text")
	}

	recordGroqMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return envelope.Choices[0].Message.Content, nil
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseLeadPayload turns a model completion into typed fields. Markdown
// fences are stripped, and when the whole completion is not valid JSON
// the outermost object is fished out before giving up.
func parseLeadPayload(text string) (*entities.LeadFields, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	var loose map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		match := jsonObjectPattern.FindString(cleaned)
		if match == "" {
			return nil, fmt.Errorf("failed to parse groq response: %w", err)
		}
		if err := json.Unmarshal([]byte(match), &loose); err != nil {
			return nil, fmt.Errorf("failed to parse groq response: %w", err)
		}
	}

	fields := &entities.LeadFields{
		FullName:       looseString(loose["full_name"]),
		Email:          looseString(loose["email"]),
		Phone:          looseString(loose["phone"]),
		Location:       looseString(loose["location"]),
		EventName:      looseString(loose["event_name"]),
		EventType:      looseString(loose["event_type"]),
		Budget:         looseString(loose["budget"]),
		EventStartDate: looseString(loose["event_start_date"]),
		EventEndDate:   looseString(loose["event_end_date"]),
	}
	fields.NumberOfAttendees = looseCount(loose["number_of_attendees"])
	fields.NumberOfSleepingRooms = looseCount(loose["number_of_sleeping_rooms"])

	return fields, nil
}

// looseString accepts strings and bare numbers; nulls collapse to ""
func looseString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

// looseCount accepts numbers and numeric strings; anything else is absent
func looseCount(v interface{}) *int {
	switch value := v.(type) {
	case float64:
		n := int(value)
		return &n
	case string:
		trimmed := strings.TrimSpace(value)
		if !entities.IsPresentValue(trimmed) {
			return nil
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return &n
		}
		return nil
	default:
		return nil
	}
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return newTokenBucketWithRate(rpm, burst)
}

type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucketWithRate(rpm int, burst int) *tokenBucket {
	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}

	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type groqMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var groqMetricsInit = false
var groqClientMetrics groqMetrics

func ensureGroqMetrics() {
	if groqMetricsInit {
		return
	}
	meter := otel.Meter("github.com/aimehq/venue-intake/groq")

	requestCount, err := meter.Int64Counter(
		"ai.groq.request.count",
		metric.WithDescription("Number of Groq requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.groq.request.duration",
		metric.WithDescription("Groq request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.groq.request.errors",
		metric.WithDescription("Number of Groq request errors"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"ai.groq.rate_limit.wait",
		metric.WithDescription("Time spent waiting for Groq rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	groqClientMetrics = groqMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	groqMetricsInit = true
}

func recordGroqMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureGroqMetrics()
	if !groqMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "groq"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	groqClientMetrics.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	groqClientMetrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		groqClientMetrics.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordGroqRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	ensureGroqMetrics()
	if !groqMetricsInit {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "groq"),
		attribute.String("ai.model", model),
	}
	groqClientMetrics.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(attrs...))
}
