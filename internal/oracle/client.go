package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

// Advice is the oracle's opinion on one fixture's over/under market. It is
// advisory only: the scorer's probability and edge remain authoritative,
// the advice can override pick, confidence and rationale.
type Advice struct {
	Pick          models.Side `json:"prediction"`
	ConfidencePct float64     `json:"confidence_pct"`
	Rationale     string      `json:"rationale"`
	Model         string      `json:"model,omitempty"`
}

// AdviceRequest carries the fixture context sent to the oracle
type AdviceRequest struct {
	Fixture models.Fixture      `json:"fixture"`
	Quote   models.OddsQuote    `json:"quote"`
	Signals models.SignalBundle `json:"signals"`
}

// Advisor produces advice for a fixture
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (*Advice, error)
}

// ChatClient asks an OpenAI-compatible chat-completion endpoint for advice.
// The primary model is tried first; on any failure the fallback model gets
// one attempt before the request is abandoned.
type ChatClient struct {
	client        *http.Client
	baseURL       string
	apiKey        string
	model         string
	fallbackModel string
	maxTokens     int
	logger        *logrus.Logger
}

// NewChatClient creates a chat-completion oracle client
func NewChatClient(cfg *config.OracleConfig, logger *logrus.Logger) *ChatClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatClient{
		client:        &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		fallbackModel: cfg.FallbackModel,
		maxTokens:     cfg.MaxTokens,
		logger:        logger,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Advise asks the oracle for an over/under opinion
func (c *ChatClient) Advise(ctx context.Context, req AdviceRequest) (*Advice, error) {
	candidates := []string{c.model}
	if c.fallbackModel != "" && c.fallbackModel != c.model {
		candidates = append(candidates, c.fallbackModel)
	}

	var lastErr error
	for _, model := range candidates {
		advice, err := c.askModel(ctx, model, req)
		if err == nil {
			advice.Model = model
			return advice, nil
		}
		lastErr = err
		c.logger.WithFields(logrus.Fields{
			"fixture_id": req.Fixture.FixtureID,
			"model":      model,
			"error":      err.Error(),
		}).Warn("Oracle model failed")
	}

	return nil, fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
}

func (c *ChatClient) askModel(ctx context.Context, model string, req AdviceRequest) (*Advice, error) {
	start := time.Now()
	defer func() {
		AdviceLatency.WithLabelValues(model).Observe(time.Since(start).Seconds())
	}()

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		MaxTokens: c.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		AdviceRequestsTotal.WithLabelValues(model, "failure").Inc()
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		AdviceRequestsTotal.WithLabelValues(model, "failure").Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrOracleUnavailable, resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		AdviceRequestsTotal.WithLabelValues(model, "parse_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdvice, err)
	}
	if len(chat.Choices) == 0 {
		AdviceRequestsTotal.WithLabelValues(model, "parse_error").Inc()
		return nil, fmt.Errorf("%w: empty choices", ErrInvalidAdvice)
	}

	advice, err := parseAdvice(chat.Choices[0].Message.Content)
	if err != nil {
		AdviceRequestsTotal.WithLabelValues(model, "parse_error").Inc()
		return nil, err
	}

	AdviceRequestsTotal.WithLabelValues(model, "success").Inc()
	return advice, nil
}

const systemPrompt = "You are a football betting analyst. Respond with a single JSON object " +
	`of the shape {"prediction":"Over"|"Under","confidence_pct":0-100,"rationale":"..."} ` +
	"and nothing else."

func buildPrompt(req AdviceRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Fixture: %s vs %s (%s, %s)\n",
		req.Fixture.HomeTeam.Name, req.Fixture.AwayTeam.Name, req.Fixture.League, req.Fixture.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Market: over/under 2.5 goals\n")
	if req.Quote.Over != nil {
		fmt.Fprintf(&sb, "Over odds: %.2f\n", *req.Quote.Over)
	}
	if req.Quote.Under != nil {
		fmt.Fprintf(&sb, "Under odds: %.2f\n", *req.Quote.Under)
	}
	if stats, err := json.Marshal(req.Signals); err == nil {
		fmt.Fprintf(&sb, "Context: %s\n", stats)
	}
	sb.WriteString("Which side has value?")
	return sb.String()
}

// parseAdvice extracts the JSON object from the model's reply. Models wrap
// the object in prose or code fences often enough that we cut from the
// first '{' to the last '}' before unmarshalling.
func parseAdvice(content string) (*Advice, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrInvalidAdvice, content)
	}

	var advice Advice
	if err := json.Unmarshal([]byte(content[start:end+1]), &advice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdvice, err)
	}

	switch advice.Pick {
	case models.SideOver, models.SideUnder:
	default:
		return nil, fmt.Errorf("%w: unknown prediction %q", ErrInvalidAdvice, advice.Pick)
	}
	if advice.ConfidencePct < 0 || advice.ConfidencePct > 100 {
		return nil, fmt.Errorf("%w: confidence %.1f out of range", ErrInvalidAdvice, advice.ConfidencePct)
	}

	return &advice, nil
}
