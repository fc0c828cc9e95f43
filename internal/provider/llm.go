package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
	"github.com/kapu/kakao-guess-bot-go/internal/obslog"
)

// LLMClient talks to the LLM gateway that generates content, hints, reveals
// and guess verdicts. One client serves every game mode; the mode travels in
// the request body.
type LLMClient struct {
	baseURL string
	apiKey  string
	http    *fasthttp.Client

	timeout time.Duration
}

type LLMOption func(*LLMClient)

func WithLLMTimeout(d time.Duration) LLMOption {
	return func(c *LLMClient) { c.timeout = d }
}

func NewLLMClient(baseURL, apiKey string, opts ...LLMOption) *LLMClient {
	c := &LLMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &fasthttp.Client{ReadTimeout: 30 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type selectRequest struct {
	Mode       string   `json:"mode"`
	Scope      string   `json:"scope,omitempty"`
	Difficulty string   `json:"difficulty"`
	Exclusions []string `json:"exclusions,omitempty"`
}

type selectResponse struct {
	Content *domain.Content `json:"content"`
}

type hintRequest struct {
	Mode         string   `json:"mode"`
	Scope        string   `json:"scope,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	ContentID    string   `json:"content_id"`
	Label        string   `json:"label"`
	PriorHints   []string `json:"prior_hints,omitempty"`
	HintIndex    int      `json:"hint_index,omitempty"`
	WrongReasons []string `json:"wrong_reasons,omitempty"`
}

type hintResponse struct {
	Hint string `json:"hint"`
}

type revealRequest struct {
	Mode      string `json:"mode"`
	Scope     string `json:"scope,omitempty"`
	ContentID string `json:"content_id"`
	Label     string `json:"label"`
	EndReason string `json:"end_reason"`
}

type revealResponse struct {
	Text string `json:"text"`
}

type verifyRequest struct {
	ContentID  string   `json:"content_id"`
	Label      string   `json:"label"`
	Alternates []string `json:"alternates,omitempty"`
	Guess      string   `json:"guess"`
}

func (c *LLMClient) SelectContent(ctx context.Context, mode domain.GameMode, scope string, difficulty domain.Difficulty, exclusions []string) (*domain.Content, error) {
	req := selectRequest{Mode: string(mode), Scope: scope, Difficulty: string(difficulty), Exclusions: exclusions}
	var resp selectResponse
	if err := c.doJSON(ctx, "/v1/content/select", req, &resp); err != nil {
		return nil, err
	}
	if resp.Content == nil || strings.TrimSpace(resp.Content.ID) == "" {
		return nil, ErrNoContent
	}
	return resp.Content, nil
}

func (c *LLMClient) InitialHint(ctx context.Context, content *domain.Content, mode domain.GameMode, scope string, difficulty domain.Difficulty) (string, error) {
	if content == nil {
		return "", fmt.Errorf("nil content")
	}
	req := hintRequest{Mode: string(mode), Scope: scope, Difficulty: string(difficulty), ContentID: content.ID, Label: content.Label}
	var resp hintResponse
	if err := c.doJSON(ctx, "/v1/content/hint", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Hint) == "" {
		return "", fmt.Errorf("empty hint for content %s", content.ID)
	}
	return resp.Hint, nil
}

func (c *LLMClient) FollowUpHint(ctx context.Context, r HintRequest) (string, error) {
	if r.Content == nil {
		return "", fmt.Errorf("nil content")
	}
	req := hintRequest{
		Mode:         string(r.Mode),
		Scope:        r.Scope,
		Difficulty:   string(r.Difficulty),
		ContentID:    r.Content.ID,
		Label:        r.Content.Label,
		PriorHints:   r.PriorHints,
		HintIndex:    r.HintIndex,
		WrongReasons: r.WrongReasons,
	}
	var resp hintResponse
	if err := c.doJSON(ctx, "/v1/content/hint", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Hint) == "" {
		return "", fmt.Errorf("empty follow-up hint for content %s", r.Content.ID)
	}
	return resp.Hint, nil
}

func (c *LLMClient) Reveal(ctx context.Context, content *domain.Content, mode domain.GameMode, scope string, endReason string) (string, error) {
	if content == nil {
		return "", fmt.Errorf("nil content")
	}
	req := revealRequest{Mode: string(mode), Scope: scope, ContentID: content.ID, Label: content.Label, EndReason: endReason}
	var resp revealResponse
	if err := c.doJSON(ctx, "/v1/content/reveal", req, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *LLMClient) VerifyGuess(ctx context.Context, content *domain.Content, guess string) (*Verdict, error) {
	if content == nil {
		return nil, fmt.Errorf("nil content")
	}
	req := verifyRequest{ContentID: content.ID, Label: content.Label, Alternates: content.Alternates, Guess: guess}
	var v Verdict
	if err := c.doJSON(ctx, "/v1/content/verify", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Health pings the gateway's health endpoint. Used by the ops check binary.
func (c *LLMClient) Health(ctx context.Context) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(c.baseURL + "/healthz")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	deadline := time.Now().Add(5 * time.Second)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("llm health request failed: %w", err)
	}
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return fmt.Errorf("llm health error: status=%d", status)
	}
	return nil
}

func (c *LLMClient) doJSON(ctx context.Context, path string, in any, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req.SetBody(payload)

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("llm request failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		obslog.L().Warn("llm_api_error", zap.String("path", path), zap.Int("status", status))
		return fmt.Errorf("llm api error: status=%d", status)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode llm response: %w", err)
		}
	}
	return nil
}
