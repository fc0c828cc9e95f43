package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPTranslator calls an external translation endpoint to move guesses into
// the verifier's working language. Best-effort only.
type HTTPTranslator struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
	target  string
}

func NewHTTPTranslator(baseURL, targetLang string) *HTTPTranslator {
	if strings.TrimSpace(targetLang) == "" {
		targetLang = "en"
	}
	return &HTTPTranslator{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second},
		timeout: 5 * time.Second,
		target:  targetLang,
	}
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type translateResponse struct {
	Text string `json:"text"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text string) (string, error) {
	if t == nil || t.baseURL == "" {
		return text, nil
	}
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(t.baseURL + "/v1/translate")
	req.Header.SetContentType("application/json")

	payload, err := json.Marshal(translateRequest{Text: text, Target: t.target})
	if err != nil {
		return "", err
	}
	req.SetBody(payload)

	deadline := time.Now().Add(t.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := t.http.DoDeadline(req, resp, deadline); err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("translate api error: status=%d", resp.StatusCode())
	}
	var out translateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("empty translation")
	}
	return out.Text, nil
}
