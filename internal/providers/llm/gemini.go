package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dislogroup/salesflow/internal/utils"
)

// Gemini talks to the generative-language REST endpoint. The wire contract is
// fixed: a contents/parts request body, the API key in the x-goog-api-key
// header, and a candidates/content/parts response. Any deviation from that
// response shape is an upstream fault, not a caller error.
type Gemini struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewGemini(apiURL, apiKey string) *Gemini {
	return &Gemini{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *Gemini) Close() error { return nil }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "Gemini.Complete"

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", utils.E(utils.CodeCanceled, op, "request canceled", err)
		}
		return "", utils.E(utils.CodeBadGateway, op, "le service IA est injoignable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", utils.E(utils.CodeBadGateway, op, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", utils.E(utils.CodeUnavailable, op, "le service IA est temporairement surcharge", nil)
	case resp.StatusCode != http.StatusOK:
		return "", utils.E(utils.CodeBadGateway, op, "erreur du service IA", errors.New(http.StatusText(resp.StatusCode)))
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", utils.E(utils.CodeBadGateway, op, "unexpected response payload", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", utils.E(utils.CodeBadGateway, op, "response carries no candidate text", nil)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
