package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dislogroup/salesflow/internal/utils"
)

// HTTPEmbedder calls the embedding sidecar: POST {"text": ...} in,
// {"embedding": [...]} out.
type HTTPEmbedder struct {
	url  string
	http *http.Client
}

func NewHTTPEmbedder(url string) *HTTPEmbedder {
	return &HTTPEmbedder{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "HTTPEmbedder.Embed"

	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, utils.E(utils.CodeBadGateway, op, "le service d'embedding est injoignable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.E(utils.CodeBadGateway, op, "erreur du service d'embedding", nil)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, utils.E(utils.CodeBadGateway, op, "unexpected response payload", err)
	}
	if len(out.Embedding) == 0 {
		return nil, utils.E(utils.CodeBadGateway, op, "response carries no embedding", nil)
	}
	return out.Embedding, nil
}
