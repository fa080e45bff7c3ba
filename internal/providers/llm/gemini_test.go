package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dislogroup/salesflow/internal/utils"
)

func TestGeminiCompleteParsesCandidateText(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"bonjour"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "secret")
	out, err := g.Complete(context.Background(), "salut")

	require.NoError(t, err)
	assert.Equal(t, "bonjour", out)
	assert.Equal(t, "secret", gotKey)
}

func TestGeminiCompleteClassifiesOverloadAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "k")
	_, err := g.Complete(context.Background(), "q")

	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestGeminiCompleteEmptyCandidatesIsUpstreamFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "k")
	_, err := g.Complete(context.Background(), "q")

	assert.True(t, utils.IsCode(err, utils.CodeBadGateway))
}

func TestGeminiCompleteNonJSONBodyIsUpstreamFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "k")
	_, err := g.Complete(context.Background(), "q")

	assert.True(t, utils.IsCode(err, utils.CodeBadGateway))
}
