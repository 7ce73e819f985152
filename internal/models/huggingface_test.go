package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/config"
	"newslens/internal/retry"
)

func testRetry() retry.RetryConfig {
	return retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}
}

func hfTestConfig(baseURL string) *config.Config {
	return &config.Config{
		HuggingFaceAPIURL: baseURL,
		HuggingFaceAPIKey: "hf_test",
		SentimentModel:    "test-sentiment",
		SummaryModel:      "test-summary",
		NERModel:          "test-ner",
	}
}

func TestHFSentimentClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-sentiment", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req hfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Great news for everyone", req.Inputs)

		w.Write([]byte(`[[{"label":"NEGATIVE","score":0.03},{"label":"POSITIVE","score":0.97}]]`))
	}))
	defer srv.Close()

	s := newHFSentiment(hfTestConfig(srv.URL), nil, testRetry())
	res, err := s.Classify(context.Background(), "Great news for everyone")
	require.NoError(t, err)
	assert.Equal(t, Positive, res.Label)
	assert.InDelta(t, 0.97, res.Confidence, 1e-9)
}

func TestHFClientRetriesColdModel(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"summary_text":"A summary."}]`))
	}))
	defer srv.Close()

	s := newHFSummarizer(hfTestConfig(srv.URL), testRetry())
	got, err := s.Summarize(context.Background(), "long article text", 100, 30)
	require.NoError(t, err)
	assert.Equal(t, "A summary.", got)
	assert.Equal(t, 2, calls)
}

func TestHFClientClientErrorIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := newHFSummarizer(hfTestConfig(srv.URL), testRetry())
	_, err := s.Summarize(context.Background(), "text", 100, 30)
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "auth failures must not be retried")
}

func TestHFEntitiesRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req hfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "simple", req.Parameters["aggregation_strategy"])

		w.Write([]byte(`[
			{"entity_group":"PER","word":"Angela Merkel","score":0.99},
			{"entity_group":"LOC","word":"Berlin","score":0.97}
		]`))
	}))
	defer srv.Close()

	e := newHFEntities(hfTestConfig(srv.URL), nil, testRetry())
	got, err := e.Recognize(context.Background(), "Angela Merkel spoke in Berlin")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Entity{Text: "Angela Merkel", Group: "PER", Score: 0.99}, got[0])
	assert.Equal(t, Entity{Text: "Berlin", Group: "LOC", Score: 0.97}, got[1])
}

func TestHFSentimentEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := newHFSentiment(hfTestConfig(srv.URL), nil, testRetry())
	_, err := s.Classify(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrInference)
}
