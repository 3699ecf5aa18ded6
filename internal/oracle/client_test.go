package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/scoring"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func testRequest() AdviceRequest {
	over := 1.95
	under := 1.90
	return AdviceRequest{
		Fixture: models.Fixture{
			FixtureID: 1001,
			Date:      time.Date(2025, 10, 4, 15, 0, 0, 0, time.UTC),
			League:    "Premier League",
			HomeTeam:  models.TeamInfo{ID: 40, Name: "Liverpool"},
			AwayTeam:  models.TeamInfo{ID: 50, Name: "Manchester City"},
		},
		Quote: models.OddsQuote{Over: &over, Under: &under, Source: models.OddsSourceAPIFootball},
	}
}

func chatReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	encoded, _ := json.Marshal(reply)
	return string(encoded)
}

func newTestChatClient(baseURL string) *ChatClient {
	return NewChatClient(&config.OracleConfig{
		Enabled:        true,
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "primary-model",
		FallbackModel:  "fallback-model",
		MaxTokens:      256,
		TimeoutSeconds: 5,
	}, testLogger())
}

func TestChatClient_Advise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "primary-model", req.Model)
		assert.Contains(t, req.Messages[1].Content, "Liverpool")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatReply(`{"prediction":"Over","confidence_pct":72.5,"rationale":"both sides score freely"}`)))
	}))
	defer server.Close()

	advice, err := newTestChatClient(server.URL).Advise(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, models.SideOver, advice.Pick)
	assert.Equal(t, 72.5, advice.ConfidencePct)
	assert.Equal(t, "both sides score freely", advice.Rationale)
	assert.Equal(t, "primary-model", advice.Model)
}

func TestChatClient_FallsBackToSecondModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Model == "primary-model" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chatReply(`{"prediction":"Under","confidence_pct":61,"rationale":"tight defensive matchup"}`)))
	}))
	defer server.Close()

	advice, err := newTestChatClient(server.URL).Advise(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, models.SideUnder, advice.Pick)
	assert.Equal(t, "fallback-model", advice.Model)
}

func TestChatClient_AllModelsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestChatClient(server.URL).Advise(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrAllModelsFailed)
}

func TestParseAdvice(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Side
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"prediction":"Over","confidence_pct":70,"rationale":"ok"}`,
			want:    models.SideOver,
		},
		{
			name:    "fenced with prose",
			content: "Here is my analysis:\n```json\n{\"prediction\":\"Under\",\"confidence_pct\":55,\"rationale\":\"low tempo\"}\n```\nGood luck!",
			want:    models.SideUnder,
		},
		{
			name:    "no JSON at all",
			content: "I think the over hits.",
			wantErr: true,
		},
		{
			name:    "unknown side",
			content: `{"prediction":"Push","confidence_pct":50,"rationale":"?"}`,
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			content: `{"prediction":"Over","confidence_pct":140,"rationale":"?"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice, err := parseAdvice(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAdvice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, advice.Pick)
		})
	}
}

type stubAdvisor struct {
	advice *Advice
	err    error
	calls  int
}

func (s *stubAdvisor) Advise(ctx context.Context, req AdviceRequest) (*Advice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.advice, nil
}

func TestCachedAdvisor_ServesFromCache(t *testing.T) {
	stub := &stubAdvisor{advice: &Advice{Pick: models.SideOver, ConfidencePct: 68, Model: "primary-model"}}
	cached := NewCachedAdvisor(stub, time.Minute)

	first, err := cached.Advise(context.Background(), testRequest())
	require.NoError(t, err)

	second, err := cached.Advise(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, 1, cached.ItemCount())
}

func TestCachedAdvisor_DoesNotCacheFailures(t *testing.T) {
	stub := &stubAdvisor{err: errors.New("oracle down")}
	cached := NewCachedAdvisor(stub, time.Minute)

	_, err := cached.Advise(context.Background(), testRequest())
	assert.Error(t, err)

	_, err = cached.Advise(context.Background(), testRequest())
	assert.Error(t, err)

	assert.Equal(t, 2, stub.calls)
	assert.Equal(t, 0, cached.ItemCount())
}

func TestFallbackAdvisor_UsesSecondaryOnFailure(t *testing.T) {
	primary := &stubAdvisor{err: ErrOracleUnavailable}
	secondary := &stubAdvisor{advice: &Advice{Pick: models.SideUnder, ConfidencePct: 60, Model: "local"}}

	advice, err := NewFallbackAdvisor(primary, secondary, testLogger()).Advise(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "local", advice.Model)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackAdvisor_PrefersPrimary(t *testing.T) {
	primary := &stubAdvisor{advice: &Advice{Pick: models.SideOver, ConfidencePct: 70, Model: "primary-model"}}
	secondary := &stubAdvisor{advice: &Advice{Pick: models.SideUnder, ConfidencePct: 60, Model: "local"}}

	advice, err := NewFallbackAdvisor(primary, secondary, testLogger()).Advise(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "primary-model", advice.Model)
	assert.Equal(t, 0, secondary.calls)
}

func TestLocalAdvisor_ScoresDeterministically(t *testing.T) {
	scorer := scoring.NewScorer(config.DefaultScoringConfig(), testLogger())
	local := NewLocalAdvisor(scorer, testLogger())

	advice, err := local.Advise(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "local", advice.Model)
	assert.Contains(t, []models.Side{models.SideOver, models.SideUnder}, advice.Pick)
	assert.GreaterOrEqual(t, advice.ConfidencePct, 0.0)
	assert.LessOrEqual(t, advice.ConfidencePct, 100.0)
}
