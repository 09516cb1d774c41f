package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-okonkwo/fridgewise/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:            baseURL,
		APIKey:                "test-key",
		RequestTimeoutSeconds: 5,
		RetryMaxAttempts:      3,
		RetryBaseDelaySeconds: 1,
	}
}

// withFastRetry drops the backoff base delay so retry tests stay quick.
func withFastRetry(c *Client) *Client {
	c.executor.BaseDelay = 1
	return c
}

const validBody = `{
	"recipes": [
		{
			"name": "Spinach Omelette",
			"ingredients": [
				{"name": "spinach", "quantity": "2", "unit": "cups"},
				{"name": "eggs", "quantity": 3, "unit": ""}
			],
			"instructions": ["Whisk eggs", "Fold in spinach"],
			"totalTime": "15 min",
			"servings": 2,
			"difficulty": "easy",
			"category": "breakfast"
		}
	]
}`

func TestFetchCandidatesDecodes(t *testing.T) {
	var gotPayload generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validBody))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	cands, err := client.FetchCandidates(context.Background(),
		[]string{"spinach", "eggs", "milk"}, []string{"spinach"})
	require.NoError(t, err)
	require.Len(t, cands, 1)

	cand := cands[0]
	assert.NotEmpty(t, cand.ID)
	assert.Equal(t, "Spinach Omelette", cand.Title)
	assert.Equal(t, "15 min", cand.CookingTime)
	assert.Equal(t, 2, cand.Servings)
	assert.Equal(t, DifficultyEasy, cand.Difficulty)
	assert.Equal(t, CategoryBreakfast, cand.Category)
	assert.Equal(t, []string{"2 cups spinach", "3 eggs"}, cand.IngredientLines)
	assert.True(t, cand.MatchedIngredients["spinach"])
	assert.True(t, cand.MatchedIngredients["eggs"])
	assert.False(t, cand.MatchedIngredients["milk"])

	// The coverage directive is a request hint sent with every payload.
	assert.Equal(t, "use_expiring_first", gotPayload.Priority)
	assert.Equal(t, "each_recipe_must_include_at_least_one_expiring_ingredient", gotPayload.Requirement)
	assert.Equal(t, []string{"spinach"}, gotPayload.ExpiringIngredients)
}

func TestFetchCandidatesDropsMalformed(t *testing.T) {
	// Three recipes, the middle one missing servings: partial success.
	body := `{
		"recipes": [
			{"name": "A", "ingredients": [{"name": "spinach"}], "instructions": ["cook"], "servings": 2},
			{"name": "B", "ingredients": [{"name": "milk"}], "instructions": ["stir"]},
			{"name": "C", "ingredients": [{"name": "eggs"}], "instructions": ["boil"], "servings": 4}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	cands, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "A", cands[0].Title)
	assert.Equal(t, "C", cands[1].Title)
}

func TestFetchCandidatesAllMalformed(t *testing.T) {
	body := `{"recipes": [{"name": ""}, {"servings": 0}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	_, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidResponse, kind)
}

func TestFetchCandidatesRetriesUpstreamerror(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(validBody))
	}))
	defer server.Close()

	client := withFastRetry(NewClient(testConfig(server.URL), nil))
	cands, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})
	require.NoError(t, err)
	assert.Len(t, cands, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchCandidatesExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := withFastRetry(NewClient(testConfig(server.URL), nil))
	_, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrUpstream, kind)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchCandidatesRateLimitNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := withFastRetry(NewClient(testConfig(server.URL), nil))
	_, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrRateLimited, kind)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchCandidatesNetworkUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := withFastRetry(NewClient(testConfig(server.URL), nil))
	_, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrNetworkUnreachable, kind)
}

func TestFetchCandidatesUndecodableEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := withFastRetry(NewClient(testConfig(server.URL), nil))
	_, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidResponse, kind)
	assert.False(t, IsRetryable(err))
}

func TestFetchCandidatesEmptyIngredients(t *testing.T) {
	client := NewClient(testConfig("http://localhost:1"), nil)
	_, err := client.FetchCandidates(context.Background(), nil, []string{"spinach"})

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidInput, kind)
}

func TestFetchCandidatesEmptyRecipeList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recipes": []}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	cands, err := client.FetchCandidates(context.Background(), []string{"spinach"}, []string{"spinach"})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestParseDifficultyAndCategoryFallbacks(t *testing.T) {
	assert.Equal(t, DifficultyHard, ParseDifficulty("HARD"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("impossible"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty(""))

	assert.Equal(t, CategorySoup, ParseCategory("soup"))
	assert.Equal(t, CategoryOther, ParseCategory("midnight snackery"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}
