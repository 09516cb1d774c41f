package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d-okonkwo/fridgewise/internal/config"
	"github.com/d-okonkwo/fridgewise/internal/match"
	"github.com/d-okonkwo/fridgewise/internal/retry"
)

// Client talks to the remote recipe-generation endpoint. It is an explicit
// value wired in by the caller; there is no shared singleton.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	dietary    []string
	difficulty string
	executor   retry.Executor
	logger     *zap.Logger
}

// NewClient creates a new recipe client from the application configuration.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL:    cfg.APIBaseURL,
		apiKey:     cfg.APIKey,
		dietary:    cfg.Dietary,
		difficulty: cfg.Difficulty,
		executor:   retry.NewExecutor(cfg.RetryMaxAttempts, time.Duration(cfg.RetryBaseDelaySeconds)*time.Second),
		logger:     logger,
	}
}

// SetStatusObserver registers a callback for retry telemetry (spinners, log
// lines). Must be set before the first FetchCandidates call.
func (c *Client) SetStatusObserver(fn func(retry.Status)) {
	c.executor.OnStatus = fn
}

// generateRequest is the outbound payload. The requirement field is a hint
// to the remote model, not an enforced contract; coverage is enforced
// locally by the selector.
type generateRequest struct {
	Ingredients         []string `json:"ingredients"`
	ExpiringIngredients []string `json:"expiring_ingredients"`
	Priority            string   `json:"priority"`
	Requirement         string   `json:"requirement"`
	Dietary             []string `json:"dietary"`
	Difficulty          string   `json:"difficulty"`
}

// generateResponse keeps each recipe as raw JSON so one malformed element
// can be dropped without failing the whole batch.
type generateResponse struct {
	Recipes []json.RawMessage `json:"recipes"`
}

type wireIngredient struct {
	Name     string     `json:"name"`
	Quantity flexString `json:"quantity"`
	Unit     string     `json:"unit"`
}

type wireRecipe struct {
	Name         string           `json:"name"`
	Ingredients  []wireIngredient `json:"ingredients"`
	Instructions []string         `json:"instructions"`
	TotalTime    flexString       `json:"totalTime"`
	Servings     int              `json:"servings"`
	Difficulty   string           `json:"difficulty"`
	Category     string           `json:"category"`
}

// flexString tolerates backends that send numbers where we expect strings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	return fmt.Errorf("value must be a string or number")
}

// FetchCandidates asks the remote endpoint for recipe candidates built from
// the available ingredients, biased toward the expiring ones. Transient
// transport and upstream failures are retried; everything else surfaces
// immediately as a taxonomy error.
func (c *Client) FetchCandidates(ctx context.Context, allIngredients, priorityIngredients []string) ([]*Candidate, error) {
	if len(allIngredients) == 0 {
		return nil, newError(ErrInvalidInput, "no ingredients to cook with", nil)
	}

	payload := generateRequest{
		Ingredients:         allIngredients,
		ExpiringIngredients: priorityIngredients,
		Priority:            "use_expiring_first",
		Requirement:         "each_recipe_must_include_at_least_one_expiring_ingredient",
		Dietary:             c.dietary,
		Difficulty:          c.difficulty,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(ErrInvalidInput, "failed to encode request", err)
	}

	resp, err := retry.Do(ctx, c.executor, func(ctx context.Context) (*generateResponse, error) {
		return c.send(ctx, body)
	}, IsRetryable)
	if err != nil {
		return nil, err
	}

	candidates := make([]*Candidate, 0, len(resp.Recipes))
	for i, raw := range resp.Recipes {
		cand, err := decodeCandidate(raw, allIngredients)
		if err != nil {
			c.logger.Warn("dropping malformed recipe candidate",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		candidates = append(candidates, cand)
	}

	if len(resp.Recipes) > 0 && len(candidates) == 0 {
		return nil, newError(ErrInvalidResponse, "no decodable recipe candidates", nil)
	}

	c.logger.Debug("decoded recipe candidates",
		zap.Int("received", len(resp.Recipes)),
		zap.Int("decoded", len(candidates)))
	return candidates, nil
}

func (c *Client) send(ctx context.Context, body []byte) (*generateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recipes/generate", bytes.NewReader(body))
	if err != nil {
		return nil, newError(ErrInvalidInput, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(ErrNetworkUnreachable, "endpoint unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, newError(ErrRateLimited, "recipe generation throttled", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// The response body stays out of the error; it never reaches the user.
		return nil, newError(ErrUpstream, fmt.Sprintf("endpoint returned status %d", resp.StatusCode), nil)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, newError(ErrInvalidResponse, "failed to decode response", err)
	}
	return &decoded, nil
}

// decodeCandidate turns one wire recipe into a Candidate, tagging it with the
// inventory ingredients it uses. Missing required fields reject the recipe.
func decodeCandidate(raw json.RawMessage, pool []string) (*Candidate, error) {
	var wr wireRecipe
	if err := json.Unmarshal(raw, &wr); err != nil {
		return nil, err
	}

	if strings.TrimSpace(wr.Name) == "" {
		return nil, fmt.Errorf("missing name")
	}
	if wr.Servings <= 0 {
		return nil, fmt.Errorf("missing or non-positive servings")
	}
	if len(wr.Ingredients) == 0 {
		return nil, fmt.Errorf("missing ingredients")
	}
	if len(wr.Instructions) == 0 {
		return nil, fmt.Errorf("missing instructions")
	}

	lines := make([]string, 0, len(wr.Ingredients))
	for _, ing := range wr.Ingredients {
		lines = append(lines, ingredientLine(ing))
	}

	return &Candidate{
		ID:                 uuid.NewString(),
		Title:              wr.Name,
		CookingTime:        string(wr.TotalTime),
		Servings:           wr.Servings,
		IngredientLines:    lines,
		Instructions:       wr.Instructions,
		Difficulty:         ParseDifficulty(wr.Difficulty),
		Category:           ParseCategory(wr.Category),
		MatchedIngredients: match.ExtractUsedIngredients(lines, pool),
	}, nil
}

// ingredientLine renders a wire ingredient as a human-readable
// "qty unit name" string, skipping empty parts.
func ingredientLine(ing wireIngredient) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{string(ing.Quantity), ing.Unit, ing.Name} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
