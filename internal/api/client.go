// Package api implements the HTTP gateway client for the remote recipe
// service. It owns serialization, bearer-credential injection, and the
// global reaction to credential-rejected responses; everything above it
// talks in domain types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// DefaultBaseURL matches the service's development default.
const DefaultBaseURL = "http://localhost:3000"

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout. By default no timeout is
// set and requests fail only through the transport or their context.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// Client talks to the recipe service. Create it with [New], then attach the
// session store via [Client.AuthorizeWith] once the store exists.
type Client struct {
	baseURL string
	creds   domain.CredentialSource // nil until AuthorizeWith
	http    *http.Client
	log     *logger.Logger
}

// Compile-time interface check.
var _ domain.Gateway = (*Client)(nil)

// New creates a gateway client for the service at baseURL.
func New(baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AuthorizeWith attaches the credential source consulted for the bearer
// token and notified on 401s. Separate from New because the session store
// needs the gateway to log in, and the gateway needs the store for tokens;
// this is the single point where that cycle is tied off.
func (c *Client) AuthorizeWith(creds domain.CredentialSource) {
	c.creds = creds
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account and returns its first session credentials.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListIngredients fetches the full ingredient catalog.
func (c *Client) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserIngredients fetches the user's current server-side selection.
func (c *Client) UserIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	var out struct {
		AvailableIngredients []domain.Ingredient `json:"availableIngredients"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/ingredients", nil, &out); err != nil {
		return nil, err
	}
	return out.AvailableIngredients, nil
}

// SetUserIngredients replaces the server-side selection with the given set.
func (c *Client) SetUserIngredients(ctx context.Context, ingredientIDs []string) error {
	if ingredientIDs == nil {
		ingredientIDs = []string{} // the service expects an array, not null
	}
	body := struct {
		IngredientIDs []string `json:"ingredientIds"`
	}{ingredientIDs}

	return c.do(ctx, http.MethodPost, "/users/ingredients", body, nil)
}

// SuggestRecipes asks the service to rank recipes against the user's
// current inventory.
func (c *Client) SuggestRecipes(ctx context.Context) (*domain.SuggestionSet, error) {
	var out domain.SuggestionSet
	if err := c.do(ctx, http.MethodPost, "/recipes/suggest-by-my-inventory-detailed", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecipeInstructions fetches the full instructions for one recipe.
func (c *Client) RecipeInstructions(ctx context.Context, recipeID string) (*domain.RecipeInstructions, error) {
	var out domain.RecipeInstructions
	if err := c.do(ctx, http.MethodGet, "/recipes/"+recipeID+"/instructions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// editRecipePayload is the wire shape of a recipe PATCH. The service takes
// separate preparation and cooking minutes, so a draft's combined total
// time is halved: floor for preparation, ceil for cooking. Both fields are
// omitted when the draft carries no total time or a total time of zero.
type editRecipePayload struct {
	Title                  *string  `json:"title,omitempty"`
	Description            *string  `json:"description,omitempty"`
	PreparationTimeMinutes *int     `json:"preparationTimeMinutes,omitempty"`
	CookingTimeMinutes     *int     `json:"cookingTimeMinutes,omitempty"`
	Steps                  []string `json:"steps,omitempty"`
}

// EditRecipe submits a wholesale edit of the recipe's fields and returns
// the updated recipe. The draft's difficulty, if any, stays client-side:
// the edit endpoint does not accept it.
func (c *Client) EditRecipe(ctx context.Context, recipeID string, draft domain.EditDraft) (*domain.Recipe, error) {
	body := editRecipePayload{
		Title:       draft.Title,
		Description: draft.Description,
		Steps:       draft.Steps,
	}
	if draft.TotalTime != nil && *draft.TotalTime > 0 {
		prep := *draft.TotalTime / 2
		cook := *draft.TotalTime - prep
		body.PreparationTimeMinutes = &prep
		body.CookingTimeMinutes = &cook
	}

	var out domain.Recipe
	if err := c.do(ctx, http.MethodPatch, "/recipes/"+recipeID, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one JSON request. A 401 response invalidates the credential
// source (forced logout) before surfacing domain.ErrUnauthorized; every
// other failure is returned to the caller untouched. Never retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("api: create request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debug("api: %s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn("api: %s %s rejected, clearing session", method, path)
		if c.creds != nil {
			c.creds.Invalidate()
		}
		return fmt.Errorf("api: %s %s: %w", method, path, domain.ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api: %s %s: %s: %s", method, path, resp.Status, truncate(string(respBody), 200))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("api: unmarshal response %s %s: %w", method, path, err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
