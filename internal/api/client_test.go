package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
	"pantrychef/internal/session"
	"pantrychef/internal/storage"
)

// staticCreds is a minimal credential source for client-level tests.
type staticCreds struct {
	token       string
	invalidated bool
}

func (c *staticCreds) Token() string { return c.token }
func (c *staticCreds) Invalidate() { c.invalidated = true }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, logger.New(logger.LevelOff, nil)), srv
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	r := mux.NewRouter()
	r.HandleFunc("/ingredients", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.Ingredient{})
	}).Methods(http.MethodGet)

	client, _ := newTestClient(t, r)
	client.AuthorizeWith(&staticCreds{token: "abc"})

	if _, err := client.ListIngredients(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected Authorization %q, got %q", "Bearer abc", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	r := mux.NewRouter()
	r.HandleFunc("/ingredients", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		_, hasAuth = req.Header["Authorization"]
		json.NewEncoder(w).Encode([]domain.Ingredient{})
	}).Methods(http.MethodGet)

	client, _ := newTestClient(t, r)
	client.AuthorizeWith(&staticCreds{token: ""})

	if _, err := client.ListIngredients(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasAuth {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestLoginThenAuthorizedCall(t *testing.T) {
	// End-to-end: login yields token "abc" and user Ana, and the next
	// ingredient-list call carries that token.
	var listAuth string
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(req.Body).Decode(&body)
		if body.Email != "ana@example.com" || body.Password == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResult{
			AccessToken: "abc",
			User:        domain.User{ID: "u1", Name: "Ana", Email: body.Email},
		})
	}).Methods(http.MethodPost)
	r.HandleFunc("/ingredients", func(w http.ResponseWriter, req *http.Request) {
		listAuth = req.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.Ingredient{{ID: "i1", Name: "Tomato"}})
	}).Methods(http.MethodGet)

	log := logger.New(logger.LevelOff, nil)
	client, _ := newTestClient(t, r)
	store := session.New(client, storage.NewMemoryStore(log), log)
	client.AuthorizeWith(store)

	user, err := store.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" || user.Name != "Ana" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := client.ListIngredients(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if listAuth != "Bearer abc" {
		t.Fatalf("expected Authorization %q, got %q", "Bearer abc", listAuth)
	}
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	// Every operation must react to a 401 identically: persisted pair
	// cleared and the session store torn down.
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	log := logger.New(logger.LevelOff, nil)
	creds := storage.NewMemoryStore(log)
	creds.Save(context.Background(), "stale-token", &domain.User{ID: "u1", Name: "Ana"})

	client, _ := newTestClient(t, r)
	store := session.New(client, creds, log)
	if store.Restore(context.Background()) != session.StateAuthenticated {
		t.Fatal("expected restored session")
	}
	client.AuthorizeWith(store)

	ctx := context.Background()
	ops := []struct {
		name string
		call func() error
	}{
		{"list ingredients", func() error { _, err := client.ListIngredients(ctx); return err }},
		{"user ingredients", func() error { _, err := client.UserIngredients(ctx); return err }},
		{"set user ingredients", func() error { return client.SetUserIngredients(ctx, []string{"i1"}) }},
		{"suggest", func() error { _, err := client.SuggestRecipes(ctx); return err }},
		{"instructions", func() error { _, err := client.RecipeInstructions(ctx, "r1"); return err }},
		{"edit", func() error { _, err := client.EditRecipe(ctx, "r1", domain.EditDraft{}); return err }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			creds.Save(ctx, "stale-token", &domain.User{ID: "u1", Name: "Ana"})
			store.Restore(ctx)

			err := op.call()
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if store.State() != session.StateUnauthenticated {
				t.Fatalf("expected unauthenticated state, got %s", store.State())
			}
			token, user, _ := creds.Load(ctx)
			if token != "" || user != nil {
				t.Fatalf("expected persisted pair cleared, got token=%q user=%+v", token, user)
			}
		})
	}
}

func TestEditRecipeTimeSplit(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name      string
		totalTime *int
		wantPrep  int
		wantCook  int
		wantSent  bool
	}{
		{"odd total", intPtr(45), 22, 23, true},
		{"even total", intPtr(10), 5, 5, true},
		{"one minute", intPtr(1), 0, 1, true},
		{"zero reads as absent", intPtr(0), 0, 0, false},
		{"absent", nil, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]any
			r := mux.NewRouter()
			r.HandleFunc("/recipes/{id}", func(w http.ResponseWriter, req *http.Request) {
				json.NewDecoder(req.Body).Decode(&gotBody)
				json.NewEncoder(w).Encode(domain.Recipe{ID: mux.Vars(req)["id"]})
			}).Methods(http.MethodPatch)

			client, _ := newTestClient(t, r)
			title := "Sopa"
			draft := domain.EditDraft{
				Title:     &title,
				TotalTime: tt.totalTime,
				Steps:     []string{"chop", "boil"},
			}
			if _, err := client.EditRecipe(context.Background(), "r1", draft); err != nil {
				t.Fatalf("edit: %v", err)
			}

			prep, prepOK := gotBody["preparationTimeMinutes"]
			cook, cookOK := gotBody["cookingTimeMinutes"]
			if !tt.wantSent {
				if prepOK || cookOK {
					t.Fatalf("expected time fields omitted, got prep=%v cook=%v", prep, cook)
				}
				return
			}
			if !prepOK || !cookOK {
				t.Fatal("expected both time fields present")
			}
			if int(prep.(float64)) != tt.wantPrep || int(cook.(float64)) != tt.wantCook {
				t.Fatalf("expected %d/%d, got %v/%v", tt.wantPrep, tt.wantCook, prep, cook)
			}
		})
	}
}

func TestEditRecipeOmitsDifficulty(t *testing.T) {
	// The draft carries difficulty for the form, but the PATCH endpoint
	// does not accept it; it must never reach the wire.
	var gotBody map[string]any
	r := mux.NewRouter()
	r.HandleFunc("/recipes/{id}", func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(domain.Recipe{ID: "r1"})
	}).Methods(http.MethodPatch)

	client, _ := newTestClient(t, r)
	diff := "hard"
	if _, err := client.EditRecipe(context.Background(), "r1", domain.EditDraft{Difficulty: &diff}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, ok := gotBody["difficulty"]; ok {
		t.Fatal("difficulty must not be submitted")
	}
}

func TestServerErrorSurfacedWithoutRetry(t *testing.T) {
	calls := 0
	r := mux.NewRouter()
	r.HandleFunc("/ingredients", func(w http.ResponseWriter, req *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}).Methods(http.MethodGet)

	client, _ := newTestClient(t, r)
	_, err := client.ListIngredients(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		t.Fatal("a 500 must not look like an auth failure")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
}

func TestUserIngredientsUnwrapsEnvelope(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/users/ingredients", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"availableIngredients": []domain.Ingredient{
				{ID: "i1", Name: "Tomato"},
				{ID: "i2", Name: "Onion", Category: "vegetable"},
			},
		})
	}).Methods(http.MethodGet)

	client, _ := newTestClient(t, r)
	got, err := client.UserIngredients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Category != "vegetable" {
		t.Fatalf("unexpected ingredients: %+v", got)
	}
}

func TestSetUserIngredientsSendsArray(t *testing.T) {
	var gotBody map[string]any
	r := mux.NewRouter()
	r.HandleFunc("/users/ingredients", func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost)

	client, _ := newTestClient(t, r)
	if err := client.SetUserIngredients(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, ok := gotBody["ingredientIds"].([]any)
	if !ok {
		t.Fatalf("expected ingredientIds array, got %T", gotBody["ingredientIds"])
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty array, got %v", ids)
	}
}
