package domain

// User is the authenticated user's identity as reported by the service.
type User struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	CookingLevel        string   `json:"cooking_level,omitempty"`
}

// Registration carries the sign-up form fields.
type Registration struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Password            string   `json:"password"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	CookingLevel        string   `json:"cooking_level,omitempty"`
}

// AuthResult is what login and register return on success.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}
