package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization tag carried by every authenticated caller.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes a raw role claim. Unknown values are rejected.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Principal is the verified identity of a caller, resolved once at the API boundary
// and passed explicitly into every operation.
type Principal struct {
	SubjectID uuid.UUID
	Role      Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RecipientKind returns the notification recipient kind matching the principal's role.
func (p Principal) RecipientKind() RecipientKind {
	if p.IsAdmin() {
		return RecipientAdmin
	}
	return RecipientCustomer
}

// Customer maps to the `customers` table.
type Customer struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Address      *string   `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Admin maps to the `admins` table. Title is the organisational role (e.g. "Manager");
// authorization always uses RoleAdmin regardless of the title.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Title        string    `json:"title"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// RegisterRequest is the DTO for customer self-registration.
type RegisterRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// LoginRequest is the DTO for customer and admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

// AuthUser is the public profile returned alongside an access token.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// AuthResult bundles an issued token with the authenticated profile.
type AuthResult struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}
