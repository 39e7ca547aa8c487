package models

import "time"

// User roles. Admins manage users, configuration and destructive operations.
const (
	RoleAdmin     = "admin"
	RoleSecretary = "secretario"
)

// User is an operator account. Usernames are unique per organization only.
type User struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"associacao_id" db:"associacao_id"`
	Username       string    `json:"username" db:"username"`
	PasswordHash   string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	Name           string    `json:"nome" db:"nome"`
	Role           string    `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// LoginCandidate is a user joined with the organization fields a session needs.
type LoginCandidate struct {
	User
	OrganizationName   string
	OrganizationStatus string
	MemberLimit        int
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionUser is the user block returned next to a token.
type SessionUser struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Role             string `json:"role"`
	Name             string `json:"nome"`
	OrganizationID   int64  `json:"associacao_id"`
	OrganizationName string `json:"associacao_nome"`
	MemberLimit      int    `json:"limite_socios"`
}

// LoginResponse is returned by login and organization registration.
type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// CreateUserPayload is used by admins to add operators to their organization.
type CreateUserPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"nome" binding:"required"`
	Role     string `json:"role"`
}

// ChangePasswordPayload for PUT /auth/senha
type ChangePasswordPayload struct {
	CurrentPassword string `json:"senha_atual" binding:"required"`
	NewPassword     string `json:"nova_senha" binding:"required"`
}
