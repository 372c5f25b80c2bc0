package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator is an account allowed to call the RPC surface: an accountant or
// an integration running setup and landed cost calculations.
type Operator struct {
	// ID is the unique identifier for the operator (UUID format).
	ID string

	// Email is the login and must be unique.
	Email string

	// DisplayName is shown in logs and audit trails.
	DisplayName string

	// PasswordHash is the bcrypt hash of the operator password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// NewOperator builds an operator with a fresh ID and timestamps.
func NewOperator(email, displayName, passwordHash string) *Operator {
	now := time.Now().Unix()
	return &Operator{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
