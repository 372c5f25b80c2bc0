package auth

import (
	"context"

	"github.com/mmynk/tnerp/internal/models"
)

// Authenticator registers and authenticates API operators. Implementations
// decide what a credential is.
type Authenticator interface {
	// Register creates an operator account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.Operator, error)

	// Authenticate verifies the credential and returns the operator.
	Authenticate(ctx context.Context, email, credential string) (*models.Operator, error)

	// ValidateCredential checks the credential against the implementation's rules.
	ValidateCredential(credential string) error
}
