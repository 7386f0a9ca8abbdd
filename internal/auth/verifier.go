package auth

import (
	"context"
	"crypto/subtle"

	"github.com/spec-kit/service-request-manager/internal/repository"
)

// CredentialVerifier decides whether a username/password pair identifies a
// known principal. Implementations must fail uniformly: callers cannot tell an
// unknown username from a wrong password.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) bool
}

// StaticVerifier compares against a single configured credential pair. This is
// the demo verifier; the stored password hash is never consulted.
type StaticVerifier struct {
	username string
	password string
}

// NewStaticVerifier builds a verifier around one literal credential pair.
func NewStaticVerifier(username, password string) *StaticVerifier {
	return &StaticVerifier{username: username, password: password}
}

// Verify reports whether both fields match the configured pair.
func (v *StaticVerifier) Verify(_ context.Context, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	return userOK && passOK
}

// UserStoreVerifier checks credentials against hashed user records.
type UserStoreVerifier struct {
	users repository.UserRepository
}

// NewUserStoreVerifier builds a store-backed verifier.
func NewUserStoreVerifier(users repository.UserRepository) *UserStoreVerifier {
	return &UserStoreVerifier{users: users}
}

// Verify looks up the user and compares the bcrypt hash. Lookup failures and
// hash mismatches are indistinguishable to the caller.
func (v *UserStoreVerifier) Verify(ctx context.Context, username, password string) bool {
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		return false
	}
	return ComparePassword(user.PasswordHash, password) == nil
}
