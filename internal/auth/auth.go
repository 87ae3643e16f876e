package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	userDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/user"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

// HashPassword returns the unsalted SHA-256 hex digest of the plaintext,
// always 64 hex characters. The stored rows predate this service, so the
// scheme cannot change without invalidating every credential.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyDigest reports whether the plaintext hashes to the stored digest,
// comparing in constant time.
func VerifyDigest(storedDigest, plaintext string) bool {
	computed := HashPassword(plaintext)
	return subtle.ConstantTimeCompare([]byte(storedDigest), []byte(computed)) == 1
}

// UserRepository is the slice of user storage the auth flow needs.
// GetByUsername returns nil without error when no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Insert(ctx context.Context, row map[string]interface{}) error
}

// ServiceAPI is what handlers and commands depend on.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*session.Session, error)
	EnsureAdmin(ctx context.Context) error
}
