package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/salesdesk/apiserver/internal/store"
	"github.com/salesdesk/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmailAndDigest(ctx context.Context, email, digest string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Delete(ctx context.Context, id int) error
}

// CredentialService gates access to the backend and manages accounts.
type CredentialService struct {
	repo UserRepository
}

func NewCredentialService(repo UserRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// HashPassword returns the uppercase hex SHA-256 digest of the plaintext.
// The digest is deliberately unsalted and deterministic: verification is an
// equality match against the stored column, and digests created by earlier
// deployments must keep verifying.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify checks the credentials and returns the matching user. An unknown
// email and a wrong password both yield ErrInvalidCredentials; callers
// cannot tell the two apart.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmailAndDigest(ctx, email, HashPassword(password))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	return user, nil
}

// Create registers a new non-admin account. Empty name, email or password
// is rejected before any mutation. Email uniqueness is not enforced,
// matching the legacy account table.
func (s *CredentialService) Create(ctx context.Context, name, email, password string) (types.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return types.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return types.User{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return types.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	return s.repo.Create(ctx, types.User{
		Name:         name,
		Email:        email,
		PasswordHash: HashPassword(password),
		IsAdmin:      false,
	})
}

func (s *CredentialService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *CredentialService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
