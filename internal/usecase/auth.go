package usecase

import (
	"context"

	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	pkgAuth "github.com/callenovena/comanda/internal/pkg/auth"
)

// AuthUseCase validates staff PINs and manages session tokens.
type AuthUseCase struct {
	hasher   pkgAuth.PasswordHasher
	strategy pkgAuth.Strategy
	pins     map[model.Role]string
}

// NewAuthUseCase constructs the auth use case. pins maps staff roles to
// bcrypt hashes; a role with no hash configured cannot log in.
func NewAuthUseCase(hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, pins map[model.Role]string) *AuthUseCase {
	return &AuthUseCase{hasher: hasher, strategy: strategy, pins: pins}
}

// Authenticate checks the PIN for the requested role and issues a session token.
func (uc *AuthUseCase) Authenticate(ctx context.Context, role model.Role, pin string) (string, error) {
	if !role.StaffRole() || pin == "" {
		return "", domainErrors.ErrInvalidCredentials
	}

	hash, ok := uc.pins[role]
	if !ok || hash == "" {
		return "", domainErrors.ErrInvalidCredentials
	}

	if err := uc.hasher.Compare(hash, pin); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return uc.strategy.IssueToken(role)
}

// ParseToken extracts the role claim from a session token.
func (uc *AuthUseCase) ParseToken(token string) (model.Role, error) {
	return uc.strategy.ParseToken(token)
}
