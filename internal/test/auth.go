package test

import (
	"context"
	"errors"

	"github.com/callenovena/comanda/internal/domain/model"
	pkgAuth "github.com/callenovena/comanda/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied PIN.
func (h HasherStub) Hash(pin string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(pin)
	}
	return "hash:" + pin, nil
}

// Compare validates PIN against stored hash.
func (h HasherStub) Compare(hash string, pin string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, pin)
	}
	if hash != "hash:"+pin {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(model.Role) (string, error)
	ParseFn func(string) (model.Role, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(role model.Role) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(role)
	}
	return "token:" + string(role), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.RoleWaiter, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements the middleware token parsing contract.
type TokenParserStub struct {
	Role    model.Role
	Err     error
	ParseFn func(string) (model.Role, error)
}

// ParseToken either delegates to the override or returns the predefined result.
func (s TokenParserStub) ParseToken(token string) (model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Role, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	LoginFn func(context.Context, model.Role, string) (string, error)
	ParseFn func(string) (model.Role, error)
}

// Login returns a token for successful authentication scenarios.
func (s AuthFacadeStub) Login(ctx context.Context, role model.Role, pin string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, role, pin)
	}
	return "token", nil
}

// ParseToken returns the stored role claim.
func (s AuthFacadeStub) ParseToken(token string) (model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.RoleWaiter, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
