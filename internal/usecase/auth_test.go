package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	testhelpers "github.com/callenovena/comanda/internal/test"
	"github.com/callenovena/comanda/internal/usecase"
)

func newAuthForTest() *usecase.AuthUseCase {
	pins := map[model.Role]string{
		model.RoleWaiter:  "hash:1111",
		model.RoleKitchen: "hash:2222",
	}
	return usecase.NewAuthUseCase(testhelpers.HasherStub{}, testhelpers.StrategyStub{}, pins)
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc := newAuthForTest()

	token, err := uc.Authenticate(context.Background(), model.RoleWaiter, "1111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "token:waiter" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestAuthUseCaseAuthenticateWrongPIN(t *testing.T) {
	uc := newAuthForTest()

	if _, err := uc.Authenticate(context.Background(), model.RoleWaiter, "9999"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateEmptyPIN(t *testing.T) {
	uc := newAuthForTest()

	if _, err := uc.Authenticate(context.Background(), model.RoleWaiter, ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateUnknownRole(t *testing.T) {
	uc := newAuthForTest()

	if _, err := uc.Authenticate(context.Background(), model.RoleCustomer, "1111"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := uc.Authenticate(context.Background(), model.Role("manager"), "1111"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateUnconfiguredRole(t *testing.T) {
	uc := newAuthForTest()

	// Admin has no PIN hash in the fixture.
	if _, err := uc.Authenticate(context.Background(), model.RoleAdmin, "1111"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	parseErr := errors.New("bad token")
	uc := usecase.NewAuthUseCase(testhelpers.HasherStub{}, testhelpers.StrategyStub{
		ParseFn: func(token string) (model.Role, error) {
			if token != "good" {
				return "", parseErr
			}
			return model.RoleKitchen, nil
		},
	}, nil)

	role, err := uc.ParseToken("good")
	if err != nil || role != model.RoleKitchen {
		t.Fatalf("unexpected result: role=%s err=%v", role, err)
	}
	if _, err := uc.ParseToken("bad"); !errors.Is(err, parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
