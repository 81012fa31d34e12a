package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/security"
	"github.com/shiftsched/scheduler/internal/usecase"
)

type fakeUserRepo struct {
	findCredentialsByEmail func(ctx context.Context, email string) (*domain.Credentials, error)
}

func (r *fakeUserRepo) FindCredentialsByEmail(ctx context.Context, email string) (*domain.Credentials, error) {
	return r.findCredentialsByEmail(ctx, email)
}

type fakeEmployeeRepo struct {
	getByID             func(ctx context.Context, id string) (*domain.Employee, error)
	list                func(ctx context.Context) ([]*domain.Employee, error)
	listActiveWithRoles func(ctx context.Context) ([]*domain.Employee, map[string][]string, error)
	create              func(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.getByID(ctx, id)
}
func (r *fakeEmployeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	return r.list(ctx)
}
func (r *fakeEmployeeRepo) ListActiveWithRoles(ctx context.Context) ([]*domain.Employee, map[string][]string, error) {
	return r.listActiveWithRoles(ctx)
}
func (r *fakeEmployeeRepo) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	return r.create(ctx, e)
}

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

var testEmployee = &domain.Employee{ID: "emp-1", Email: "manager@example.com", IsManager: true}

func TestLoginReturnsSignedJWTWithManagerClaim(t *testing.T) {
	hashed, err := security.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := &fakeUserRepo{
		findCredentialsByEmail: func(_ context.Context, email string) (*domain.Credentials, error) {
			if email != testEmployee.Email {
				return nil, domain.ErrInvalidCredentials
			}
			return &domain.Credentials{EmployeeID: testEmployee.ID, Email: email, HashedPassword: hashed}, nil
		},
	}
	employees := &fakeEmployeeRepo{
		getByID: func(_ context.Context, id string) (*domain.Employee, error) {
			if id != testEmployee.ID {
				return nil, domain.ErrEmployeeNotFound
			}
			return testEmployee, nil
		},
	}

	u := usecase.NewAuthUsecase(users, employees, []byte(testJWTKey), 3)
	signed, err := u.Login(context.Background(), testEmployee.Email, "correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, parseErr := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(testJWTKey), nil
	})
	if parseErr != nil || !parsed.Valid {
		t.Fatalf("returned JWT is invalid: %v", parseErr)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("could not cast claims")
	}
	if claims["sub"] != testEmployee.ID {
		t.Errorf("sub = %v, want %q", claims["sub"], testEmployee.ID)
	}
	if claims["is_manager"] != true {
		t.Errorf("is_manager = %v, want true", claims["is_manager"])
	}
}

func TestLoginWrongPasswordReturnsErrInvalidCredentials(t *testing.T) {
	hashed, _ := security.HashPassword("correct horse battery staple")
	users := &fakeUserRepo{
		findCredentialsByEmail: func(_ context.Context, email string) (*domain.Credentials, error) {
			return &domain.Credentials{EmployeeID: testEmployee.ID, Email: email, HashedPassword: hashed}, nil
		},
	}
	employees := &fakeEmployeeRepo{}

	u := usecase.NewAuthUsecase(users, employees, []byte(testJWTKey), 3)
	_, err := u.Login(context.Background(), testEmployee.Email, "wrong password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailPropagatesError(t *testing.T) {
	users := &fakeUserRepo{
		findCredentialsByEmail: func(_ context.Context, _ string) (*domain.Credentials, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	employees := &fakeEmployeeRepo{}

	u := usecase.NewAuthUsecase(users, employees, []byte(testJWTKey), 3)
	_, err := u.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}
