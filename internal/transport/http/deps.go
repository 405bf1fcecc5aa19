package http

import (
	"context"

	"github.com/go-auth-nosql/internal/domain"
	jwtinfra "github.com/go-auth-nosql/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from a user store.
// Both the DynamoDB and MongoDB repositories satisfy it.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// Mailer is the minimal interface the router requires from a notifier.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// PasswordHasher is the minimal interface the router requires from a hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) (bool, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	Mailer      Mailer
	Hasher      PasswordHasher
	JWTProvider *jwtinfra.Provider
}
