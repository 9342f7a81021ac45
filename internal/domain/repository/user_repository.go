package repository

import (
	"context"
	"time"

	"github.com/radityabs/ecommerce-api/internal/domain/entity"
)

// UserRepository defines the interface for user persistence. The password
// hash column is excluded from reads unless withPassword is set; callers that
// need to compare credentials must ask for it explicitly.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string, withPassword bool) (*entity.User, error)
	GetByEmail(ctx context.Context, email string, withPassword bool) (*entity.User, error)

	// GetByValidResetToken matches the stored token digest only while
	// reset_password_expire is strictly in the future relative to now.
	// Expired and absent tokens are indistinguishable to the caller.
	GetByValidResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error)
	SetResetToken(ctx context.Context, id, hashedToken string, expire time.Time) error
	ClearResetToken(ctx context.Context, id string) error

	// UpdatePassword replaces the stored hash and clears any outstanding
	// reset token pair, so a redeemed or superseded token cannot be reused.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	UpdateProfile(ctx context.Context, id, name, email string) (*entity.User, error)
	UpdateRole(ctx context.Context, id, name, email, role string) (*entity.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.User, error)
}
