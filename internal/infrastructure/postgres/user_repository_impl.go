package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radityabs/ecommerce-api/internal/domain/entity"
	"github.com/radityabs/ecommerce-api/internal/domain/repository"
	"github.com/radityabs/ecommerce-api/pkg/apperrors"
)

const userColumns = `id, name, email, role, avatar_public_id, avatar_url,
	reset_password_token, reset_password_expire, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// validID rejects malformed identifiers before they reach the database,
// mirroring the "Resource not found. Invalid: id" contract for bad ids.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "Resource not found. Invalid: id", err)
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Wrap(apperrors.KindNotFound, "User not found", err)
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role, avatar_public_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Role, u.Avatar.PublicID, u.Avatar.URL)

	// A unique violation on users_email_key propagates as-is; the boundary
	// normalizer turns it into the duplicate-email error.
	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string, withPassword bool) (*entity.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, `WHERE id = $1`, id, withPassword)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, withPassword bool) (*entity.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email, withPassword)
}

func (r *UserRepository) GetByValidResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_password_token = $1 AND reset_password_expire > $2
	`, hashedToken, now)
	if err := scanUser(row, u); err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any, withPassword bool) (*entity.User, error) {
	u := &entity.User{}
	if withPassword {
		row := r.pool.QueryRow(ctx, `
			SELECT `+userColumns+`, password
			FROM users `+where, arg)
		if err := scanUserWithPassword(row, u); err != nil {
			return nil, notFoundOr(err)
		}
		return u, nil
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users `+where, arg)
	if err := scanUser(row, u); err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, hashedToken string, expire time.Time) error {
	if err := validID(id); err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users
		SET reset_password_token = $1, reset_password_expire = $2, updated_at = now()
		WHERE id = $3
	`, hashedToken, expire, id)
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users
		SET reset_password_token = NULL, reset_password_expire = NULL, updated_at = now()
		WHERE id = $1
	`, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if err := validID(id); err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users
		SET password = $1, reset_password_token = NULL, reset_password_expire = NULL, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, email string) (*entity.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+userColumns, name, email, id)
	if err := scanUser(row, u); err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, name, email, role string) (*entity.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, role = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+userColumns, name, email, role, id)
	if err := scanUser(row, u); err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		if err := scanUser(rows, u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.E(apperrors.KindNotFound, "User not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *entity.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Role,
		&u.Avatar.PublicID, &u.Avatar.URL,
		&u.ResetPasswordToken, &u.ResetPasswordExpire,
		&u.CreatedAt, &u.UpdatedAt)
}

func scanUserWithPassword(row rowScanner, u *entity.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Role,
		&u.Avatar.PublicID, &u.Avatar.URL,
		&u.ResetPasswordToken, &u.ResetPasswordExpire,
		&u.CreatedAt, &u.UpdatedAt, &u.Password)
}

var _ repository.UserRepository = (*UserRepository)(nil)
