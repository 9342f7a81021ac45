package application_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/radityabs/ecommerce-api/internal/application"
	"github.com/radityabs/ecommerce-api/internal/domain/entity"
	"github.com/radityabs/ecommerce-api/pkg/apperrors"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
)

// memoryUserRepo is an in-memory stand-in for the Postgres repository. It
// reproduces the store contracts the service depends on: unique email,
// password projection, and reset-token expiry comparison.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemoryRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*entity.User{}}
}

func (m *memoryUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string, withPassword bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "User not found")
	}
	return project(u, withPassword), nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string, withPassword bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return project(u, withPassword), nil
		}
	}
	return nil, apperrors.E(apperrors.KindNotFound, "User not found")
}

func (m *memoryUserRepo) GetByValidResetToken(_ context.Context, hashedToken string, now time.Time) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == hashedToken &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return project(u, false), nil
		}
	}
	return nil, apperrors.E(apperrors.KindNotFound, "User not found")
}

func (m *memoryUserRepo) SetResetToken(_ context.Context, id, hashedToken string, expire time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, "User not found")
	}
	u.ResetPasswordToken = &hashedToken
	u.ResetPasswordExpire = &expire
	return nil
}

func (m *memoryUserRepo) ClearResetToken(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, "User not found")
	}
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return nil
}

func (m *memoryUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, "User not found")
	}
	u.Password = passwordHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return nil
}

func (m *memoryUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "User not found")
	}
	u.Name = name
	u.Email = email
	return project(u, false), nil
}

func (m *memoryUserRepo) UpdateRole(_ context.Context, id, name, email, role string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "User not found")
	}
	u.Name = name
	u.Email = email
	u.Role = role
	return project(u, false), nil
}

func (m *memoryUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperrors.E(apperrors.KindNotFound, "User not found")
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUserRepo) List(_ context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, project(u, false))
	}
	return out, nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func project(u *entity.User, withPassword bool) *entity.User {
	c := *u
	if !withPassword {
		c.Password = ""
	}
	return &c
}

// stored returns the live stored record for assertions on persisted state.
func (m *memoryUserRepo) stored(id string) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

// captureMailer records the last message and can be told to fail.
type captureMailer struct {
	failWith error
	lastTo   string
	lastText string
	sent     int
}

func (f *captureMailer) Send(_ context.Context, to, _, text, _ string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.lastTo = to
	f.lastText = text
	f.sent++
	return nil
}

// rawTokenFromMail extracts the raw reset token from the mailed link.
func rawTokenFromMail(t *testing.T, text string) string {
	t.Helper()
	idx := strings.Index(text, "/password/reset/")
	require.GreaterOrEqual(t, idx, 0, "mail text should contain a reset link")
	rest := text[idx+len("/password/reset/"):]
	return strings.Fields(rest)[0]
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(repo *memoryUserRepo, m *captureMailer) *application.Service {
	return application.NewService(
		repo,
		helpers.NewJWTManager("test-secret", time.Hour),
		m,
		nil, // no broker
		quietLogger(),
		nil, "", // no elasticsearch
		30*time.Minute,
		false,
	)
}

func TestRegisterThenDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo, &captureMailer{})

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, entity.RoleUser, u.Role)
	require.Empty(t, u.Password, "register must not return the hash")
	require.NotEmpty(t, u.Avatar.URL, "placeholder avatar expected")

	_, err = svc.Register(ctx, "Mallory", "alice@example.com", "different1")
	require.Error(t, err)
	ae := apperrors.Normalize(err)
	require.Equal(t, apperrors.KindDuplicate, ae.Kind)
	require.Contains(t, ae.Message, "email")

	// first record unchanged
	stored := repo.stored(u.ID)
	require.Equal(t, "Alice", stored.Name)
	require.True(t, helpers.CompareHashAndPassword(stored.Password, "secret123"))
}

func TestLoginEnumerationResistance(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo, &captureMailer{})

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	got, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.Empty(t, got.Password)

	_, wrongPw := svc.Login(ctx, "alice@example.com", "wrongpass1")
	_, noUser := svc.Login(ctx, "nobody@example.com", "whatever12")
	require.Error(t, wrongPw)
	require.Error(t, noUser)
	// identical error for wrong password and unknown email
	require.Equal(t, wrongPw.Error(), noUser.Error())
	require.Equal(t, apperrors.KindAuth, apperrors.Normalize(wrongPw).Kind)
	require.Equal(t, apperrors.KindAuth, apperrors.Normalize(noUser).Kind)
}

func TestForgotResetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mail := &captureMailer{}
	svc := newTestService(repo, mail)

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "alice@example.com", "http://localhost:8080"))
	require.Equal(t, "alice@example.com", mail.lastTo)
	raw := rawTokenFromMail(t, mail.lastText)

	// stored value is the digest, never the raw token
	stored := repo.stored(u.ID)
	require.NotNil(t, stored.ResetPasswordToken)
	require.NotEqual(t, raw, *stored.ResetPasswordToken)
	require.Equal(t, helpers.HashResetToken(raw), *stored.ResetPasswordToken)

	reset, err := svc.ResetPassword(ctx, raw, "newsecret1", "newsecret1")
	require.NoError(t, err)
	require.Equal(t, u.ID, reset.ID)

	// new password works, old one does not
	_, err = svc.Login(ctx, "alice@example.com", "newsecret1")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice@example.com", "secret123")
	require.Error(t, err)

	// the token is single-use
	_, err = svc.ResetPassword(ctx, raw, "another123", "another123")
	require.Error(t, err)
	require.Equal(t, apperrors.KindToken, apperrors.Normalize(err).Kind)
}

func TestResetTokenExpiry(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mail := &captureMailer{}
	svc := newTestService(repo, mail)

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	base := time.Now()
	svc.Now = func() time.Time { return base }
	require.NoError(t, svc.ForgotPassword(ctx, "alice@example.com", "http://localhost:8080"))
	raw := rawTokenFromMail(t, mail.lastText)

	// just before expiry the token is still valid
	svc.Now = func() time.Time { return base.Add(30*time.Minute - time.Second) }
	_, err = svc.ResetPassword(ctx, raw, "mismatch11", "mismatch22")
	require.Equal(t, "Password does not match", apperrors.Normalize(err).Message)

	// past expiry it behaves like no such token
	svc.Now = func() time.Time { return base.Add(30*time.Minute + time.Second) }
	_, err = svc.ResetPassword(ctx, raw, "newsecret1", "newsecret1")
	require.Error(t, err)
	require.Equal(t, apperrors.KindToken, apperrors.Normalize(err).Kind)
}

func TestForgotPasswordSendFailureClearsToken(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mail := &captureMailer{failWith: errors.New("smtp unreachable")}
	svc := newTestService(repo, mail)

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "alice@example.com", "http://localhost:8080")
	require.Error(t, err)
	ae := apperrors.Normalize(err)
	require.Equal(t, apperrors.KindEmail, ae.Kind)
	require.Contains(t, ae.Message, "smtp unreachable")

	// no dangling reset token after the compensating action
	stored := repo.stored(u.ID)
	require.Nil(t, stored.ResetPasswordToken)
	require.Nil(t, stored.ResetPasswordExpire)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &captureMailer{})
	err := svc.ForgotPassword(context.Background(), "nobody@example.com", "http://localhost:8080")
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.Normalize(err).Kind)
}

func TestChangePasswordFailuresDoNotMutate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo, &captureMailer{})

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	hashBefore := repo.stored(u.ID).Password

	_, err = svc.ChangePassword(ctx, u.ID, "wrongold11", "newsecret1", "newsecret1")
	require.Error(t, err)
	require.Equal(t, "Old password is incorrect", apperrors.Normalize(err).Message)
	require.Equal(t, hashBefore, repo.stored(u.ID).Password)

	_, err = svc.ChangePassword(ctx, u.ID, "secret123", "newsecret1", "different2")
	require.Error(t, err)
	require.Equal(t, "Password does not match", apperrors.Normalize(err).Message)
	require.Equal(t, hashBefore, repo.stored(u.ID).Password)

	_, err = svc.ChangePassword(ctx, u.ID, "secret123", "newsecret1", "newsecret1")
	require.NoError(t, err)
	require.NotEqual(t, hashBefore, repo.stored(u.ID).Password)
}

func TestAdminDeleteMissingUser(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &captureMailer{})
	err := svc.DeleteUser(context.Background(), uuid.NewString())
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.Normalize(err).Kind)
}

func TestUpdateProfileLeavesRoleAndPassword(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo, &captureMailer{})

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	hashBefore := repo.stored(u.ID).Password

	updated, err := svc.UpdateProfile(ctx, u.ID, "Alice B", "aliceb@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice B", updated.Name)
	require.Equal(t, "aliceb@example.com", updated.Email)
	require.Equal(t, entity.RoleUser, repo.stored(u.ID).Role)
	require.Equal(t, hashBefore, repo.stored(u.ID).Password)
}
