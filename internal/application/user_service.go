package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/radityabs/ecommerce-api/internal/domain/entity"
	repo "github.com/radityabs/ecommerce-api/internal/domain/repository"
	"github.com/radityabs/ecommerce-api/pkg/apperrors"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
	"github.com/radityabs/ecommerce-api/pkg/mailer"
	tpl "github.com/radityabs/ecommerce-api/pkg/mailer/templates"
)

// ErrInvalidCredentials is returned for a missing user AND a wrong password,
// so login responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = apperrors.E(apperrors.KindAuth, "Invalid email or password")

// Placeholder avatar stored at registration; upload comes later.
const (
	placeholderAvatarID  = "sample_avatar"
	placeholderAvatarURL = "https://cdn.example.com/avatars/placeholder.png"
)

// Mailer sends a single message synchronously. The forgot-password flow
// depends on seeing the send failure, so this is not queued.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Service orchestrates the credential lifecycle: registration, login,
// forgot/reset password, password change, profile and admin operations.
type Service struct {
	Repo          repo.UserRepository
	JWT           *helpers.JWTManager
	Mailer        Mailer
	Pub           *helpers.RabbitPublisher
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESUsersIndex  string
	ResetTokenTTL time.Duration
	MailEnabled   bool

	// Now is the clock used for reset-token expiry; overridable in tests.
	Now func() time.Time
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, m Mailer, pub *helpers.RabbitPublisher, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, resetTTL time.Duration, mailEnabled bool) *Service {
	return &Service{
		Repo:          r,
		JWT:           jwt,
		Mailer:        m,
		Pub:           pub,
		Logger:        logger,
		ES:            es,
		ESUsersIndex:  esUsersIndex,
		ResetTokenTTL: resetTTL,
		MailEnabled:   mailEnabled,
		Now:           time.Now,
	}
}

// Register creates a user with the default role and a placeholder avatar.
// The plaintext password is hashed before it ever reaches the repository.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     entity.RoleUser,
		Avatar: entity.Avatar{
			PublicID: placeholderAvatarID,
			URL:      placeholderAvatarURL,
		},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	u.Password = ""

	s.notify(ctx, u, mailer.TemplateWelcome, map[string]any{"Name": u.Name})
	s.indexUser(ctx, u)
	return u, nil
}

// Login validates credentials. Absent user and wrong password return the
// identical error.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email, true)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	u.Password = ""
	return u, nil
}

// ForgotPassword persists a hashed reset token and mails the raw value. If
// the mail cannot be sent the token pair is cleared again before the error
// surfaces, so no dangling token is left behind.
func (s *Service) ForgotPassword(ctx context.Context, email, baseURL string) error {
	u, err := s.Repo.GetByEmail(ctx, email, false)
	if err != nil {
		return err
	}

	raw, hashed, err := helpers.GenerateResetToken()
	if err != nil {
		return err
	}
	expire := s.Now().Add(s.ResetTokenTTL)
	if err := s.Repo.SetResetToken(ctx, u.ID, hashed, expire); err != nil {
		return err
	}

	resetURL := baseURL + "/api/v1/password/reset/" + raw
	subject, text, err := tpl.Render("reset_password", tpl.ResetPasswordData(u.Name, resetURL, expire))
	if err == nil {
		err = s.Mailer.Send(ctx, u.Email, subject, text, "")
	}
	if err != nil {
		if clearErr := s.Repo.ClearResetToken(ctx, u.ID); clearErr != nil && s.Logger != nil {
			s.Logger.WithError(clearErr).WithField("user_id", u.ID).Error("failed to clear reset token after send failure")
		}
		return apperrors.Wrap(apperrors.KindEmail, err.Error(), err)
	}
	return nil
}

// ResetPassword redeems a raw reset token. The same failure covers expired,
// already-redeemed and never-issued tokens.
func (s *Service) ResetPassword(ctx context.Context, rawToken, password, confirm string) (*entity.User, error) {
	hashed := helpers.HashResetToken(rawToken)
	u, err := s.Repo.GetByValidResetToken(ctx, hashed, s.Now())
	if err != nil {
		return nil, apperrors.E(apperrors.KindToken, "Reset password token is invalid or has expired")
	}
	if password != confirm {
		return nil, apperrors.E(apperrors.KindValidation, "Password does not match")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	// UpdatePassword clears the reset pair; redeeming the token twice fails.
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, err
	}
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return u, nil
}

// ChangePassword verifies the old password before replacing the hash. Both
// failure exits leave the stored password untouched.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirm string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return nil, apperrors.E(apperrors.KindValidation, "Old password is incorrect")
	}
	if newPassword != confirm {
		return nil, apperrors.E(apperrors.KindValidation, "Password does not match")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, err
	}
	u.Password = ""

	s.notify(ctx, u, mailer.TemplatePasswordChanged, map[string]any{"Name": u.Name})
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, userID, false)
}

// UpdateProfile applies name/email only; role and password are untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, email string) (*entity.User, error) {
	u, err := s.Repo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id, false)
}

// UpdateUserRole is admin-only at the routing layer.
func (s *Service) UpdateUserRole(ctx context.Context, id, name, email, role string) (*entity.User, error) {
	u, err := s.Repo.UpdateRole(ctx, id, name, email, role)
	if err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

// DeleteUser removes the user. No cascading side effects.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deindexUser(ctx, id)
	return nil
}

// notify enqueues a best-effort notification email. Never fails the request.
func (s *Service) notify(ctx context.Context, u *entity.User, template string, data map[string]any) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("failed to publish email job")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (s *Service) deindexUser(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
