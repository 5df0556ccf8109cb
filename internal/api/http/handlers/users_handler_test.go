package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/config"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/mail"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error { return nil }
func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error { return nil }
func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}
func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (r *stubUserRepo) GetByResetTokenHash(_ context.Context, hash string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (r *stubUserRepo) ExistsStudent(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}
func (r *stubUserRepo) ExistsFaculty(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}
func (r *stubUserRepo) ListStudentsByCohort(_ context.Context, _ domain.Cohort, _ bool) ([]domain.User, error) {
	return nil, nil
}
func (r *stubUserRepo) ListInactive(_ context.Context) ([]domain.User, error)     { return nil, nil }
func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error { return nil }

func newRefreshApp(t *testing.T) (*fiber.App, *service.AuthService) {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			AccessSecret:            "access-secret",
			RefreshSecret:           "refresh-secret",
			AccessTokenTTLMinutes:   15,
			RefreshTokenTTLMinutes:  60,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
	}
	repo := &stubUserRepo{users: map[string]*domain.User{
		"stu-1": {ID: "stu-1", Name: "Asha", Email: "asha@example.edu", Role: domain.RoleStudent, IsActive: true},
	}}
	authService := service.NewAuthService(cfg, repo, mail.NewConsoleMailer(zap.NewNop()), zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := util.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"success": false, "message": domainErr.Message})
		},
	})
	handler := NewUsersHandler(authService, false)
	app.Post("/api/users/refresh", handler.Refresh)
	return app, authService
}

func TestRefreshAcceptsCookieToken(t *testing.T) {
	app, authService := newRefreshApp(t)
	pair, err := authService.TokenManager().GeneratePair("stu-1", domain.RoleStudent)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/users/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: pair.RefreshToken})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRefreshAcceptsBodyToken(t *testing.T) {
	app, authService := newRefreshApp(t)
	pair, err := authService.TokenManager().GeneratePair("stu-1", domain.RoleStudent)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/users/refresh", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	assert.NotEmpty(t, payload.AccessToken)
}

func TestRefreshWithoutTokenIsUnauthorized(t *testing.T) {
	app, _ := newRefreshApp(t)

	req := httptest.NewRequest("POST", "/api/users/refresh", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
