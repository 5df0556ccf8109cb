package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/config"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// memUserRepo is a full in-memory UserRepository for auth flow tests.
type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("u-%d", r.seq)
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByResetTokenHash(_ context.Context, hash string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == hash {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ExistsStudent(_ context.Context, email, rollNumber string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
		if user.RollNumber != nil && *user.RollNumber == rollNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsFaculty(_ context.Context, email, facultyCode string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
		if user.FacultyCode != nil && *user.FacultyCode == facultyCode {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ListStudentsByCohort(_ context.Context, _ domain.Cohort, _ bool) ([]domain.User, error) {
	return nil, nil
}

func (r *memUserRepo) ListInactive(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if !user.IsActive {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *memUserRepo) SetActive(_ context.Context, id string, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

type capturingMailer struct {
	to   []string
	html []string
}

func (m *capturingMailer) Send(_ context.Context, to, _, html string) error {
	m.to = append(m.to, to)
	m.html = append(m.html, html)
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			AccessSecret:            "access-secret",
			RefreshSecret:           "refresh-secret",
			AccessTokenTTLMinutes:   15,
			RefreshTokenTTLMinutes:  60 * 24 * 7,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
		Mail: config.MailConfig{FrontendURL: "https://campus.example.edu"},
	}
}

func studentInput() RegisterStudentInput {
	return RegisterStudentInput{
		Name:         "Asha",
		Email:        "asha@example.edu",
		Password:     "s3cret-pass",
		MobileNumber: "5550100",
		RollNumber:   "21CS042",
		CourseID:     "course-1",
		SessionLabel: "2021-2025",
		Semester:     3,
	}
}

func TestRegisterStudentDuplicateIsConflict(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testAuthConfig(), repo, &capturingMailer{}, zap.NewNop())

	user, err := svc.RegisterStudent(context.Background(), studentInput())
	require.NoError(t, err)
	assert.False(t, user.IsActive, "fresh accounts await admin activation")
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	tests := []struct {
		name   string
		mutate func(in *RegisterStudentInput)
	}{
		{name: "same email", mutate: func(in *RegisterStudentInput) { in.RollNumber = "21CS099" }},
		{name: "same roll number", mutate: func(in *RegisterStudentInput) { in.Email = "other@example.edu" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := studentInput()
			tc.mutate(&in)
			_, err := svc.RegisterStudent(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, util.CodeConflict, util.ToDomainError(err).Code)
		})
	}
}

func TestRegisterFacultyDuplicateCodeIsConflict(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testAuthConfig(), repo, &capturingMailer{}, zap.NewNop())

	input := RegisterFacultyInput{
		Name: "Dr. Rao", Email: "rao@example.edu", Password: "s3cret-pass",
		MobileNumber: "5550101", FacultyCode: "F-100", Department: "CS", Designation: "Professor",
	}
	_, err := svc.RegisterFaculty(context.Background(), input)
	require.NoError(t, err)

	input.Email = "rao2@example.edu"
	_, err = svc.RegisterFaculty(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, util.CodeConflict, util.ToDomainError(err).Code)
}

func TestLoginRequiresActivation(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testAuthConfig(), repo, &capturingMailer{}, zap.NewNop())

	user, err := svc.RegisterStudent(context.Background(), studentInput())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.Error(t, err)
	assert.Equal(t, 401, util.ToDomainError(err).HTTPStatus)

	require.NoError(t, svc.SetUserActive(context.Background(), user.ID, true))

	logged, pair, err := svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	require.NotNil(t, pair)

	claims, err := svc.TokenManager().ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testAuthConfig(), repo, &capturingMailer{}, zap.NewNop())

	user, err := svc.RegisterStudent(context.Background(), studentInput())
	require.NoError(t, err)
	require.NoError(t, svc.SetUserActive(context.Background(), user.ID, true))

	_, _, err = svc.Login(context.Background(), "asha@example.edu", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, 401, util.ToDomainError(err).HTTPStatus)

	_, _, err = svc.Login(context.Background(), "nobody@example.edu", "s3cret-pass")
	require.Error(t, err)
	assert.Equal(t, 401, util.ToDomainError(err).HTTPStatus)
}

func TestRefreshRotatesPair(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testAuthConfig(), repo, &capturingMailer{}, zap.NewNop())

	user, err := svc.RegisterStudent(context.Background(), studentInput())
	require.NoError(t, err)
	require.NoError(t, svc.SetUserActive(context.Background(), user.ID, true))

	_, pair, err := svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseAccess(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// an access token is not accepted as a refresh token
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, util.ToDomainError(err).HTTPStatus)
}

var resetTokenRe = regexp.MustCompile(`reset-password/([0-9a-f]+)`)

func TestPasswordResetLifecycle(t *testing.T) {
	repo := newMemUserRepo()
	mailer := &capturingMailer{}
	svc := NewAuthService(testAuthConfig(), repo, mailer, zap.NewNop())

	user, err := svc.RegisterStudent(context.Background(), studentInput())
	require.NoError(t, err)
	require.NoError(t, svc.SetUserActive(context.Background(), user.ID, true))

	require.NoError(t, svc.ForgotPassword(context.Background(), "asha@example.edu"))
	require.Len(t, mailer.html, 1)

	match := resetTokenRe.FindStringSubmatch(mailer.html[0])
	require.Len(t, match, 2, "reset mail must carry the raw token")
	rawToken := match[1]

	// only the hash is stored
	stored := repo.users[user.ID]
	require.NotNil(t, stored.ResetTokenHash)
	assert.NotEqual(t, rawToken, *stored.ResetTokenHash)

	require.NoError(t, svc.ResetPassword(context.Background(), rawToken, "new-pass-123"))

	_, _, err = svc.Login(context.Background(), "asha@example.edu", "new-pass-123")
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.Error(t, err)

	// consumed token cannot be replayed
	err = svc.ResetPassword(context.Background(), rawToken, "another-pass")
	require.Error(t, err)
	assert.Equal(t, 401, util.ToDomainError(err).HTTPStatus)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	repo := newMemUserRepo()
	mailer := &capturingMailer{}
	svc := NewAuthService(testAuthConfig(), repo, mailer, zap.NewNop())

	user, err := svc.RegisterStudent(context.Background(), studentInput())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "asha@example.edu"))
	match := resetTokenRe.FindStringSubmatch(mailer.html[0])
	require.Len(t, match, 2)

	expired := time.Now().Add(-time.Minute)
	repo.users[user.ID].ResetExpiresAt = &expired

	err = svc.ResetPassword(context.Background(), match[1], "new-pass-123")
	require.Error(t, err)
	assert.Equal(t, 401, util.ToDomainError(err).HTTPStatus)
}
