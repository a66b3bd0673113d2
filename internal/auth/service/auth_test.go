package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/internal/auth/events"
	"github.com/resumekit/resumekit-backend/internal/auth/jwt"
	"github.com/resumekit/resumekit-backend/internal/auth/repository"
	"github.com/resumekit/resumekit-backend/internal/auth/service"
	"github.com/resumekit/resumekit-backend/pkg/config"
	"github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
	"github.com/resumekit/resumekit-backend/pkg/testutil"
)

var (
	accountColumns = []string{"id", "email", "password_hash", "name", "created_at", "updated_at", "last_login_at"}
	sessionColumns = []string{"id", "account_id", "refresh_token_hash", "user_agent", "ip_address", "expires_at", "created_at", "last_used_at", "revoked_at"}
)

type fixture struct {
	db        *testutil.MockDB
	jwt       *jwt.Manager
	publisher *testutil.MockPublisher
	svc       *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewMockDB(t)
	manager := jwt.NewManager(&config.JWTConfig{
		Secret:        "test-secret-at-least-32-characters!!",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "resumekit-test",
	})
	publisher := testutil.NewMockPublisher()

	svc := service.NewAuthService(
		repository.NewAccountRepository(db.Wrapped()),
		repository.NewSessionRepository(db.Wrapped()),
		manager,
		events.NewAccountEventPublisherWithSink(publisher, logger.Nop()),
		logger.Nop(),
	)
	return &fixture{db: db, jwt: manager, publisher: publisher, svc: svc}
}

func (f *fixture) expectAccountByEmail(a testutil.AccountFixture) {
	f.db.ExpectQuery("FROM accounts WHERE email = $1").
		WithArgs(a.Email).
		WillReturnRows(testutil.MockRows(accountColumns...).
			AddRow(a.ID, a.Email, a.PasswordHash, a.Name, a.CreatedAt, a.CreatedAt, nil))
}

func (f *fixture) expectAccountByID(a testutil.AccountFixture) {
	f.db.ExpectQuery("FROM accounts WHERE id = $1").
		WithArgs(a.ID).
		WillReturnRows(testutil.MockRows(accountColumns...).
			AddRow(a.ID, a.Email, a.PasswordHash, a.Name, a.CreatedAt, a.CreatedAt, nil))
}

func (f *fixture) expectSessionInsert(accountID string) {
	f.db.ExpectExec("INSERT INTO sessions").
		WithArgs(testutil.AnyUUID{}, accountID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			testutil.AnyTime{}, testutil.AnyTime{}, testutil.AnyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.StatusCode
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	f.db.ExpectExec("INSERT INTO accounts").
		WithArgs(testutil.AnyUUID{}, "ada@example.com", sqlmock.AnyArg(), "Ada", testutil.AnyTime{}, testutil.AnyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.db.ExpectExec("INSERT INTO sessions").WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := f.svc.SignUp(context.Background(), &service.SignUpRequest{
		Email: "  Ada@Example.com", Password: "correct horse", Name: "Ada",
	}, "go-test", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.Account.Email)
	assert.Equal(t, "Bearer", resp.TokenType)

	claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, claims.Subject)

	created := f.publisher.Events(messaging.EventAccountCreated)
	require.Len(t, created, 1)
	assert.Equal(t, resp.Account.ID, created[0].(messaging.AccountCreatedEvent).AccountID)
	f.db.ExpectationsWereMet(t)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.db.ExpectExec("INSERT INTO accounts").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_email_key"})

	_, err := f.svc.SignUp(context.Background(), &service.SignUpRequest{
		Email: "ada@example.com", Password: "correct horse",
	}, "", "")

	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	f.publisher.AssertNoEventsPublished(t)
	f.db.ExpectationsWereMet(t)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	account := testutil.NewFixtureFactory().Account()
	f.expectAccountByEmail(account)
	f.expectSessionInsert(account.ID)
	f.db.ExpectExec("UPDATE accounts SET last_login_at = NOW() WHERE id = $1").
		WithArgs(account.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := f.svc.Login(context.Background(), &service.LoginRequest{
		Email: account.Email, Password: account.Password,
	}, "go-test", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, account.ID, resp.Account.ID)
	refresh, err := f.jwt.ValidateRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refresh.SessionID)
	f.db.ExpectationsWereMet(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	account := testutil.NewFixtureFactory().Account()

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.expectAccountByEmail(account)

		_, err := f.svc.Login(context.Background(), &service.LoginRequest{
			Email: account.Email, Password: "not the password",
		}, "", "")

		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
		f.db.ExpectationsWereMet(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.db.ExpectQuery("FROM accounts WHERE email = $1").
			WithArgs("nobody@example.com").
			WillReturnRows(testutil.MockRows(accountColumns...))

		_, err := f.svc.Login(context.Background(), &service.LoginRequest{
			Email: "nobody@example.com", Password: "whatever1",
		}, "", "")

		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
		f.db.ExpectationsWereMet(t)
	})
}

func sessionRow(id, accountID, token string) *sqlmock.Rows {
	now := time.Now().UTC()
	return testutil.MockRows(sessionColumns...).
		AddRow(id, accountID, repository.HashToken(token), nil, nil, now.Add(time.Hour), now, now, nil)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newFixture(t)
	account := testutil.NewFixtureFactory().Account()
	pair, err := f.jwt.GenerateTokenPair(&jwt.AccountInfo{ID: account.ID, Email: account.Email}, "sess-1")
	require.NoError(t, err)

	f.db.ExpectQuery("FROM sessions").
		WithArgs(repository.HashToken(pair.RefreshToken)).
		WillReturnRows(sessionRow("sess-1", account.ID, pair.RefreshToken))
	f.expectAccountByID(account)
	f.db.ExpectExec("UPDATE sessions SET refresh_token_hash = $1").
		WithArgs(sqlmock.AnyArg(), "sess-1", repository.HashToken(pair.RefreshToken)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := f.svc.Refresh(context.Background(), pair.RefreshToken)

	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, resp.RefreshToken)
	claims, err := f.jwt.ValidateRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	f.db.ExpectationsWereMet(t)
}

func TestRefresh_Rejections(t *testing.T) {
	account := testutil.NewFixtureFactory().Account()

	t.Run("revoked or rotated session", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.jwt.GenerateTokenPair(&jwt.AccountInfo{ID: account.ID}, "sess-1")
		require.NoError(t, err)
		f.db.ExpectQuery("FROM sessions").WillReturnRows(testutil.MockRows(sessionColumns...))

		_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		f.db.ExpectationsWereMet(t)
	})

	t.Run("session belongs to another token", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.jwt.GenerateTokenPair(&jwt.AccountInfo{ID: account.ID}, "sess-1")
		require.NoError(t, err)
		f.db.ExpectQuery("FROM sessions").WillReturnRows(sessionRow("sess-2", account.ID, pair.RefreshToken))

		_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		f.db.ExpectationsWereMet(t)
	})

	t.Run("token rotated by a concurrent refresh", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.jwt.GenerateTokenPair(&jwt.AccountInfo{ID: account.ID, Email: account.Email}, "sess-1")
		require.NoError(t, err)
		f.db.ExpectQuery("FROM sessions").
			WithArgs(repository.HashToken(pair.RefreshToken)).
			WillReturnRows(sessionRow("sess-1", account.ID, pair.RefreshToken))
		f.expectAccountByID(account)
		f.db.ExpectExec("UPDATE sessions SET refresh_token_hash = $1").
			WithArgs(sqlmock.AnyArg(), "sess-1", repository.HashToken(pair.RefreshToken)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		resp, err := f.svc.Refresh(context.Background(), pair.RefreshToken)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		f.db.ExpectationsWereMet(t)
	})

	t.Run("access token", func(t *testing.T) {
		f := newFixture(t)
		pair, err := f.jwt.GenerateTokenPair(&jwt.AccountInfo{ID: account.ID}, "sess-1")
		require.NoError(t, err)

		_, err = f.svc.Refresh(context.Background(), pair.AccessToken)

		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
		f.db.ExpectationsWereMet(t)
	})
}

func TestLogout_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.db.ExpectExec("UPDATE sessions SET revoked_at = NOW()").
		WithArgs(repository.HashToken("stale-token")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, f.svc.Logout(context.Background(), "stale-token"))
	assert.NoError(t, f.svc.Logout(context.Background(), ""))
	f.db.ExpectationsWereMet(t)
}

func TestMe_NotFound(t *testing.T) {
	f := newFixture(t)
	f.db.ExpectQuery("FROM accounts WHERE id = $1").WillReturnRows(testutil.MockRows(accountColumns...))

	_, err := f.svc.Me(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	account := testutil.NewFixtureFactory().Account()
	f.expectAccountByID(account)
	f.db.ExpectExec("DELETE FROM accounts WHERE id = $1").
		WithArgs(account.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, f.svc.DeleteAccount(context.Background(), account.ID))

	deleted := f.publisher.Events(messaging.EventAccountDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, messaging.AccountDeletedEvent{AccountID: account.ID, Email: account.Email}, deleted[0])
	f.db.ExpectationsWereMet(t)
}
