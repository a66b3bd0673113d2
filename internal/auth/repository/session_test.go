package repository_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/internal/auth/repository"
	"github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/testutil"
)

func TestHashToken(t *testing.T) {
	sum := sha256.Sum256([]byte("refresh-token"))

	assert.Equal(t, hex.EncodeToString(sum[:]), repository.HashToken("refresh-token"))
	assert.Len(t, repository.HashToken("anything"), 64)
	assert.NotEqual(t, repository.HashToken("a"), repository.HashToken("b"))
}

func TestSessionRepository_CreateStoresOnlyTheHash(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewSessionRepository(mockDB.Wrapped())
	expires := time.Now().Add(time.Hour)

	mockDB.ExpectExec("INSERT INTO sessions").
		WithArgs("sess-1", "acc-1", repository.HashToken("secret-refresh"), "go-test", nil,
			expires, testutil.AnyTime{}, testutil.AnyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	session, err := repo.Create(context.Background(), "sess-1", "acc-1", "secret-refresh", expires, "go-test", "")

	require.NoError(t, err)
	assert.NotContains(t, session.RefreshTokenHash, "secret")
	assert.Nil(t, session.IPAddress)
	mockDB.ExpectationsWereMet(t)
}

func TestSessionRepository_GetByRefreshToken_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewSessionRepository(mockDB.Wrapped())
	mockDB.ExpectQuery("WHERE refresh_token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()").
		WithArgs(repository.HashToken("gone")).
		WillReturnRows(testutil.MockRows("id"))

	_, err := repo.GetByRefreshToken(context.Background(), "gone")

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestSessionRepository_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  bool
	}{
		{name: "current token swaps to the new one", affected: 1},
		{name: "token already rotated", affected: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := testutil.NewMockDB(t)
			repo := repository.NewSessionRepository(mockDB.Wrapped())
			mockDB.ExpectExec("WHERE id = $2 AND refresh_token_hash = $3 AND revoked_at IS NULL").
				WithArgs(repository.HashToken("next"), "sess-1", repository.HashToken("current")).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Rotate(context.Background(), "sess-1", "current", "next")

			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrNotFound))
			} else {
				assert.NoError(t, err)
			}
			mockDB.ExpectationsWereMet(t)
		})
	}
}

func TestAccountRepository_LooksUpNormalizedEmail(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAccountRepository(mockDB.Wrapped())
	mockDB.ExpectQuery("FROM accounts WHERE email = $1").
		WithArgs("ada@example.com").
		WillReturnRows(testutil.MockRows("id"))

	_, err := repo.GetByEmail(context.Background(), " ADA@example.com ")

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestAccountRepository_DeleteMissing(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAccountRepository(mockDB.Wrapped())
	mockDB.ExpectExec("DELETE FROM accounts WHERE id = $1").
		WithArgs("acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "acc-1")

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
