package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

var (
	// Shared across all integration tests in a package
	globalContainer *PostgresContainer
	globalDB        *database.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a real PostgreSQL with the schema applied
type IntegrationSuite struct {
	Container *PostgresContainer
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite starts (or reuses) the shared container and applies the schema.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//	    suite, err := testutil.NewIntegrationSuite(context.Background())
//	    ...
//	    code := m.Run()
//	    testutil.TerminateContainer(context.Background())
//	    os.Exit(code)
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		raw, err := globalContainer.Connect(ctx)
		if err != nil {
			containerErr = err
			return
		}
		globalDB = database.Wrap(raw, logger.Nop())
		containerErr = globalDB.ApplySchema(ctx)
	})
	if containerErr != nil {
		return nil, containerErr
	}

	return &IntegrationSuite{
		Container: globalContainer,
		DB:        globalDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    logger.Nop(),
	}, nil
}

// InsertAccount stores an account fixture and removes it (with all cascaded rows) when the test ends
func (s *IntegrationSuite) InsertAccount(t *testing.T, ctx context.Context, a AccountFixture) {
	t.Helper()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`,
		a.ID, a.Email, a.PasswordHash, a.Name, a.CreatedAt)
	if err != nil {
		t.Fatalf("failed to insert account: %v", err)
	}
	t.Cleanup(func() {
		if _, err := s.DB.ExecContext(context.Background(), `DELETE FROM accounts WHERE id = $1`, a.ID); err != nil {
			t.Logf("warning: failed to delete account %s: %v", a.ID, err)
		}
	})
}

// Count returns the row count of table filtered by a single column
func (s *IntegrationSuite) Count(ctx context.Context, table, column, value string) (int, error) {
	var n int
	err := s.DB.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", table, column), value)
	return n, err
}

// TerminateContainer stops the shared container. Call it from TestMain after m.Run.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		_ = globalContainer.Terminate(ctx)
	}
}
