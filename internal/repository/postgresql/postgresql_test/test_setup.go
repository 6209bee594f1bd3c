package postgresqltest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

const migrationFile = "0001_init.up.sql"

// TestDatabaseSetup holds a connection to the integration test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The test is
// skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to truncate tables: %v", err)
	}

	t.Cleanup(setup.Close)
	return setup
}

func (t *TestDatabaseSetup) migrate(ctx context.Context) error {
	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", migrationFile))
	if err != nil {
		return err
	}
	_, err = t.DB.Exec(ctx, string(schema))
	return err
}

// TruncateAllTables removes all rows from every table.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"salary_records",
		"payroll_policies",
		"leave_requests",
		"attendances",
		"work_schedules",
		"employee_profiles",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the connection pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
