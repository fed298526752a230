// Package repomanager wires repository constructors together with the
// schema migrations (via goose) for the configured SQL dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gotofast/logistics/internal/dbx"
	"github.com/gotofast/logistics/internal/server/migrations"
	"github.com/gotofast/logistics/internal/server/repositories/admins"
	"github.com/gotofast/logistics/internal/server/repositories/contactsettings"
	"github.com/gotofast/logistics/internal/server/repositories/documents"
	"github.com/gotofast/logistics/internal/server/repositories/partners"
	"github.com/gotofast/logistics/internal/server/repositories/sessions"
	"github.com/gotofast/logistics/internal/server/storage"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repositories. The repositories
// themselves are dialect-neutral; only the migrations differ.
type SQLRepositoryManager struct {
	dialect storage.Dialect
}

func NewSQLRepositoryManager(dialect storage.Dialect) (*SQLRepositoryManager, error) {
	switch dialect {
	case storage.DialectPostgres, storage.DialectSQLite:
		return &SQLRepositoryManager{dialect: dialect}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func (m *SQLRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Partners(db dbx.DBTX) partners.Repository {
	return partners.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) ContactSettings(db dbx.DBTX) contactsettings.Repository {
	return contactsettings.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, string(m.dialect)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
