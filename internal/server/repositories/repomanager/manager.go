package repomanager

import (
	"context"
	"database/sql"

	"github.com/gotofast/logistics/internal/dbx"
	"github.com/gotofast/logistics/internal/server/repositories/admins"
	"github.com/gotofast/logistics/internal/server/repositories/contactsettings"
	"github.com/gotofast/logistics/internal/server/repositories/documents"
	"github.com/gotofast/logistics/internal/server/repositories/partners"
	"github.com/gotofast/logistics/internal/server/repositories/sessions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Partners(db dbx.DBTX) partners.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	ContactSettings(db dbx.DBTX) contactsettings.Repository
	Documents(db dbx.DBTX) documents.Repository
}
