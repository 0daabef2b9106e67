// Package repomanager bundles the server repositories behind one factory so
// services can run any of them against either the pooled database handle or
// an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ayrahq/ayra/internal/dbx"
	"github.com/ayrahq/ayra/internal/server/repositories/categories"
	"github.com/ayrahq/ayra/internal/server/repositories/items"
	"github.com/ayrahq/ayra/internal/server/repositories/refreshtokens"
	"github.com/ayrahq/ayra/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Items(db dbx.DBTX) items.Repository
	Categories(db dbx.DBTX) categories.Repository
}
