package repomanager

import (
	"context"
	"database/sql"

	"github.com/ayrahq/ayra/internal/dbx"
	"github.com/ayrahq/ayra/internal/server/migrations"
	"github.com/ayrahq/ayra/internal/server/repositories/categories"
	"github.com/ayrahq/ayra/internal/server/repositories/items"
	"github.com/ayrahq/ayra/internal/server/repositories/refreshtokens"
	"github.com/ayrahq/ayra/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)
