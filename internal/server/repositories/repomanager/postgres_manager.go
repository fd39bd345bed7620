// Package repomanager vends repository sets for PostgreSQL and for the
// in-memory store, and runs schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/donadmin/internal/dbx"
	"github.com/dmitrijs2005/donadmin/internal/server/migrations"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/ads"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/users"
)

// PostgresRepositoryManager binds PostgreSQL repositories to a *sql.DB.
type PostgresRepositoryManager struct {
	db *sql.DB
}

func bind(db dbx.DBTX) Repos {
	return Repos{
		Users: users.NewPostgresRepository(db),
		Ads:   ads.NewPostgresRepository(db),
	}
}

func (m *PostgresRepositoryManager) Repos() Repos {
	return bind(m.db)
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, bind(tx))
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// OpenPostgres opens a pgx-backed *sql.DB and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{db: db}, nil
}
