package ads

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/donadmin/internal/common"
	"github.com/dmitrijs2005/donadmin/internal/dbx"
	"github.com/dmitrijs2005/donadmin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const adColumns = `id, gender, body_part, type, title, description, is_given, photo, owner_id, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAd(s scanner) (*models.Ad, error) {
	a := &models.Ad{}
	var owner sql.NullString
	err := s.Scan(&a.ID, &a.Gender, &a.BodyPart, &a.Type, &a.Title, &a.Description,
		&a.IsGiven, &a.Photo, &owner, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.OwnerID = owner.String
	return a, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Ad, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+adColumns+` FROM ads ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Ad
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Ad, error) {
	a, err := scanAd(r.db.QueryRowContext(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id))
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	query :=
		`INSERT INTO ads (id, gender, body_part, type, title, description, is_given, photo, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`

	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, query,
		ad.ID, ad.Gender, ad.BodyPart, ad.Type, ad.Title, ad.Description,
		ad.IsGiven, ad.Photo, nullable(ad.OwnerID)).Scan(&ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ad, nil
}

// Update rewrites the editable fields. The owner is left as stored.
func (r *PostgresRepository) Update(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	query :=
		`UPDATE ads
		 SET gender = $2, body_part = $3, type = $4, title = $5, description = $6,
		     is_given = $7, photo = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + adColumns

	a, err := scanAd(r.db.QueryRowContext(ctx, query,
		ad.ID, ad.Gender, ad.BodyPart, ad.Type, ad.Title, ad.Description, ad.IsGiven, ad.Photo))
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ads SET owner_id = NULL, updated_at = now() WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
