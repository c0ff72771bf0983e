package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT id, name FROM categories ORDER BY name`
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	return r.getOne(ctx, `SELECT id, name FROM categories WHERE id = $1`, id)
}

// FindByName matches the stored name exactly, case included.
func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	return r.getOne(ctx, `SELECT id, name FROM categories WHERE name = $1`, name)
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	name, err := model.NormalizeCategoryName(c.Name)
	if err != nil {
		return err
	}
	c.Name = name

	query := `INSERT INTO categories (name) VALUES (:name) RETURNING id, name`
	rows, err := r.DB.NamedQueryContext(ctx, query, c)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return translate(err)
		}
		return errors.New("insert category: no row returned")
	}
	return rows.StructScan(c)
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	name, err := model.NormalizeCategoryName(c.Name)
	if err != nil {
		return nil, err
	}

	var updated model.Category
	query := `UPDATE categories SET name = $1 WHERE id = $2 RETURNING id, name`
	err = r.DB.GetContext(ctx, &updated, query, name, c.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return &updated, nil
}

// Delete removes the row and returns it. Products pointing at it keep
// existing; the foreign key nulls their category_id.
func (r *PGRepository) Delete(ctx context.Context, id int64) (*model.Category, error) {
	return r.getOne(ctx, `DELETE FROM categories WHERE id = $1 RETURNING id, name`, id)
}

func (r *PGRepository) getOne(ctx context.Context, query string, args ...interface{}) (*model.Category, error) {
	var category model.Category
	err := r.DB.GetContext(ctx, &category, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// translate turns a unique violation into a conflict. The uniqueness
// constraint is the authority even when the caller pre-checked the name.
func translate(err error) error {
	if classified := apperror.FromPostgres(err); classified != nil && classified.Kind == apperror.KindConflict {
		return classified
	}
	return err
}
