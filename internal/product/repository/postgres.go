package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// selectProduct projects a product with its category's name. The LEFT JOIN
// keeps products whose category_id is NULL.
const selectProduct = `
        SELECT p.id, p.title, p.price, p.description, c.name AS category,
               p.category_id, p.image, p.rating_rate, p.rating_count, p.created_at
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.DB.SelectContext(ctx, &products, selectProduct+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.DB.GetContext(ctx, &product, selectProduct+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindByCategoryName(ctx context.Context, name string) ([]model.Product, error) {
	products := []model.Product{}
	err := r.DB.SelectContext(ctx, &products, selectProduct+` WHERE c.name = $1 ORDER BY p.id`, name)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id)
	return exists, err
}

// Create inserts p and fills in its generated id and created_at.
func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (title, price, description, category_id, image, rating_rate, rating_count)
        VALUES (:title, :price, :description, :category_id, :image, :rating_rate, :rating_count)
        RETURNING id, created_at
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, p)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return errors.New("insert product: no row returned")
	}
	return rows.Scan(&p.ID, &p.CreatedAt)
}

// Update overwrites every mutable column; nil fields become NULL. created_at
// is never touched. It reports false when no row has p.ID.
func (r *PGRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	query := `
        UPDATE products
        SET title = :title,
            price = :price,
            description = :description,
            category_id = :category_id,
            image = :image,
            rating_rate = :rating_rate,
            rating_count = :rating_count
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, p)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the row and returns its last state.
func (r *PGRepository) Delete(ctx context.Context, id int64) (*model.Product, error) {
	query := `
        WITH deleted AS (
            DELETE FROM products WHERE id = $1 RETURNING *
        )
        SELECT d.id, d.title, d.price, d.description, c.name AS category,
               d.category_id, d.image, d.rating_rate, d.rating_count, d.created_at
        FROM deleted d
        LEFT JOIN categories c ON c.id = d.category_id
    `
	var product model.Product
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) ResolveCategoryID(ctx context.Context, name string) (*int64, error) {
	var id int64
	err := r.DB.GetContext(ctx, &id, `SELECT id FROM categories WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}
