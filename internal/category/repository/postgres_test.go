package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestFindAllOrdersByName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories ORDER BY name`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(2, "Books").
			AddRow(1, "Electronics"))

	categories, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: 2, Name: "Books"}, {ID: 1, Name: "Electronics"}}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllEmptyIsNotNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	categories, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories WHERE id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	category, err := repo.FindByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, category)
}

func TestFindByNameExactMatch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories WHERE name = $1`)).
		WithArgs("Electronics").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Electronics"))

	category, err := repo.FindByName(context.Background(), "Electronics")
	require.NoError(t, err)
	assert.Equal(t, &model.Category{ID: 1, Name: "Electronics"}, category)
}

func TestCreateTrimsAndReturnsRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`)).
		WithArgs("Books").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Books"))

	c := &model.Category{Name: "  Books  "}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Books", c.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsBlankName(t *testing.T) {
	repo, mock := newMockRepo(t)

	err := repo.Create(context.Background(), &model.Category{Name: "   "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolationIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Books").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "categories_name_key"})

	err := repo.Create(context.Background(), &model.Category{Name: "Books"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		expected  *model.Category
		kind      *apperror.Kind
		plainErr  bool
	}{
		{
			name: "renames",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE categories SET name = $1 WHERE id = $2 RETURNING id, name`)).
					WithArgs("Novels", int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Novels"))
			},
			expected: &model.Category{ID: 3, Name: "Novels"},
		},
		{
			name: "missing row is nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE categories`).
					WithArgs("Novels", int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
			},
		},
		{
			name: "duplicate is conflict",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE categories`).
					WithArgs("Novels", int64(3)).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			kind: kindPtr(apperror.KindConflict),
		},
		{
			name: "connection failure passes through",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE categories`).
					WithArgs("Novels", int64(3)).
					WillReturnError(errors.New("conn closed"))
			},
			plainErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tc.setupMock(mock)

			got, err := repo.Update(context.Background(), &model.Category{ID: 3, Name: " Novels "})
			switch {
			case tc.kind != nil:
				assert.True(t, apperror.Is(err, *tc.kind))
			case tc.plainErr:
				assert.Error(t, err)
				assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteReturnsRemovedRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1 RETURNING id, name`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Toys"))

	deleted, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, &model.Category{ID: 5, Name: "Toys"}, deleted)
}

func TestDeleteMissingReturnsNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`DELETE FROM categories`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	deleted, err := repo.Delete(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, deleted)
}

func kindPtr(k apperror.Kind) *apperror.Kind {
	return &k
}
