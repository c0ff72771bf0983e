package migrations

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSourceVersions(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	next, err = src.Next(next)
	require.NoError(t, err)
	assert.Equal(t, uint(3), next)

	_, err = src.Next(next)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateCatalogMigration(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	up, _, err := src.ReadUp(1)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)

	sql := string(body)
	assert.Contains(t, sql, "name VARCHAR(100) UNIQUE NOT NULL")
	assert.Contains(t, sql, "REFERENCES categories(id) ON DELETE SET NULL")
	assert.Contains(t, sql, "created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP")

	down, _, err := src.ReadDown(1)
	require.NoError(t, err)
	defer down.Close()
	body, err = io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(body), "DROP TABLE IF EXISTS products")
}

func TestRatingChecksMigration(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	up, _, err := src.ReadUp(3)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CHECK (rating_rate BETWEEN 0 AND 5)")
	assert.Contains(t, string(body), "CHECK (rating_count >= 0)")

	down, _, err := src.ReadDown(3)
	require.NoError(t, err)
	defer down.Close()
	body, err = io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(body), "DROP CONSTRAINT IF EXISTS products_rating_rate_range")
	assert.Contains(t, string(body), "DROP CONSTRAINT IF EXISTS products_rating_count_nonneg")
}
