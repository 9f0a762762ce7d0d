package repositories_test

import (
	"fmt"
	"testing"

	"grocer/internal/database"
	"grocer/internal/models"
	"grocer/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRepo opens a fresh in-memory SQLite database and migrates the schema.
func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return repositories.NewGORMProductRepository(db)
}

func strPtr(s string) *string { return &s }

func TestMigrateIsIdempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)

	// Running the migration twice must not fail or duplicate schema objects.
	assert.NoError(t, database.Migrate(db))
	assert.NoError(t, database.Migrate(db))

	repo := repositories.NewGORMProductRepository(db)
	_, err = repo.Count()
	assert.NoError(t, err)
}

func TestCreateAssignsIDAndRejectsDuplicates(t *testing.T) {
	repo := setupRepo(t)

	product := &models.Product{Name: "Whole Milk", Price: 1.89, Category: strPtr("Dairy")}
	require.NoError(t, repo.Create(product))
	assert.NotZero(t, product.ID)

	// A second insert with the identical name is rejected explicitly.
	err := repo.Create(&models.Product{Name: "Whole Milk", Price: 2.10})
	assert.ErrorIs(t, err, repositories.ErrDuplicateName)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateSkipDuplicate(t *testing.T) {
	repo := setupRepo(t)

	inserted, err := repo.CreateSkipDuplicate(&models.Product{Name: "Eggs", Price: 3.49})
	require.NoError(t, err)
	assert.True(t, inserted)

	// The duplicate is neither an error nor a second row.
	inserted, err = repo.CreateSkipDuplicate(&models.Product{Name: "Eggs", Price: 9.99})
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGetByID(t *testing.T) {
	repo := setupRepo(t)

	product := &models.Product{Name: "Sourdough Loaf", Price: 4.25, Category: strPtr("Bakery")}
	require.NoError(t, repo.Create(product))

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sourdough Loaf", got.Name)
	assert.Equal(t, 4.25, got.Price)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSearchMatchesNameAndCategory(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(&models.Product{Name: "Bananas", Price: 1.15, Category: strPtr("Produce")}))
	require.NoError(t, repo.Create(&models.Product{Name: "Basmati Rice", Price: 6.99, Category: strPtr("Pantry")}))

	byName, err := repo.Search("Banan")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Bananas", byName[0].Name)

	byCategory, err := repo.Search("Pantry")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Basmati Rice", byCategory[0].Name)

	none, err := repo.Search("does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchTreatsMetacharactersLiterally(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(&models.Product{Name: "Sale 50% Off", Price: 1.00}))
	require.NoError(t, repo.Create(&models.Product{Name: "Discount 100% Today", Price: 2.00}))
	require.NoError(t, repo.Create(&models.Product{Name: "Discount 1000Today", Price: 3.00}))
	require.NoError(t, repo.Create(&models.Product{Name: "snake_case", Price: 4.00}))
	require.NoError(t, repo.Create(&models.Product{Name: "snakeXcase", Price: 5.00}))

	// % must match only the literal percent sign, not "any characters".
	results, err := repo.Search("50%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sale 50% Off", results[0].Name)

	results, err = repo.Search("100%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Discount 100% Today", results[0].Name)

	// _ must not act as a single-character wildcard.
	results, err = repo.Search("snake_")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "snake_case", results[0].Name)
}

func TestSearchOrderIsStable(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(&models.Product{Name: "Coffee Beans", Price: 5.75}))
	require.NoError(t, repo.Create(&models.Product{Name: "Coffee Filter", Price: 2.20}))

	first, err := repo.Search("Coffee")
	require.NoError(t, err)
	second, err := repo.Search("Coffee")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Less(t, first[0].ID, first[1].ID)
}
