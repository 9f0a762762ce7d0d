package repositories

import (
	"errors"

	"grocer/internal/models"
)

// ErrDuplicateName is returned by Create when a product with the same name
// already exists. Name uniqueness is case-sensitive and enforced by the store.
var ErrDuplicateName = errors.New("product with this name already exists")

// ErrNotFound is returned when a product lookup matches no row.
var ErrNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Create inserts a single product and assigns its generated ID.
	// Returns ErrDuplicateName on a name collision.
	Create(product *models.Product) error
	// CreateSkipDuplicate inserts a product unless one with the same name
	// already exists. The returned bool reports whether a row was inserted.
	CreateSkipDuplicate(product *models.Product) (bool, error)
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	// Search returns all products whose name or category contains the given
	// text as a literal substring. Pattern metacharacters in query are
	// matched as ordinary characters.
	Search(query string) ([]models.Product, error)
	Count() (int64, error)
}
