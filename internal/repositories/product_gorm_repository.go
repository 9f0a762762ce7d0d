package repositories

import (
	"errors"
	"fmt"

	"grocer/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts a single product. A unique-index violation on the name is
// reported as ErrDuplicateName; the database is never touched twice.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// CreateSkipDuplicate inserts a product unless its name is already taken,
// using a conflict-ignoring insert so the duplicate is neither an error nor
// a second row. RowsAffected distinguishes an insert from a skip.
func (r *GORMProductRepository) CreateSkipDuplicate(product *models.Product) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(product)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetAll retrieves all products, ordered by ID so identical calls return
// identical orderings.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Search matches query as a literal substring of name or category. The
// pattern metacharacters %, _ and \ are escaped before being handed to LIKE,
// with backslash declared as the escape character, so a search for "50%"
// matches "Sale 50% Off" and nothing else.
func (r *GORMProductRepository) Search(query string) ([]models.Product, error) {
	pattern := "%" + EscapeLikePattern(query) + "%"
	var products []models.Product
	err := r.db.
		Where(`name LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Count returns the number of persisted products.
func (r *GORMProductRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
