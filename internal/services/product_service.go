package services

import (
	"errors"
	"log"

	"grocer/internal/models"
	"grocer/internal/repositories"
	"grocer/pkg/events"
)

// ProductInput carries the raw, untrusted fields for a single product as they
// arrive from the request layer. All three pass through the sanitizers before
// the store is touched.
type ProductInput struct {
	Name     string
	Price    string
	Category string
}

// ProductService handles catalog business logic: single-record ingestion and
// substring search.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher events.Publisher
}

// NewProductService creates a new ProductService. The publisher may be nil,
// in which case catalog events are not emitted.
func NewProductService(repo repositories.ProductRepository, publisher events.Publisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// AddProduct validates and inserts a single product, returning it with its
// generated ID. A name collision is reported as repositories.ErrDuplicateName
// rather than silently skipped; the bulk import path is the one that skips.
func (s *ProductService) AddProduct(input ProductInput) (*models.Product, error) {
	product, err := sanitizeProduct(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return nil, err
		}
		return nil, &StorageError{Op: "insert product", Err: err}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishProductCreated(product); err != nil {
			// Event delivery is best-effort; the insert already succeeded.
			log.Printf("Failed to publish product created event for %q: %v", product.Name, err)
		}
	}
	return product, nil
}

// Search returns all products whose name or category contains the query as a
// literal substring. The query is trimmed and length-checked first; pattern
// metacharacter escaping happens in the repository, next to the LIKE clause
// that depends on it.
func (s *ProductService) Search(rawQuery string) ([]models.Product, error) {
	query, err := SanitizeQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.Search(query)
	if err != nil {
		return nil, &StorageError{Op: "search products", Err: err}
	}
	return products, nil
}

// GetAllProducts retrieves every product in the catalog.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, &StorageError{Op: "list products", Err: err}
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, &StorageError{Op: "get product", Err: err}
	}
	return product, nil
}

// sanitizeProduct runs the shared sanitizers and rejects a missing name,
// which is an error on every ingestion path. Both the single-insert and bulk
// paths go through here, so the validation contract is identical regardless
// of entry point.
func sanitizeProduct(input ProductInput) (*models.Product, error) {
	name, err := SanitizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, newValidationError("name", "missing name")
	}
	price, err := SanitizePrice(input.Price)
	if err != nil {
		return nil, err
	}
	category, err := SanitizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	return &models.Product{Name: name, Price: price, Category: category}, nil
}
