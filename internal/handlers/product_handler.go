package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"grocer/internal/repositories"
	"grocer/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	importService  *services.ImportService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, importService *services.ImportService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		importService:  importService,
		validate:       validator.New(),
	}
}

// RegisterPublicRoutes registers the routes any visitor may call.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterAdminRoutes registers the mutating routes. The caller is expected
// to wrap the router in the admin JWT middleware.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/import", h.HandleImportCSV)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a positive integer",
		})
	}

	product, err := h.productService.GetProductByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %d not found", id),
			})
		}
		log.Printf("Error getting product by ID %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleSearch searches products by a substring of name or category.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.productService.Search(c.Query("q"))
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid search query",
				"error":   vErr.Error(),
			})
		}
		log.Printf("Error searching products for %q: %v", c.Query("q"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// CreateProductRequest represents the request body for a single product
// insert. Price is a json.Number so both "1.50" and 1.50 are accepted.
type CreateProductRequest struct {
	Name     string      `json:"name" validate:"required"`
	Price    json.Number `json:"price" validate:"required"`
	Category string      `json:"category"`
}

// HandleCreateProduct inserts a single product. Unlike the bulk import, a
// duplicate name is rejected with 409 rather than skipped.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	product, err := h.productService.AddProduct(services.ProductInput{
		Name:     req.Name,
		Price:    req.Price.String(),
		Category: req.Category,
	})
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   vErr.Error(),
			})
		case errors.Is(err, repositories.ErrDuplicateName):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "A product with this name already exists",
			})
		default:
			log.Printf("Error creating product %q: %v", req.Name, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not create product",
				"error":   err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added",
		"product": product,
	})
}

// HandleImportCSV bulk-imports products from an uploaded CSV file. The whole
// batch is processed best-effort; per-row failures come back in the response
// rather than failing the request.
func (h *ProductHandler) HandleImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A CSV file upload named 'file' is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	result, err := h.importService.ImportCSV(file)
	if err != nil {
		var storageErr *services.StorageError
		if errors.As(err, &storageErr) {
			log.Printf("Storage failure during import of %s: %v", fileHeader.Filename, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Import aborted by a storage failure",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not parse uploaded file",
			"error":   err.Error(),
		})
	}

	log.Printf("Import batch %s from %s: %d imported, %d skipped, %d failed",
		result.BatchID, fileHeader.Filename, result.Imported, result.Skipped, result.Failed)
	return c.JSON(result)
}
