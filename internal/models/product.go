package models

// Limits enforced by the ingestion sanitizers before a Product reaches the store.
const (
	MaxNameLength     = 200
	MaxCategoryLength = 100
	MaxQueryLength    = 200
)

// Product represents a single catalog entry. Products are created through the
// ingestion pipeline, never updated in place, and never deleted.
type Product struct {
	ID       uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string  `json:"name" gorm:"uniqueIndex;type:varchar(200);not null" validate:"required,max=200"`
	Price    float64 `json:"price" gorm:"not null" validate:"gte=0"`
	Category *string `json:"category" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
}

// TableName keeps the table name stable regardless of GORM pluralization rules.
func (Product) TableName() string {
	return "products"
}

// CategoryValue returns the category or the empty string when absent.
func (p *Product) CategoryValue() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}
