package content

import (
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
)

// SectionKind selects which products a homepage section shows
type SectionKind string

const (
	SectionFeaturedProducts SectionKind = "FEATURED_PRODUCTS"
	SectionNewArrivals      SectionKind = "NEW_ARRIVALS"
	SectionCategory         SectionKind = "CATEGORY"
)

// IsValid checks if the kind is a known SectionKind
func (k SectionKind) IsValid() bool {
	switch k {
	case SectionFeaturedProducts, SectionNewArrivals, SectionCategory:
		return true
	}
	return false
}

// Product limit bounds for a section
const (
	DefaultProductLimit = 8
	MaxProductLimit     = 24
)

// HomepageSection is a product strip on the homepage
type HomepageSection struct {
	shared.BaseEntity
	Title        string      `gorm:"type:varchar(150);not null"`
	Kind         SectionKind `gorm:"type:varchar(30);not null"`
	Category     string      `gorm:"type:varchar(100)"`
	ProductLimit int         `gorm:"not null;default:8"`
	SortOrder    int         `gorm:"not null;default:0"`
	Active       bool        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (HomepageSection) TableName() string {
	return "homepage_sections"
}

// SectionInput carries the editable section fields
type SectionInput struct {
	Title        string
	Kind         SectionKind
	Category     string
	ProductLimit int
	SortOrder    int
	Active       bool
}

// NewHomepageSection creates a section
func NewHomepageSection(in SectionInput) (*HomepageSection, error) {
	s := &HomepageSection{BaseEntity: shared.NewBaseEntity()}
	if err := s.Update(in); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the section fields. A zero limit means the default;
// CATEGORY sections require a category.
func (s *HomepageSection) Update(in SectionInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || len(in.Title) > 150 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 150 characters")
	}
	if !in.Kind.IsValid() {
		return shared.NewDomainError("INVALID_SECTION_KIND", "Kind must be FEATURED_PRODUCTS, NEW_ARRIVALS or CATEGORY")
	}
	if in.Kind == SectionCategory && in.Category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category sections require a category")
	}
	if in.Kind != SectionCategory {
		in.Category = ""
	}
	if in.ProductLimit == 0 {
		in.ProductLimit = DefaultProductLimit
	}
	if in.ProductLimit < 1 || in.ProductLimit > MaxProductLimit {
		return shared.NewDomainError("INVALID_PRODUCT_LIMIT", "Product limit must be between 1 and 24")
	}

	s.Title = in.Title
	s.Kind = in.Kind
	s.Category = in.Category
	s.ProductLimit = in.ProductLimit
	s.SortOrder = in.SortOrder
	s.Active = in.Active
	s.UpdatedAt = time.Now()
	return nil
}
