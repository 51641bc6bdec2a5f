package content

import (
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
)

// HeroBanner is a promotional banner on the homepage
type HeroBanner struct {
	shared.BaseEntity
	Title      string `gorm:"type:varchar(150);not null"`
	Subtitle   string `gorm:"type:varchar(300)"`
	ImageURL   string `gorm:"type:varchar(500)"`
	LinkURL    string `gorm:"type:varchar(500)"`
	ButtonText string `gorm:"type:varchar(50)"`
	SortOrder  int    `gorm:"not null;default:0"`
	Active     bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (HeroBanner) TableName() string {
	return "hero_banners"
}

// BannerInput carries the editable banner fields
type BannerInput struct {
	Title      string
	Subtitle   string
	ImageURL   string
	LinkURL    string
	ButtonText string
	SortOrder  int
	Active     bool
}

// NewHeroBanner creates a banner
func NewHeroBanner(in BannerInput) (*HeroBanner, error) {
	b := &HeroBanner{BaseEntity: shared.NewBaseEntity()}
	if err := b.Update(in); err != nil {
		return nil, err
	}
	return b, nil
}

// Update replaces the banner fields
func (b *HeroBanner) Update(in BannerInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 150 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 150 characters")
	}
	if len(in.Subtitle) > 300 {
		return shared.NewDomainError("INVALID_SUBTITLE", "Subtitle cannot exceed 300 characters")
	}
	if len(in.ImageURL) > 500 || len(in.LinkURL) > 500 {
		return shared.NewDomainError("INVALID_URL", "URLs cannot exceed 500 characters")
	}
	if len(in.ButtonText) > 50 {
		return shared.NewDomainError("INVALID_BUTTON_TEXT", "Button text cannot exceed 50 characters")
	}

	b.Title = in.Title
	b.Subtitle = strings.TrimSpace(in.Subtitle)
	b.ImageURL = strings.TrimSpace(in.ImageURL)
	b.LinkURL = strings.TrimSpace(in.LinkURL)
	b.ButtonText = strings.TrimSpace(in.ButtonText)
	b.SortOrder = in.SortOrder
	b.Active = in.Active
	b.UpdatedAt = time.Now()
	return nil
}
