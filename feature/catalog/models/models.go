package models

import (
	"sort"
	"time"
)

// Product is a catalog product row.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        float64        `gorm:"not null" json:"price"`
	Discount     float64        `gorm:"not null" json:"discount"`
	DisplayOrder int            `gorm:"index;default:0" json:"display_order"`
	ImageMain    string         `gorm:"size:1024" json:"image_main"`
	Images       []ProductImage `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ProductImage is one entry of a product's image set. Ordinal is the 0-based
// position; ObjectKey is the storage key the public URL was minted from.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProductID uint   `gorm:"index;not null" json:"-"`
	Ordinal   int    `gorm:"not null" json:"ordinal"`
	ObjectKey string `gorm:"size:512;not null" json:"object_key"`
	URL       string `gorm:"size:1024;not null" json:"url"`
}

// SortedImages returns the image set in ordinal order.
func (p *Product) SortedImages() []ProductImage {
	imgs := make([]ProductImage, len(p.Images))
	copy(imgs, p.Images)
	sort.Slice(imgs, func(i, j int) bool { return imgs[i].Ordinal < imgs[j].Ordinal })
	return imgs
}

// ImageURLs returns the ordered public URLs of the image set.
func (p *Product) ImageURLs() []string {
	imgs := p.SortedImages()
	urls := make([]string, len(imgs))
	for i, img := range imgs {
		urls[i] = img.URL
	}
	return urls
}

// ProductResponse is the JSON shape products are served as.
type ProductResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Discount     float64  `json:"discount"`
	DisplayOrder int      `json:"display_order"`
	ImageMain    string   `json:"image_main"`
	Images       []string `json:"images"`
}

// NewProductResponse converts a row into its response shape.
func NewProductResponse(p *Product) ProductResponse {
	urls := p.ImageURLs()
	if urls == nil {
		urls = []string{}
	}
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Discount:     p.Discount,
		DisplayOrder: p.DisplayOrder,
		ImageMain:    p.ImageMain,
		Images:       urls,
	}
}
