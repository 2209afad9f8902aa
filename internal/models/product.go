package models

// Product represents a catalog entry. Prices are integers in minor currency units.
type Product struct {
	ID           int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"type:varchar(150)"`
	Description  *string `json:"description"`
	Price        int64   `json:"price"`
	ComparePrice int64   `json:"compare_price"`
	// StockQuantity is nil when stock is not tracked (unlimited); 0 means out of stock.
	StockQuantity *int           `json:"stock_quantity"`
	SKU           string         `json:"sku" gorm:"type:varchar(64)"`
	CategoryID    int            `json:"category_id" gorm:"index"`
	Images        []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductImage is one picture of a product.
type ProductImage struct {
	ID        int     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID int     `json:"product_id" gorm:"index"`
	ImagePath string  `json:"image_path"`
	AltText   *string `json:"alt_text,omitempty"`
	IsPrimary bool    `json:"is_primary"`
}

// HasStock reports whether qty units can be taken from the product.
func (p Product) HasStock(qty int) bool {
	if p.StockQuantity == nil {
		return true
	}
	return *p.StockQuantity >= qty && *p.StockQuantity > 0
}

// PrimaryImage returns the image flagged as primary, if any.
func (p Product) PrimaryImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	return ProductImage{}, false
}

// NormalizeImages leaves exactly one primary image: the first flagged one,
// or the first image when none is flagged.
func (p *Product) NormalizeImages() {
	if len(p.Images) == 0 {
		return
	}
	primary := -1
	for i := range p.Images {
		if p.Images[i].IsPrimary && primary == -1 {
			primary = i
		}
		p.Images[i].IsPrimary = false
	}
	if primary == -1 {
		primary = 0
	}
	p.Images[primary].IsPrimary = true
}
