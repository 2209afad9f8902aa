package models

// Category groups products. ParentCategoryID is informational only.
type Category struct {
	ID               int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string  `json:"name" gorm:"type:varchar(100)"`
	Description      *string `json:"description"`
	ImagePath        *string `json:"image_path"`
	ParentCategoryID *int    `json:"parent_category_id"`
}
