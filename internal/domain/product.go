package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a catalogue entry. Prices are stored in the major currency unit.
type Product struct {
	ProductID    uuid.UUID      `gorm:"column:product_id;type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Description  *string        `gorm:"column:description" json:"description"`
	Handle       string         `gorm:"column:handle;not null;uniqueIndex" json:"handle"`
	SKU          *string        `gorm:"column:sku" json:"sku"`
	Weight       *float64       `gorm:"column:weight" json:"weight"`
	Price        float64        `gorm:"column:price;not null" json:"price"`
	CurrencyCode string         `gorm:"column:currency_code;type:char(3);not null" json:"currency_code"`
	CategoryID   uuid.UUID      `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	Images       []ProductImage `gorm:"foreignKey:ProductID;references:ProductID" json:"images"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == uuid.Nil {
		p.ProductID = uuid.New()
	}
	return nil
}

// ProductImage is an image stored in object storage. Metadata carries s3_key, file_size,
// mime_type and migration markers.
type ProductImage struct {
	ImageID   uuid.UUID         `gorm:"column:image_id;type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	URL       string            `gorm:"column:url;not null" json:"url"`
	AltText   string            `gorm:"column:alt_text" json:"alt_text"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ImageID == uuid.Nil {
		i.ImageID = uuid.New()
	}
	return nil
}

// S3Key returns the object key recorded at upload, or "" for images not stored by us.
func (i ProductImage) S3Key() string {
	if i.Metadata == nil {
		return ""
	}
	k, _ := i.Metadata["s3_key"].(string)
	return k
}
