package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecomcore-backend/internal/application/uploads"
	"ecomcore-backend/internal/domain"
	"ecomcore-backend/internal/schemas"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("Product not found")
	ErrHandleTaken     = errors.New("Product handle already exists")
	ErrNotImage        = errors.New("Invalid file type. Only images allowed.")
	ErrLocalImageURL   = errors.New("Image URL points at a local host. Upload the file instead.")
)

// AcceptedImageTypes is advertised to clients when a non-image is rejected.
var AcceptedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var sortColumns = map[string]string{
	"title":      "title",
	"price":      "price",
	"handle":     "handle",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// Service manages the catalogue and product images.
type Service struct {
	DB         *gorm.DB
	Uploads    *uploads.Service
	BackendURL string
}

// ListResult is one page of products.
type ListResult struct {
	Products []domain.Product `json:"products"`
	Count    int64            `json:"count"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// List returns a page of products with their images. Unknown sort fields fall back to
// created_at.
func (s *Service) List(ctx context.Context, q schemas.PaginationQuery) (*ListResult, error) {
	db := s.DB.WithContext(ctx).Model(&domain.Product{})
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, err
	}
	column := "created_at"
	if q.Sort != nil {
		if c, ok := sortColumns[*q.Sort]; ok {
			column = c
		}
	}
	order := "ASC"
	if q.Order == "desc" {
		order = "DESC"
	}
	list := []domain.Product{}
	err := s.DB.WithContext(ctx).
		Preload("Images").
		Order(fmt.Sprintf("%s %s", column, order)).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return &ListResult{Products: list, Count: count, Page: q.Page, Limit: q.Limit}, nil
}

// Get loads a product with its images.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	var p domain.Product
	err = s.DB.WithContext(ctx).Preload("Images").Where("product_id = ?", pid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, in schemas.ProductCreateRequest) (*domain.Product, error) {
	if err := s.ensureHandleFree(ctx, in.Handle, uuid.Nil); err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(in.CategoryID)
	if err != nil {
		return nil, err
	}
	images, err := imagesFromInput(in.Images)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{
		Title:        in.Title,
		Description:  in.Description,
		Handle:       in.Handle,
		SKU:          in.SKU,
		Weight:       in.Weight,
		Price:        in.Price,
		CurrencyCode: strings.ToUpper(in.CurrencyCode),
		CategoryID:   categoryID,
		Images:       images,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the fields present in in. Images listed in the request are added to the
// existing ones.
func (s *Service) Update(ctx context.Context, id string, in schemas.ProductUpdateRequest) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := imagesFromInput(in.Images)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Handle != nil && *in.Handle != p.Handle {
		if err := s.ensureHandleFree(ctx, *in.Handle, p.ProductID); err != nil {
			return nil, err
		}
		updates["handle"] = *in.Handle
	}
	if in.SKU != nil {
		updates["sku"] = *in.SKU
	}
	if in.Weight != nil {
		updates["weight"] = *in.Weight
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.CurrencyCode != nil {
		updates["currency_code"] = strings.ToUpper(*in.CurrencyCode)
	}
	if in.CategoryID != nil {
		categoryID, err := uuid.Parse(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(p).Updates(updates).Error; err != nil {
				return err
			}
		}
		for _, img := range images {
			img.ProductID = p.ProductID
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the product and its image rows, then deletes the stored image objects in
// one batch. A storage failure is logged; the product stays deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	var keys []string
	for _, img := range p.Images {
		if k := img.S3Key(); k != "" {
			keys = append(keys, k)
		}
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ProductID).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(p).Error
	})
	if err != nil {
		return err
	}
	if err := s.Uploads.DeleteKeys(ctx, keys); err != nil {
		log.Warn().Err(err).Str("product_id", id).Strs("keys", keys).Msg("product images not removed from storage")
	}
	return nil
}

// ImageUpload is the response for a stored product image.
type ImageUpload struct {
	Image domain.ProductImage `json:"image"`
	Meta  ImageMeta           `json:"meta"`
}

type ImageMeta struct {
	S3Key    string `json:"s3_key"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// AddImage stores f and records it against the product. If the record cannot be written
// the stored object is deleted again.
func (s *Service) AddImage(ctx context.Context, id string, f uploads.File) (*ImageUpload, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Uploads.Enabled() {
		return nil, uploads.ErrStorageNotConfigured
	}
	f.ContentType = uploads.ResolveMimeType(f.ContentType, f.Data)
	if !strings.HasPrefix(f.ContentType, "image/") {
		return nil, ErrNotImage
	}
	if f.Name == "" {
		f.Name = fmt.Sprintf("image-%d", time.Now().UnixMilli())
	}
	res, err := s.Uploads.UploadFile(ctx, f, "products")
	if err != nil {
		return nil, err
	}
	img := domain.ProductImage{
		ProductID: p.ProductID,
		URL:       res.URL,
		AltText:   f.Name,
		Metadata: datatypes.JSONMap{
			"s3_key":      res.Key,
			"file_size":   res.Size,
			"mime_type":   res.MimeType,
			"uploaded_at": time.Now().UTC().Format(time.RFC3339),
			"backend_url": s.BackendURL,
		},
	}
	if err := s.DB.WithContext(ctx).Create(&img).Error; err != nil {
		if derr := s.Uploads.Store.Delete(ctx, res.Key); derr != nil {
			log.Error().Err(derr).Str("key", res.Key).Msg("orphaned upload after failed image insert")
		}
		return nil, err
	}
	log.Info().Str("product_id", id).Str("key", res.Key).Int64("size", res.Size).Msg("product image uploaded")
	return &ImageUpload{
		Image: img,
		Meta:  ImageMeta{S3Key: res.Key, FileSize: res.Size, MimeType: res.MimeType},
	}, nil
}

// ListImages returns the product's images, oldest first.
func (s *Service) ListImages(ctx context.Context, id string) ([]domain.ProductImage, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	images := []domain.ProductImage{}
	err = s.DB.WithContext(ctx).Where("product_id = ?", p.ProductID).Order("created_at ASC").Find(&images).Error
	return images, err
}

func (s *Service) ensureHandleFree(ctx context.Context, handle string, except uuid.UUID) error {
	q := s.DB.WithContext(ctx).Model(&domain.Product{}).Where("handle = ?", handle)
	if except != uuid.Nil {
		q = q.Where("product_id <> ?", except)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrHandleTaken
	}
	return nil
}

// imagesFromInput rejects URLs that only resolve on a developer machine; those files
// must go through AddImage so they land in object storage.
func imagesFromInput(in []schemas.ImageInput) ([]domain.ProductImage, error) {
	out := make([]domain.ProductImage, 0, len(in))
	for _, img := range in {
		if uploads.IsLocalURL(img.URL) {
			return nil, fmt.Errorf("%w: %s", ErrLocalImageURL, img.URL)
		}
		out = append(out, domain.ProductImage{URL: img.URL})
	}
	return out, nil
}
