package products

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ecomcore-backend/internal/application/uploads"
	"ecomcore-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var localOriginRe = regexp.MustCompile(`https?://(localhost|127\.0\.0\.1)(:\d+)?`)

// ErrLocalURLsRemain is returned when images still point at a local host after a run.
var ErrLocalURLsRemain = errors.New("localhost image URLs remain after migration")

// MigrationReport counts what an image URL migration saw and changed.
type MigrationReport struct {
	Skipped   bool     `json:"skipped"`
	Total     int      `json:"total"`
	Fixed     int      `json:"fixed"`
	Localhost int      `json:"localhost"`
	Upgraded  int      `json:"upgraded"`
	HTTPS     int      `json:"https"`
	HTTP      int      `json:"http"`
	S3        int      `json:"s3"`
	R2        int      `json:"r2"`
	Remaining []string `json:"remaining,omitempty"`
}

// RewriteImageURL points local origins at productionURL and, in production, upgrades
// plain http to https.
func RewriteImageURL(raw, productionURL string, production bool) (string, bool) {
	out := raw
	if uploads.IsLocalURL(out) {
		out = localOriginRe.ReplaceAllString(out, strings.TrimRight(productionURL, "/"))
	}
	if production && strings.HasPrefix(out, "http://") && !uploads.IsLocalURL(out) {
		out = "https://" + strings.TrimPrefix(out, "http://")
	}
	return out, out != raw
}

// ImageURLMigration rewrites stored product image URLs.
type ImageURLMigration struct {
	DB            *gorm.DB
	ProductionURL string
	Production    bool
	BatchSize     int
}

// Run fixes every image and then checks that no local URL is left. When the production
// URL is itself local nothing is changed.
func (m *ImageURLMigration) Run(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{}
	log.Info().Str("production_url", m.ProductionURL).Msg("starting image URL migration")
	if uploads.IsLocalURL(m.ProductionURL) {
		log.Warn().Msg("production URL is local, migration skipped")
		report.Skipped = true
		return report, nil
	}
	batch := m.BatchSize
	if batch <= 0 {
		batch = 500
	}
	var images []domain.ProductImage
	res := m.DB.WithContext(ctx).FindInBatches(&images, batch, func(tx *gorm.DB, _ int) error {
		for i := range images {
			if err := m.migrateOne(ctx, &images[i], report); err != nil {
				return err
			}
		}
		return nil
	})
	if res.Error != nil {
		return report, fmt.Errorf("migrate image urls: %w", res.Error)
	}
	if err := m.verify(ctx, report); err != nil {
		return report, err
	}
	log.Info().
		Int("total", report.Total).
		Int("fixed", report.Fixed).
		Int("https", report.HTTPS).
		Int("http", report.HTTP).
		Int("localhost", report.Localhost).
		Int("upgraded", report.Upgraded).
		Int("s3", report.S3).
		Int("r2", report.R2).
		Msg("image URL migration complete")
	return report, nil
}

func (m *ImageURLMigration) migrateOne(ctx context.Context, img *domain.ProductImage, report *MigrationReport) error {
	report.Total++
	if strings.Contains(img.URL, ".s3.") || strings.Contains(img.URL, "amazonaws.com") {
		report.S3++
	}
	if strings.Contains(img.URL, ".r2.") || strings.Contains(img.URL, "cloudflarestorage.com") {
		report.R2++
	}
	if uploads.IsLocalURL(img.URL) {
		report.Localhost++
	}
	next, changed := RewriteImageURL(img.URL, m.ProductionURL, m.Production)
	if changed && strings.HasPrefix(img.URL, "http://") && !uploads.IsLocalURL(img.URL) {
		report.Upgraded++
	}
	if changed {
		meta := datatypes.JSONMap{}
		for k, v := range img.Metadata {
			meta[k] = v
		}
		meta["fixed_at"] = time.Now().UTC().Format(time.RFC3339)
		meta["original_url"] = img.URL
		err := m.DB.WithContext(ctx).Model(&domain.ProductImage{}).
			Where("image_id = ?", img.ImageID).
			Updates(map[string]interface{}{"url": next, "metadata": meta}).Error
		if err != nil {
			return err
		}
		log.Info().Str("image_id", img.ImageID.String()).Str("from", img.URL).Str("to", next).Msg("image URL fixed")
		report.Fixed++
	}
	switch {
	case strings.HasPrefix(next, "https://"):
		report.HTTPS++
	case strings.HasPrefix(next, "http://"):
		report.HTTP++
	}
	return nil
}

func (m *ImageURLMigration) verify(ctx context.Context, report *MigrationReport) error {
	var left []domain.ProductImage
	err := m.DB.WithContext(ctx).
		Where("url LIKE ? OR url LIKE ?", "%localhost%", "%127.0.0.1%").
		Find(&left).Error
	if err != nil {
		return err
	}
	for _, img := range left {
		report.Remaining = append(report.Remaining, img.ImageID.String())
		log.Error().Str("image_id", img.ImageID.String()).Str("url", img.URL).Msg("localhost URL remains")
	}
	if len(left) > 0 {
		return fmt.Errorf("%w: %d images", ErrLocalURLsRemain, len(left))
	}
	return nil
}
