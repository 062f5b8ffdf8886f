package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"strings"

	"ecomcore-backend/internal/pkg/validation"
	"ecomcore-backend/internal/schemas"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrStorageNotConfigured = errors.New("File storage not configured")
	ErrLocalhostURL         = errors.New("URL generation failed - localhost detected")
	ErrFileTooLarge         = errors.New("File size cannot exceed 10MB")
	ErrFileNotFound         = errors.New("File not found")
)

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FromMultipart reads an uploaded form file into memory, refusing files over
// schemas.MaxUploadSize before reading them.
func FromMultipart(fh *multipart.FileHeader) (File, error) {
	if fh.Size > schemas.MaxUploadSize {
		return File{}, ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return File{}, errors.Wrap(err, "open upload")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, schemas.MaxUploadSize+1))
	if err != nil {
		return File{}, errors.Wrap(err, "read upload")
	}
	return File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

// UploadResult describes a stored object.
type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Service validates uploads and hands them to the object store.
type Service struct {
	Store ObjectStore // nil when storage is disabled
}

// Enabled reports whether an object store is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.Store != nil
}

// UploadFile checks f against the file_upload schema and stores it under folder.
func (s *Service) UploadFile(ctx context.Context, f File, folder string) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, ErrStorageNotConfigured
	}
	mimeType := ResolveMimeType(f.ContentType, f.Data)
	if _, err := validation.Validate[schemas.FileUploadRequest](ctx, schemas.FileUpload, map[string]any{
		"filename":    f.Name,
		"contentType": mimeType,
		"size":        int64(len(f.Data)),
	}); err != nil {
		return nil, err
	}
	url, key, err := s.Store.Upload(ctx, bytes.NewReader(f.Data), f.Name, mimeType, folder)
	if err != nil {
		return nil, err
	}
	if IsLocalURL(url) {
		log.Error().Str("url", url).Msg("file stored with localhost URL")
		if derr := s.Store.Delete(ctx, key); derr != nil {
			log.Warn().Err(derr).Str("key", key).Msg("cleanup after localhost URL failed")
		}
		return nil, ErrLocalhostURL
	}
	log.Info().Str("key", key).Int("size", len(f.Data)).Str("mime_type", mimeType).Msg("file uploaded")
	return &UploadResult{URL: url, Key: key, MimeType: mimeType, Size: int64(len(f.Data))}, nil
}

// SignedURL presigns a GET for key with the store's default lifetime. The object must
// exist; its metadata is returned alongside the URL.
func (s *Service) SignedURL(ctx context.Context, key string) (string, *ObjectInfo, error) {
	if !s.Enabled() {
		return "", nil, ErrStorageNotConfigured
	}
	info, err := s.Store.Head(ctx, key)
	if err != nil {
		return "", nil, err
	}
	url, err := s.Store.SignedURL(ctx, key, 0)
	if err != nil {
		return "", nil, err
	}
	return url, info, nil
}

// DeleteKeys removes keys in one batch; storage being disabled makes it a no-op.
func (s *Service) DeleteKeys(ctx context.Context, keys []string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	return s.Store.DeleteMany(ctx, keys)
}

// ResolveMimeType prefers the declared type and falls back to the sniffed one when the
// declared type is missing or generic. A mismatch is logged, not rejected.
func ResolveMimeType(declared string, data []byte) string {
	declared = baseType(declared)
	detected := mimetype.Detect(data)
	sniffed := baseType(detected.String())
	if declared == "" || declared == "application/octet-stream" {
		return sniffed
	}
	if !detected.Is(declared) {
		log.Warn().Str("declared", declared).Str("detected", sniffed).Msg("declared content type does not match file contents")
	}
	return declared
}

// IsLocalURL reports URLs that would only resolve on a developer machine.
func IsLocalURL(u string) bool {
	return strings.Contains(u, "localhost") || strings.Contains(u, "127.0.0.1")
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
