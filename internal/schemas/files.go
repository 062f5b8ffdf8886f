package schemas

import v "ecomcore-backend/internal/pkg/validation"

// MaxUploadSize is the largest accepted upload, 10 MiB.
const MaxUploadSize = 10 * 1024 * 1024

var FileUpload = v.New("file_upload",
	v.String("filename").Check("min=1", "max=255"),
	v.String("contentType").Rule("mimetype", "Invalid MIME type"),
	v.Int("size").Check("gt=0").Rule("max=10485760", "File size cannot exceed 10MB"),
)

type FileUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

var Pagination = v.New("pagination",
	v.Int("page").Coerce().Default(int64(1)).Check("gt=0").Rule("max=1000000", "Page is too large"),
	v.Int("limit").Coerce().Default(int64(20)).Check("gt=0", "max=100"),
	v.String("sort").Optional(),
	v.String("order").Default("asc").Check("oneof=asc desc"),
)

type PaginationQuery struct {
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Sort  *string `json:"sort,omitempty"`
	Order string  `json:"order"`
}

// Offset is the number of rows to skip for the requested page.
func (p PaginationQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}
