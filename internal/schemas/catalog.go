package schemas

import v "ecomcore-backend/internal/pkg/validation"

var ProductCreate = v.New("product_create",
	v.String("title").Rule("min=1", "Title required").Check("max=255"),
	v.String("description").Optional(),
	v.String("handle").Check("min=1", "max=100").Rule("handle", "Invalid handle format"),
	v.String("sku").Optional().Check("min=1", "max=100"),
	v.Number("weight").Optional().Check("gt=0"),
	v.Number("price").Rule("gt=0", "Price must be positive"),
	v.String("currency_code").Rule("len=3", "Currency code must be 3 characters"),
	v.String("category_id").Rule("uuid", "Invalid category ID"),
	v.Array("images", v.Object("", v.String("url").Check("url"))).Optional(),
)

// ProductUpdate accepts any subset of the ProductCreate fields.
var ProductUpdate = ProductCreate.Partial("product_update")

type ImageInput struct {
	URL string `json:"url"`
}

type ProductCreateRequest struct {
	Title        string       `json:"title"`
	Description  *string      `json:"description,omitempty"`
	Handle       string       `json:"handle"`
	SKU          *string      `json:"sku,omitempty"`
	Weight       *float64     `json:"weight,omitempty"`
	Price        float64      `json:"price"`
	CurrencyCode string       `json:"currency_code"`
	CategoryID   string       `json:"category_id"`
	Images       []ImageInput `json:"images,omitempty"`
}

type ProductUpdateRequest struct {
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Handle       *string      `json:"handle,omitempty"`
	SKU          *string      `json:"sku,omitempty"`
	Weight       *float64     `json:"weight,omitempty"`
	Price        *float64     `json:"price,omitempty"`
	CurrencyCode *string      `json:"currency_code,omitempty"`
	CategoryID   *string      `json:"category_id,omitempty"`
	Images       []ImageInput `json:"images,omitempty"`
}

var AddToCart = v.New("add_to_cart",
	v.String("product_id").Rule("uuid", "Invalid product ID"),
	v.Int("quantity").Rule("gt=0", "Quantity must be positive"),
	v.String("variant_id").Optional().Check("uuid"),
)

type AddToCartRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	VariantID *string `json:"variant_id,omitempty"`
}

var UpdateCart = v.New("update_cart",
	v.Array("items", v.Object("",
		v.String("id"),
		v.Int("quantity").Check("gt=0"),
	)),
)

type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type UpdateCartRequest struct {
	Items []CartItem `json:"items"`
}

var CreateReview = v.New("create_review",
	v.String("product_id").Check("uuid"),
	v.Number("rating").Check("min=1").Rule("max=5", "Rating must be between 1 and 5"),
	v.String("title").Rule("min=5", "Title must be at least 5 characters").Check("max=100"),
	v.String("content").Rule("min=10", "Review must be at least 10 characters").Check("max=1000"),
)

type CreateReviewRequest struct {
	ProductID string  `json:"product_id"`
	Rating    float64 `json:"rating"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
}
