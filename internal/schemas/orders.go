package schemas

import v "ecomcore-backend/internal/pkg/validation"

func address(withLine2 bool, countryMessage string) []*v.Field {
	fields := []*v.Field{
		v.String("first_name").Check("min=1"),
		v.String("last_name").Check("min=1"),
		v.String("address_1").Check("min=1"),
	}
	if withLine2 {
		fields = append(fields, v.String("address_2").Optional())
	}
	return append(fields,
		v.String("city").Check("min=1"),
		v.String("state").Check("min=1"),
		v.String("postal_code").Check("min=1"),
		v.String("country_code").Rule("len=2", countryMessage),
	)
}

var CreateOrder = v.New("create_order",
	v.String("email").Check("email"),
	v.String("phone").Rule("phone", "Invalid phone format"),
	v.Object("shipping_address", address(true, "Country code must be 2 characters")...),
	v.Object("billing_address", address(false, "")...).Optional(),
)

type Address struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Address1    string  `json:"address_1"`
	Address2    *string `json:"address_2,omitempty"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	PostalCode  string  `json:"postal_code"`
	CountryCode string  `json:"country_code"`
}

type CreateOrderRequest struct {
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	ShippingAddress Address  `json:"shipping_address"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
}
