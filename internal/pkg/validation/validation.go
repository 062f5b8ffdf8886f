package validation

import (
	"fmt"
	"regexp"

	"ecomcore-backend/internal/constants"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRe    = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	handleRe   = regexp.MustCompile(`^[a-z0-9-]+$`)
	mimeTypeRe = regexp.MustCompile(`(?i)^[a-z]+/[a-z0-9\-+.]+$`)
)

// validate and conform are shared by every schema. Custom validations are registered in
// init, after which both are safe for concurrent use.
var (
	validate *validator.Validate
	conform  *mold.Transformer
)

func init() {
	validate = validator.New()
	custom := map[string]validator.Func{
		"phone":      regexValidator(phoneRe),
		"handle":     regexValidator(handleRe),
		"mimetype":   regexValidator(mimeTypeRe),
		"permission": isPermission,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %q: %v", tag, err))
		}
	}
	conform = modifiers.New()
}

func isPermission(fl validator.FieldLevel) bool {
	return constants.IsValidPermission(fl.Field().String())
}

func regexValidator(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
