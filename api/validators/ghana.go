package validators

import (
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/ghana"
	"github.com/go-playground/validator/v10"
)

// registerGhanaValidators wires the marketplace-specific struct tags into the
// shared validator instance.
func registerGhanaValidators(v *validator.Validate) {
	v.RegisterValidation("ghana_phone", func(fl validator.FieldLevel) bool {
		return ghana.IsValidPhone(fl.Field().String())
	})
	v.RegisterValidation("ghana_gps", func(fl validator.FieldLevel) bool {
		return ghana.IsValidGPSCode(fl.Field().String())
	})
	v.RegisterValidation("ghana_region", func(fl validator.FieldLevel) bool {
		return ghana.IsValidRegion(fl.Field().String())
	})
	v.RegisterValidation("ghana_category", func(fl validator.FieldLevel) bool {
		return ghana.IsValidCategory(fl.Field().String())
	})
	v.RegisterValidation("momo_provider", func(fl validator.FieldLevel) bool {
		_, err := enums.ParseMomoProvider(fl.Field().String())
		return err == nil
	})
}
