package options

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/robbyt/go-polyeval/platform/language"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return slices.Contains(language.All(), language.Language(fl.Field().Int()))
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
