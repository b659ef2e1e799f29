package validators

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/agenda-facil/internal/timezone"
)

// Register adds the custom tags used in request structs:
// hhmm (15:04), yyyymmdd (2006-01-02), slug and tz.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"hhmm":     layout("15:04"),
		"yyyymmdd": layout("2006-01-02"),
		"slug": func(fl validator.FieldLevel) bool {
			return IsSlug(fl.Field().String())
		},
		"tz": func(fl validator.FieldLevel) bool {
			return timezone.IsValid(fl.Field().String())
		},
	}

	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin installs the custom tags on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

func layout(l string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(l) {
			return false
		}
		_, err := time.Parse(l, s)
		return err == nil
	}
}
