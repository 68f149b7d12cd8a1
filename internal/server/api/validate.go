package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"opentitles/api/internal/models"
)

// newValidator returns a validator that knows the "articleid" tag and reports
// JSON field names. It panics if the tag cannot be registered.
func newValidator() *validator.Validate {
	v := validator.New()

	err := v.RegisterValidation("articleid", func(fl validator.FieldLevel) bool {
		return models.IsValidArticleID(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register articleid validation: %v", err))
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}
