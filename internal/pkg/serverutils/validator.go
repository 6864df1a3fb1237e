package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so details match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("chatview", func(fl validator.FieldLevel) bool {
		return entity.View(fl.Field().String()).Valid()
	})
	return v
}

// ValidateRequest checks validate tags and reports every failing field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("INVALID_REQUEST", err.Error())
	}

	appErr := apperror.Validation("INVALID_REQUEST", "Request validation failed")
	for _, fe := range verrs {
		appErr.WithDetail(fe.Field(), fmt.Sprintf("failed on '%s'", fe.Tag()))
	}
	return appErr
}
