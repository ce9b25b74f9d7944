package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/prmhq/prm-backend/internal/common"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules used by request structs
// and reports fields by their JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	})
}

func init() {
	RegisterValidators()
}

// bindingError turns a gin binding failure into a ValidationError naming the first bad field
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.NewValidationError("", "invalid request body")
	}
	fe := verrs[0]
	return common.NewValidationError(fieldPath(fe), fieldMessage(fe))
}

// fieldPath drops the top-level struct name: "ContactRequest.first_name" -> "first_name"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "email":
		return "enter a valid email address"
	case "phone":
		return "phone number must be entered in the format: '+999999999', up to 15 digits allowed"
	case "datetime":
		if fe.Param() == "15:04" {
			return "time has wrong format, use HH:MM"
		}
		return "date has wrong format, use YYYY-MM-DD"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
