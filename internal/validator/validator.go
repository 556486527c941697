package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/lzytourist/digital-classroom/internal/errors"
	"github.com/lzytourist/digital-classroom/internal/models"
)

var resetCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Validator wraps the struct validator with the custom rules used by the
// account and classroom request types.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// ValidateStruct validates struct tags and reports failures as a
// ValidationErrors collection.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("semester", validateSemester)
	validate.RegisterValidation("reset_code", validateResetCode)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func validateSemester(fl validator.FieldLevel) bool {
	return models.Semester(fl.Field().String()).Valid()
}

func validateResetCode(fl validator.FieldLevel) bool {
	return resetCodePattern.MatchString(fl.Field().String())
}
