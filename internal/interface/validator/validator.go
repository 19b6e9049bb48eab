package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// CustomValidator はechoに組み込むバリデーターです
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator は新しいCustomValidatorを作成します
func NewCustomValidator() (*CustomValidator, error) {
	v := validator.New()

	if err := v.RegisterValidation("filename", validateFileName); err != nil {
		return nil, fmt.Errorf("failed to register filename validation: %w", err)
	}

	return &CustomValidator{validator: v}, nil
}

// Validate は構造体のバリデーションを実行します
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		var details []apperror.FieldError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, verr := range verrs {
				details = append(details, apperror.FieldError{
					Field:   toSnakeCase(verr.Field()),
					Message: validationMessage(verr),
				})
			}
		}
		return apperror.NewValidationError("validation failed", details)
	}
	return nil
}

// validateFileName はパス区切りや制御文字を含まないファイル名かを検証します
func validateFileName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return false
		}
	}
	return true
}

func validationMessage(verr validator.FieldError) string {
	switch verr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", verr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", verr.Param())
	case "filename":
		return "must be a valid file name"
	default:
		return fmt.Sprintf("failed validation on %s", verr.Tag())
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
