package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator checks a loaded Config against its struct tags plus the
// cross-field rules that tags cannot express
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the planner's custom rules registered
func NewValidator() *Validator {
	v := validator.New()

	// plan cycle times are whole hours, so a void horizon must be too
	_ = v.RegisterValidation("whole_hours", func(fl validator.FieldLevel) bool {
		d := time.Duration(fl.Field().Int())
		return d >= time.Hour && d%time.Hour == 0
	})
	_ = v.RegisterValidation("url_path", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), "/")
	})
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})

	return &Validator{validate: v}
}

func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	switch db.Type {
	case "sqlite":
		if db.Path == "" {
			sl.ReportError(db.Path, "Path", "path", "required_for_sqlite", "")
		}
	case "postgres":
		if db.URL == "" && (db.Host == "" || db.Name == "") {
			sl.ReportError(db.Name, "Name", "name", "required_without_url", "")
		}
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists every failed field on its own line
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s: failed %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
