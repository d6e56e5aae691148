package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	namePattern   = regexp.MustCompile(`^[a-z0-9_]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("axis_name", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("step_id", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the
// configuration. Every failure here is fatal before any job runs.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return griderrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if err := validateMatrix(cfg.Matrix); err != nil {
		return err
	}

	stepIndex := make(map[string]struct{}, len(cfg.Steps))
	for i, step := range cfg.Steps {
		if _, exists := stepIndex[step.ID]; exists {
			return griderrors.NewValidationError(fieldForStep(i, "id"), fmt.Sprintf("duplicate step id %q", step.ID), nil)
		}
		stepIndex[step.ID] = struct{}{}
	}

	return nil
}

func validateMatrix(m Matrix) error {
	axisIndex := make(map[string]int, len(m.Axes))

	for i, axis := range m.Axes {
		if _, exists := axisIndex[axis.Name]; exists {
			return griderrors.NewValidationError(fieldForAxis(i, "name"), fmt.Sprintf("duplicate axis %q", axis.Name), nil)
		}
		axisIndex[axis.Name] = i

		seen := make(map[string]struct{}, len(axis.Values))
		for _, value := range axis.Values {
			if _, exists := seen[value]; exists {
				return griderrors.NewValidationError(fieldForAxis(i, "values"), fmt.Sprintf("duplicate value %q", value), nil)
			}
			seen[value] = struct{}{}
		}

		for _, value := range axis.Experimental {
			if _, exists := seen[value]; !exists {
				return griderrors.NewValidationError(fieldForAxis(i, "experimental"), fmt.Sprintf("experimental value %q is not declared in values", value), nil)
			}
		}
	}

	for i, include := range m.Include {
		if len(include.Where) == 0 && len(include.Values) == 0 && include.Tolerant == nil {
			return griderrors.NewValidationError(fieldForInclude(i), "include entry is empty", nil)
		}
		for key := range include.Where {
			if _, exists := axisIndex[key]; !exists {
				return griderrors.NewValidationError(fieldForInclude(i), fmt.Sprintf("where references unknown axis %q", key), nil)
			}
		}
		for key := range include.Values {
			if _, exists := axisIndex[key]; !exists {
				return griderrors.NewValidationError(fieldForInclude(i), fmt.Sprintf("values references unknown axis %q", key), nil)
			}
		}
		if len(include.Where) == 0 && len(include.Values) != len(m.Axes) {
			return griderrors.NewValidationError(fieldForInclude(i), "include without where must set a value for every axis", nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return griderrors.NewValidationError(field, msg, err)
	}

	return griderrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForStep(index int, field string) string {
	return fmt.Sprintf("steps[%d].%s", index, field)
}

func fieldForAxis(index int, field string) string {
	return fmt.Sprintf("matrix.axes[%d].%s", index, field)
}

func fieldForInclude(index int) string {
	return fmt.Sprintf("matrix.include[%d]", index)
}
