package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/domain"
)

var applyLinkPattern = regexp.MustCompile(`^https?://.+`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return applyLinkPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		value := domain.JobType(fl.Field().String())
		for _, t := range domain.JobTypes {
			if t == value {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct validators and folds every failure into one ValidationError.
func validateStruct(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s cannot have more than %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "httpurl":
		return fmt.Sprintf("%s must be a valid URL starting with http:// or https://", field)
	case "jobtype":
		names := make([]string, len(domain.JobTypes))
		for i, t := range domain.JobTypes {
			names[i] = string(t)
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(names, ", "))
	case "role":
		return fmt.Sprintf("%s must be %s or %s", field, domain.RoleAdmin, domain.RoleSuperAdmin)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// cleanList trims entries and drops blanks. With dedupe set, later case-insensitive
// duplicates are discarded.
func cleanList(values []string, dedupe bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if dedupe {
			key := strings.ToLower(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, v)
	}
	return out
}
