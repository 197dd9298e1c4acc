// Package schema validates adapted drafts against the canonical schema of
// their entity kind: required fields, closed enumerations, coerced defaults.
// Unknown source columns never reach this layer; drafts are assembled only
// from the declared alias tables, so unrecognized fields are stripped
// structurally.
package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalogo/internal/model"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) Error() string { return e.Path + ": " + e.Message }

// Join flattens a list of field errors into a single log-friendly string.
func Join(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, ", ")
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// ValidateDevelopment coerces defaults and validates a Development draft.
func ValidateDevelopment(d *model.Development) []FieldError {
	if d.Active == nil {
		active := true
		d.Active = &active
	}
	return fieldErrors(validate.Struct(d))
}

// ValidateUnitModel coerces defaults and validates a UnitModel draft.
func ValidateUnitModel(m *model.UnitModel) []FieldError {
	if m.Active == nil {
		active := true
		m.Active = &active
	}
	if m.PropertyType == nil {
		pt := "Casa"
		m.PropertyType = &pt
	}
	return fieldErrors(validate.Struct(m))
}

// ValidateDeveloper coerces defaults (status "active", legacy Spanish status
// values normalized) and validates a Developer draft.
func ValidateDeveloper(d *model.Developer) []FieldError {
	if d.Status == nil {
		st := model.StatusActive
		d.Status = &st
	} else {
		st := normalizeStatus(*d.Status)
		d.Status = &st
	}
	return fieldErrors(validate.Struct(d))
}

// normalizeStatus lowercases and translates the legacy Spanish status values
// still present in historical sheets.
func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "activo", model.StatusActive:
		return model.StatusActive
	case "inactivo", model.StatusInactive:
		return model.StatusInactive
	case "suspendido", model.StatusSuspended:
		return model.StatusSuspended
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// CheckMilestones reports commission schedules that do not sum to 100. These
// are warnings: the row still imports, but the schedule is suspect.
func CheckMilestones(d *model.Developer) []FieldError {
	if d.Commission == nil || d.Commission.Milestones == nil {
		return nil
	}
	var errs []FieldError
	check := func(path string, schedule []float64) {
		if len(schedule) == 0 {
			return
		}
		var sum float64
		for _, v := range schedule {
			sum += v
		}
		if math.Abs(sum-100) > 0.01 {
			errs = append(errs, FieldError{
				Path:    path,
				Message: fmt.Sprintf("milestone schedule sums to %.2f, expected 100", sum),
			})
		}
	}
	check("commission.milestones.credit", d.Commission.Milestones.Credit)
	check("commission.milestones.cash", d.Commission.Milestones.Cash)
	check("commission.milestones.direct", d.Commission.Milestones.Direct)
	return errs
}

func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			path := fe.Namespace()
			if i := strings.IndexByte(path, '.'); i >= 0 {
				path = path[i+1:]
			}
			out = append(out, FieldError{Path: path, Message: messageFor(fe)})
		}
		return out
	}
	return []FieldError{{Message: err.Error()}}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
