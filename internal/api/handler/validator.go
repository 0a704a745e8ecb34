package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures come back as *domain.ValidationError keyed by the form field name.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return domain.ValidDNI(fl.Field().String())
	})
	v.RegisterStructValidation(timeRangeLevel, shiftRequest{})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := domain.FieldErrors{}
			for _, fe := range ve {
				fields.Add(fe.Field(), fieldError(fe))
			}
			return &domain.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// timeRangeLevel rejects shifts whose end is not after their start. Malformed
// times are left to the service, which reports them per field.
func timeRangeLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(shiftRequest)
	if !domain.ValidTime(req.StartTime) || !domain.ValidTime(req.EndTime) {
		return
	}
	if !domain.ValidTimeRange(req.StartTime, req.EndTime) {
		sl.ReportError(req.EndTime, "end_time", "EndTime", "timerange", "")
	}
}

// fieldError maps a validation tag to its catalog key.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "validation.required"
	case "dni":
		return "validation.dni"
	case "email":
		return "validation.email"
	case "eqfield":
		return "validation.password_match"
	case "timerange":
		return "validation.time_range"
	case "min":
		if strings.Contains(strings.ToLower(fe.Field()), "password") {
			return "validation.password_length"
		}
		return "validation.invalid"
	case "gt", "gte":
		switch fe.Field() {
		case "capacity":
			return "validation.capacity"
		case "participants":
			return "validation.participants"
		}
		return "validation.invalid"
	default:
		return "validation.invalid"
	}
}
