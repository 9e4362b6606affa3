package plant

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/scheduler"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true,
}

// Validator returns the shared validator with the plant-specific tags
// registered: clock ("HH:MM"), shifttiming ("HH:MM-HH:MM") and weekday.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, ok := scheduler.ParseClock(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("shifttiming", func(fl validator.FieldLevel) bool {
			_, _, ok := scheduler.ParseShiftTiming(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return weekdayNames[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
		})
		validate = v
	})
	return validate
}

// describe flattens validator errors into "field: rule" messages.
func describe(err error) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", ns, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", ns, fe.Tag()))
		}
	}
	return msgs
}
