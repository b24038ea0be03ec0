package app

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"staybook/internal/domain"
)

// phoneRE mirrors the valid_guest_phone CHECK constraint in the schema.
var phoneRE = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRE.MatchString(fl.Field().String())
	})
	return v
}

// CreateBookingRequest carries raw caller input. Dates stay strings
// here; parseStay turns them into a domain.Stay after struct checks.
type CreateBookingRequest struct {
	RoomID     int64  `json:"room_id" validate:"required,gt=0"`
	GuestName  string `json:"guest_name" validate:"required,max=255"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone" validate:"required,phone"`
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
}

func checkStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", domain.ErrValidation, s)
	}
	return t, nil
}

// parseStay validates the date pair. A degenerate equal-date range is a
// caller error, never a zero-night booking.
func parseStay(checkIn, checkOut string) (domain.Stay, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return domain.Stay{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return domain.Stay{}, err
	}
	if !in.Before(out) {
		return domain.Stay{}, fmt.Errorf("%w: check_out must be after check_in", domain.ErrValidation)
	}
	return domain.Stay{CheckIn: in, CheckOut: out}, nil
}

// dateOnly truncates a wall-clock instant to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
