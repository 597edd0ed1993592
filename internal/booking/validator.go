package booking

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/tailor-booking/internal/model"
)

// RequiredFields lists the inputs a booking cannot be created without, in
// the order their presence errors are reported.
var RequiredFields = []string{
	"name", "email", "phone", "design_id", "tailor_id",
	"chest", "waist", "hips", "length",
	"appointment_date", "appointment_time",
}

var measurementFields = []string{"chest", "waist", "hips", "length"}

// Opening hours: appointments may start from OpenHour:00 up to, not
// including, CloseHour:00.
const (
	OpenHour  = 9
	CloseHour = 18
)

// validate is safe for concurrent use and only used for the email rule.
var validate = validator.New()

// Input is the raw, untyped booking request: decoded JSON values or form
// strings keyed by field name.
type Input map[string]any

// FormInput converts form values into an Input using the first value of
// every key.
func FormInput(v url.Values) Input {
	in := make(Input, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			in[k] = vals[0]
		}
	}
	return in
}

// NormalizedBooking is a booking that passed validation with every field
// coerced to its storage type.
type NormalizedBooking struct {
	Name            string
	Email           string
	Phone           string
	DesignID        int64
	TailorID        uint64
	Measurements    model.Measurements
	AppointmentDate time.Time
	AppointmentTime time.Time
	Notes           string
}

// Validator checks booking input against the shop's rules.  The clock and
// location only decide what "today" is.
type Validator struct {
	Now      func() time.Time
	Location *time.Location
}

// NewValidator returns a Validator using the wall clock in loc.
func NewValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{Now: time.Now, Location: loc}
}

// Validate returns the normalized booking or a *ValidationError listing
// every violated rule.
func (v *Validator) Validate(in Input) (NormalizedBooking, error) {
	nb, msgs := Validate(in, Today(v.Now(), v.Location))
	if len(msgs) > 0 {
		return NormalizedBooking{}, &ValidationError{Messages: msgs}
	}
	return nb, nil
}

// Today truncates now to the calendar date in loc, expressed as midnight UTC
// so it compares directly with parsed appointment dates.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate applies every rule to in and collects all failures.  It performs
// no I/O.  today must be a UTC midnight as returned by Today.
func Validate(in Input, today time.Time) (NormalizedBooking, []string) {
	var errs []string
	fields := make(map[string]string, len(in))
	for k, raw := range in {
		if s, ok := text(raw); ok {
			fields[k] = s
		}
	}

	for _, f := range RequiredFields {
		if _, ok := fields[f]; !ok {
			errs = append(errs, f+" is required")
		}
	}

	var nb NormalizedBooking
	nb.Name, nb.Email, nb.Phone = fields["name"], fields["email"], fields["phone"]

	if email, ok := fields["email"]; ok {
		if err := validate.Var(email, "email"); err != nil {
			errs = append(errs, "Invalid email address")
		}
	}

	if s, ok := fields["design_id"]; ok {
		id, err := parseID(s)
		if err != nil {
			errs = append(errs, "Invalid design_id")
		}
		nb.DesignID = id
	}
	if s, ok := fields["tailor_id"]; ok {
		id, err := parseID(s)
		if err != nil {
			errs = append(errs, "Invalid tailor_id")
		}
		nb.TailorID = uint64(id)
	}

	values := make(map[string]float64, len(measurementFields))
	for _, m := range measurementFields {
		s, ok := fields[m]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			f = toCents(f)
		}
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f > 100 {
			errs = append(errs, fmt.Sprintf("Invalid %s measurement", m))
			continue
		}
		values[m] = f
	}
	nb.Measurements = model.Measurements{
		Chest:  values["chest"],
		Waist:  values["waist"],
		Hips:   values["hips"],
		Length: values["length"],
	}

	if s, ok := fields["appointment_date"]; ok {
		d, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
		switch {
		case err != nil:
			errs = append(errs, "Invalid date format")
		case d.Before(today):
			errs = append(errs, "Appointment date must be in the future")
		}
		nb.AppointmentDate = d
	}

	if s, ok := fields["appointment_time"]; ok {
		t, err := time.Parse(model.TimeLayout, s)
		switch {
		case err != nil:
			errs = append(errs, "Invalid time format")
		case t.Hour() < OpenHour || t.Hour() >= CloseHour:
			errs = append(errs, "Appointment time must be between 9 AM and 6 PM")
		}
		nb.AppointmentTime = t
	}

	// Notes are optional and never required to be text; anything else is dropped.
	if s, ok := in["notes"].(string); ok {
		nb.Notes = s
	}

	if len(errs) > 0 {
		return NormalizedBooking{}, errs
	}
	return nb, nil
}

// text renders a raw value as a string and reports whether it counts as
// present.  Empty strings, whitespace, null, false and numeric zero are
// absent.
func text(raw any) (string, bool) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s = strings.TrimSpace(v)
	case bool:
		if !v {
			return "", false
		}
		s = "true"
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return "", false
		}
		s = v.String()
	case float64:
		if v == 0 {
			return "", false
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		if v == 0 {
			return "", false
		}
		s = strconv.Itoa(v)
	case int64:
		if v == 0 {
			return "", false
		}
		s = strconv.FormatInt(v, 10)
	default:
		s = strings.TrimSpace(fmt.Sprint(v))
	}
	return s, s != ""
}

// parseID accepts positive integers, including integral decimals such as
// "3" or 3.0 coming from JSON numbers.
func parseID(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("id must be positive: %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if err != nil || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int64(f), nil
}

// toCents rounds a measurement to the two decimals the bookings table
// stores, so the range check sees the value that will be persisted.
func toCents(f float64) float64 {
	return math.Round(f*100) / 100
}
