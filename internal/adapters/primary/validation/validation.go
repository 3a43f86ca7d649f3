package validation

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// Query parameter names accepted by the stats endpoints.
const (
	ParamYear         = "year"
	ParamHalfYear     = "half"
	ParamExcludeDraft = "excludeDraft"
	ParamOriginal     = "original"
	ParamLimit        = "limit"
)

// Validator collects field errors.
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Range validates integer is within range
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors.Add(field, "Must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// Bool parses an optional boolean query parameter, recording an error for
// anything strconv.ParseBool rejects.
func (v *Validator) Bool(r *http.Request, key string) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		v.errors.Add(key, "Must be true or false")
		return false
	}
	return value
}

// ParseFilter reads a FilterState from the query string:
// year (default all), half (all|first|second), excludeDraft, original.
// Whether the year exists is checked later against the dataset.
func ParseFilter(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	v := NewValidator()

	half := q.Get(ParamHalfYear)
	v.OneOf(ParamHalfYear, half, []string{
		string(domain.HalfYearAll),
		string(domain.HalfYearFirst),
		string(domain.HalfYearSecond),
	})

	year := strings.TrimSpace(q.Get(ParamYear))
	v.Custom(ParamYear, isYearParam(year), "Must be all or a four-digit year")

	filter := domain.FilterState{
		Year:                   year,
		HalfYear:               domain.HalfYear(half),
		ExcludeDraft:           v.Bool(r, ParamExcludeDraft),
		ShowOriginalDepartment: v.Bool(r, ParamOriginal),
	}

	if v.HasErrors() {
		return domain.FilterState{}, v.Errors()
	}
	return filter.Normalize(), nil
}

// ParseLimit reads the limit query parameter, defaulting to def and
// rejecting values outside 1..max.
func ParseLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get(ParamLimit)
	if raw == "" {
		return def, nil
	}

	v := NewValidator()
	limit, err := strconv.Atoi(raw)
	v.Custom(ParamLimit, err == nil, "Must be an integer")
	if err == nil {
		v.Range(ParamLimit, limit, 1, max)
	}
	if v.HasErrors() {
		return 0, v.Errors()
	}
	return limit, nil
}

func isYearParam(year string) bool {
	if year == "" || year == domain.AllYears {
		return true
	}
	if len(year) != 4 {
		return false
	}
	_, err := strconv.Atoi(year)
	return err == nil
}
