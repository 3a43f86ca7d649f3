// Package stats derives the chart series of the dashboard from a loaded
// dataset and a filter selection. Every function is pure: the dataset is
// only read, and every returned series is a fresh copy.
package stats

import (
	"math"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// Fallback ratios used when a year has no usable monthly breakdown.
const (
	DefaultFirstHalfRatio  = 0.6
	DefaultSecondHalfRatio = 0.4
)

// monthsPerHalf is the positional width of a half in a monthly series.
const monthsPerHalf = 6

// DefaultRatio returns the fallback share of a year that falls in half.
func DefaultRatio(half domain.HalfYear) float64 {
	switch half {
	case domain.HalfYearFirst:
		return DefaultFirstHalfRatio
	case domain.HalfYearSecond:
		return DefaultSecondHalfRatio
	}
	return 1
}

// Ratio estimates the share of year's tickets created in half, using the
// year's draft-inclusive monthly distribution. It never fails: a missing or
// all-zero monthly series yields the default ratio.
func Ratio(ds *domain.Dataset, year string, half domain.HalfYear) float64 {
	if half != domain.HalfYearFirst && half != domain.HalfYearSecond {
		return 1
	}
	return RatioFromMonthly(ds.MonthlyByYear.Get(year), half)
}

// RatioFromMonthly computes the half-year share of one monthly series.
// Labels whose month cannot be parsed are counted in the year total only.
func RatioFromMonthly(monthly domain.Series, half domain.HalfYear) float64 {
	if half != domain.HalfYearFirst && half != domain.HalfYearSecond {
		return 1
	}
	if monthly.IsEmpty() {
		return DefaultRatio(half)
	}

	from, to := half.Months()
	halfTotal, yearTotal := 0, 0
	for i, label := range monthly.Labels {
		if i >= len(monthly.Data) {
			break
		}
		v := monthly.Data[i]
		yearTotal += v
		if m, ok := domain.MonthOf(label); ok && m >= from && m <= to {
			halfTotal += v
		}
	}
	if yearTotal == 0 {
		return DefaultRatio(half)
	}
	return float64(halfTotal) / float64(yearTotal)
}

// Estimate scales a yearly count by ratio, rounding half up.
func Estimate(v int, ratio float64) int {
	return int(math.Floor(float64(v)*ratio + 0.5))
}

// Adjust scales every value of s by ratio. Labels are kept, so the sum of
// the adjusted values may differ from the estimate of the series total.
func Adjust(s domain.Series, ratio float64) domain.Series {
	out := s.Clone()
	for i, v := range out.Data {
		out.Data[i] = Estimate(v, ratio)
	}
	return out
}

// SliceMonthly keeps the exact month buckets of half: positions 0-5 for the
// first half and 6-11 for the second.
func SliceMonthly(monthly domain.Series, half domain.HalfYear) domain.Series {
	switch half {
	case domain.HalfYearFirst:
		return monthly.Slice(0, monthsPerHalf)
	case domain.HalfYearSecond:
		return monthly.Slice(monthsPerHalf, 2*monthsPerHalf)
	}
	return monthly.Clone()
}
