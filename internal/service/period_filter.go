package service

import (
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/util"
)

// PeriodFilter resolves period selections into concrete date ranges
type PeriodFilter struct {
	location        *time.Location
	allowOpenCustom bool
}

// NewPeriodFilter creates a PeriodFilter. Day and month boundaries are computed in loc
// (UTC when nil). When allowOpenCustom is set, a custom period without bounds
// resolves to "no filter" instead of ErrEmptyRange.
func NewPeriodFilter(loc *time.Location, allowOpenCustom bool) *PeriodFilter {
	if loc == nil {
		loc = time.UTC
	}
	return &PeriodFilter{
		location:        loc,
		allowOpenCustom: allowOpenCustom,
	}
}

// Location returns the zone used for day and month boundaries
func (f *PeriodFilter) Location() *time.Location {
	return f.location
}

// Resolve turns a selection into bounds relative to now
func (f *PeriodFilter) Resolve(selection domain.PeriodSelection, now time.Time) (domain.DateRange, error) {
	now = now.In(f.location)

	switch selection.Kind {
	case domain.PeriodAll, "":
		return domain.DateRange{}, nil

	case domain.PeriodToday:
		start := util.StartOfDay(now, f.location)
		end := util.EndOfDay(now, f.location)
		return domain.DateRange{Start: &start, End: &end}, nil

	case domain.PeriodLastNDays:
		if selection.Days < 0 {
			return domain.DateRange{}, fmt.Errorf("%w: days must not be negative", domain.ErrInvalidInput)
		}
		start := now.AddDate(0, 0, -selection.Days)
		end := now
		return domain.DateRange{Start: &start, End: &end}, nil

	case domain.PeriodMonthToDate:
		start := util.StartOfMonth(now, f.location)
		end := now
		return domain.DateRange{Start: &start, End: &end}, nil

	case domain.PeriodCustom:
		if selection.Start == nil && selection.End == nil {
			if f.allowOpenCustom {
				return domain.DateRange{}, nil
			}
			return domain.DateRange{}, domain.ErrEmptyRange
		}
		if selection.Start != nil && selection.End != nil && selection.End.Before(*selection.Start) {
			return domain.DateRange{}, fmt.Errorf("%w: end is before start", domain.ErrInvalidInput)
		}
		return domain.DateRange{Start: selection.Start, End: selection.End}, nil
	}

	return domain.DateRange{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidInput, selection.Kind)
}

// Matches reports whether instant lies within [start, end]. Nil bounds are open.
func Matches(instant time.Time, start, end *time.Time) bool {
	if start != nil && instant.Before(*start) {
		return false
	}
	if end != nil && instant.After(*end) {
		return false
	}
	return true
}
