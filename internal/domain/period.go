package domain

import "time"

type PeriodKind string

const (
	PeriodAll         PeriodKind = "all"
	PeriodToday       PeriodKind = "today"
	PeriodLastNDays   PeriodKind = "last_n_days"
	PeriodMonthToDate PeriodKind = "month_to_date"
	PeriodCustom      PeriodKind = "custom"
)

// PeriodSelection names a date range before it is resolved against a reference time.
// Days is only read for PeriodLastNDays; Start and End only for PeriodCustom.
type PeriodSelection struct {
	Kind  PeriodKind
	Days  int
	Start *time.Time
	End   *time.Time
}

func AllTime() PeriodSelection {
	return PeriodSelection{Kind: PeriodAll}
}

func Today() PeriodSelection {
	return PeriodSelection{Kind: PeriodToday}
}

func LastNDays(n int) PeriodSelection {
	return PeriodSelection{Kind: PeriodLastNDays, Days: n}
}

func MonthToDate() PeriodSelection {
	return PeriodSelection{Kind: PeriodMonthToDate}
}

func CustomPeriod(start, end *time.Time) PeriodSelection {
	return PeriodSelection{Kind: PeriodCustom, Start: start, End: end}
}

// DateRange is a resolved period. A nil bound is open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsUnbounded reports whether neither bound is set
func (r DateRange) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}
