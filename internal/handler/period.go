package handler

import (
	"strconv"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/util"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// parsePeriod reads the period query parameters:
//
//	period=all|today|last_7_days|last_30_days|last_n_days|month|custom
//	days=N            (last_n_days)
//	start=, end=      (custom; YYYY-MM-DD or RFC 3339)
//
// A date-only end means the end of that day in loc.
func parsePeriod(c echo.Context, loc *time.Location) (domain.PeriodSelection, []ValidationError) {
	if loc == nil {
		loc = time.UTC
	}

	switch c.QueryParam("period") {
	case "", "all":
		return domain.AllTime(), nil
	case "today":
		return domain.Today(), nil
	case "last_7_days":
		return domain.LastNDays(7), nil
	case "last_30_days":
		return domain.LastNDays(30), nil
	case "month":
		return domain.MonthToDate(), nil
	case "last_n_days":
		days, err := strconv.Atoi(c.QueryParam("days"))
		if err != nil || days < 0 {
			return domain.PeriodSelection{}, []ValidationError{{Field: "days", Message: "Must be a non-negative integer"}}
		}
		return domain.LastNDays(days), nil
	case "custom":
		var errs []ValidationError
		start, err := parseBound(c.QueryParam("start"), loc, false)
		if err != nil {
			errs = append(errs, ValidationError{Field: "start", Message: "Must be YYYY-MM-DD or RFC 3339"})
		}
		end, err := parseBound(c.QueryParam("end"), loc, true)
		if err != nil {
			errs = append(errs, ValidationError{Field: "end", Message: "Must be YYYY-MM-DD or RFC 3339"})
		}
		if len(errs) > 0 {
			return domain.PeriodSelection{}, errs
		}
		return domain.CustomPeriod(start, end), nil
	}

	return domain.PeriodSelection{}, []ValidationError{{
		Field:   "period",
		Message: "Must be one of: all, today, last_7_days, last_30_days, last_n_days, month, custom",
	}}
}

func parseBound(raw string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		if endOfDay {
			t = util.EndOfDay(t, loc)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
