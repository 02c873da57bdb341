// Package schedule evaluates alarm recurrence rules and firing decisions.
// Everything here is a pure function of its inputs; storage access and the
// current instant are supplied by the service layer.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"medalarm-backend/internal/models"
)

const isoDate = "2006-01-02"

// nextOccurrenceHorizonDays bounds the forward scan for daily, alternate and
// weekday-based alarms. Each of these recurs at least weekly, so the horizon
// is only a safety stop.
const nextOccurrenceHorizonDays = 366

// ParseTimeOfDay parses an alarm's HH:MM wall-clock time
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// ValidateRule checks that an alarm's recurrence rule is well formed: a known
// frequency, a parseable time, and for "specific" exactly one non-empty set
// of weekdays or calendar dates.
func ValidateRule(timeOfDay, frequency string, specificDays []int, specificDates []string) error {
	if _, _, err := ParseTimeOfDay(timeOfDay); err != nil {
		return err
	}

	switch frequency {
	case models.FrequencyDaily, models.FrequencyAlternate:
		return nil
	case models.FrequencySpecific:
		hasDays := len(specificDays) > 0
		hasDates := len(specificDates) > 0
		if hasDays == hasDates {
			return fmt.Errorf("specific frequency requires exactly one of specific_days or specific_dates")
		}
		for _, d := range specificDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("weekday index %d out of range 0-6", d)
			}
		}
		for _, d := range specificDates {
			if _, err := time.Parse(isoDate, d); err != nil {
				return fmt.Errorf("invalid date %q: %w", d, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown frequency %q", frequency)
	}
}

// OccursOn reports whether the alarm's recurrence rule schedules a firing on
// the calendar date of the given instant (UTC). It does not consider
// is_active; that gate belongs to the firing check.
//
// Weekday convention: specific_days uses 0 = Sunday through 6 = Saturday,
// matching time.Weekday.
func OccursOn(alarm *models.Alarm, date time.Time) bool {
	day := dateOnly(date)

	switch alarm.Frequency {
	case models.FrequencyDaily:
		return true

	case models.FrequencyAlternate:
		// Every other calendar day anchored at the creation date.
		idx := daysBetween(dateOnly(alarm.CreatedAt), day)
		return idx >= 0 && idx%2 == 0

	case models.FrequencySpecific:
		if len(alarm.SpecificDays) > 0 {
			wd := int(day.Weekday())
			for _, d := range alarm.SpecificDays {
				if d == wd {
					return true
				}
			}
			return false
		}
		iso := day.Format(isoDate)
		for _, d := range alarm.SpecificDates {
			if d == iso {
				return true
			}
		}
		return false
	}

	return false
}

// NextOccurrence computes the first instant at or after from on which the
// alarm is scheduled to fire. The boolean is false when no occurrence exists,
// e.g. all specific_dates are in the past.
func NextOccurrence(alarm *models.Alarm, from time.Time) (time.Time, bool, error) {
	hour, minute, err := ParseTimeOfDay(alarm.Time)
	if err != nil {
		return time.Time{}, false, err
	}

	from = from.UTC()

	if alarm.Frequency == models.FrequencySpecific && len(alarm.SpecificDates) > 0 {
		var best time.Time
		found := false
		for _, d := range alarm.SpecificDates {
			day, err := time.Parse(isoDate, d)
			if err != nil {
				return time.Time{}, false, fmt.Errorf("invalid date %q: %w", d, err)
			}
			candidate := at(day, hour, minute)
			if candidate.Before(from) {
				continue
			}
			if !found || candidate.Before(best) {
				best = candidate
				found = true
			}
		}
		return best, found, nil
	}

	day := dateOnly(from)
	for i := 0; i < nextOccurrenceHorizonDays; i++ {
		candidate := at(day, hour, minute)
		if !candidate.Before(from) && OccursOn(alarm, day) {
			return candidate, true, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false, nil
}

// dateOnly truncates an instant to its UTC calendar date
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// at places a wall-clock time on a calendar date
func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b (negative when b precedes a)
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
