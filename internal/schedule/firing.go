package schedule

import (
	"time"

	"medalarm-backend/internal/models"
)

// Decision is the outcome of a firing check
type Decision string

const (
	// NotDue means nothing should fire at this instant
	NotDue Decision = "not_due"
	// Due means the alarm's initial firing for today's occurrence is due
	Due Decision = "due"
	// RepeatDue means a critical alarm's unacknowledged occurrence should
	// re-signal
	RepeatDue Decision = "repeat_due"
)

// CheckResult carries the firing decision and the occurrence it refers to
type CheckResult struct {
	Decision      Decision  `json:"decision"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// Check decides whether the alarm should fire at instant now, given the logs
// already recorded against it.
//
// The initial firing is due when the rule schedules today, now falls inside
// the alarm's one-minute wall-clock window, and no log exists for that
// window. A critical alarm with no terminal (taken/skipped) log for today's
// occurrence re-signals every repeat_interval_minutes until acknowledged or
// until the day rolls over; it is never auto-logged as missed here. Missed
// status is only ever asserted by the caller.
func Check(alarm *models.Alarm, logs []*models.AlarmLog, now time.Time) (CheckResult, error) {
	hour, minute, err := ParseTimeOfDay(alarm.Time)
	if err != nil {
		return CheckResult{}, err
	}

	now = now.UTC()
	scheduled := at(dateOnly(now), hour, minute)
	result := CheckResult{Decision: NotDue, ScheduledTime: scheduled}

	if !alarm.IsActive || !OccursOn(alarm, now) || now.Before(scheduled) {
		return result, nil
	}

	if inWindow(now, scheduled) {
		if !hasLogFor(logs, scheduled) {
			result.Decision = Due
		}
		return result, nil
	}

	// Past the initial window. Only critical alarms keep signalling, and only
	// while today's occurrence has no terminal log.
	if !alarm.IsCritical || alarm.RepeatIntervalMinutes <= 0 {
		return result, nil
	}
	if hasTerminalLogFor(logs, scheduled) {
		return result, nil
	}

	minutesSince := int(now.Sub(scheduled).Minutes())
	if minutesSince > 0 && minutesSince%alarm.RepeatIntervalMinutes == 0 {
		result.Decision = RepeatDue
	}
	return result, nil
}

// inWindow reports whether now falls in the one-minute window starting at scheduled
func inWindow(now, scheduled time.Time) bool {
	return !now.Before(scheduled) && now.Before(scheduled.Add(time.Minute))
}

// hasLogFor reports whether any log covers the occurrence at scheduled
func hasLogFor(logs []*models.AlarmLog, scheduled time.Time) bool {
	for _, l := range logs {
		if inWindow(l.ScheduledTime.UTC(), scheduled) {
			return true
		}
	}
	return false
}

// hasTerminalLogFor reports whether a taken or skipped log covers the
// occurrence at scheduled
func hasTerminalLogFor(logs []*models.AlarmLog, scheduled time.Time) bool {
	for _, l := range logs {
		if l.Status == models.StatusMissed {
			continue
		}
		if inWindow(l.ScheduledTime.UTC(), scheduled) {
			return true
		}
	}
	return false
}
