package contest

import (
	"fmt"
	"time"
)

// Calendar maps timestamps to 1-based contest week numbers. Weeks start on
// Sunday 00:00 in the contest timezone, anchored to a fixed epoch Sunday.
type Calendar struct {
	epoch time.Time
	loc   *time.Location
}

// NewCalendar builds a Calendar from an epoch date (YYYY-MM-DD) and an IANA
// timezone name. The epoch must fall on a Sunday.
func NewCalendar(epochDate, timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid contest timezone %q: %w", timezone, err)
	}

	epoch, err := time.ParseInLocation("2006-01-02", epochDate, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid contest epoch %q: %w", epochDate, err)
	}
	if epoch.Weekday() != time.Sunday {
		return nil, fmt.Errorf("contest epoch %s is a %s, must be a Sunday", epochDate, epoch.Weekday())
	}

	return &Calendar{epoch: epoch, loc: loc}, nil
}

// WeekNumber returns the contest week containing now: floored whole weeks
// between the epoch and the Sunday starting now's week, plus one.
func (c *Calendar) WeekNumber(now time.Time) int {
	days := civilDay(c.weekStart(now)) - civilDay(c.epoch)
	return days/7 + 1
}

// SubmissionOpen reports whether new submissions are accepted at now.
// Submissions close at the end of Saturday, so all of Sunday is closed.
func (c *Calendar) SubmissionOpen(now time.Time) bool {
	return now.In(c.loc).Weekday() != time.Sunday
}

// VotingOpen reports whether votes for the given contest week are accepted
// at now. Any week other than the current one reports closed, future weeks
// included, and the current week mirrors the submission window.
func (c *Calendar) VotingOpen(week int, now time.Time) bool {
	if week != c.WeekNumber(now) {
		return false
	}
	return c.SubmissionOpen(now)
}

// weekStart returns Sunday 00:00 of the week containing now, in the
// contest timezone.
func (c *Calendar) weekStart(now time.Time) time.Time {
	t := now.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc).
		AddDate(0, 0, -int(t.Weekday()))
}

// civilDay counts calendar days independent of DST transitions by
// anchoring each date at noon UTC.
func civilDay(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC).Unix() / 86400)
}
