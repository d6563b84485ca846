package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
	Missing     = "-"
)

type Status string

const (
	StatusOnTime Status = "OnTime"
	StatusLate   Status = "Late"
	StatusAbsent Status = "Absent"
)

// RawRecord is one day of clock events for an employee. Either timestamp
// may be nil when the employee has not clocked.
type RawRecord struct {
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
}

type FormattedRecord struct {
	Date         string `json:"date"`
	CheckIn      string `json:"checkIn"`
	CheckOut     string `json:"checkOut"`
	BreakTime    string `json:"breakTime"`
	WorkingHours string `json:"workingHours"`
	Status       Status `json:"status"`
}

// Policy describes the shift a record is classified against. Shift bounds
// are offsets from midnight.
type Policy struct {
	ShiftStart    time.Duration
	ShiftEnd      time.Duration
	GracePeriod   time.Duration
	BreakDuration time.Duration
}

func (p Policy) Validate() error {
	const day = 24 * time.Hour
	switch {
	case p.ShiftStart < 0 || p.ShiftStart >= day:
		return fmt.Errorf("%w: shift start must be within the day", ErrInvalidPolicy)
	case p.ShiftEnd <= p.ShiftStart || p.ShiftEnd > day:
		return fmt.Errorf("%w: shift end must be after shift start on the same day", ErrInvalidPolicy)
	case p.GracePeriod < 0:
		return fmt.Errorf("%w: grace period must not be negative", ErrInvalidPolicy)
	case p.BreakDuration < 0:
		return fmt.Errorf("%w: break duration must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// ParseClock parses an "HH:MM" time of day into an offset from midnight.
func ParseClock(raw string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("%w: clock %q must be HH:MM", ErrInvalidPolicy, raw)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidPolicy, raw)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidPolicy, raw)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatDuration renders d as "<h>h<m>m", truncated to whole minutes.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%dh%dm", minutes/60, minutes%60)
}
