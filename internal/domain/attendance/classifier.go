package attendance

import (
	"fmt"
	"time"
)

// Classifier turns raw clock events into display records. It holds no
// mutable state and may be shared between goroutines.
type Classifier struct {
	policy Policy
}

func NewClassifier(policy Policy) (*Classifier, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{policy: policy}, nil
}

func (c *Classifier) Policy() Policy {
	return c.policy
}

func (c *Classifier) Classify(raw RawRecord) (FormattedRecord, error) {
	return Classify(raw, c.policy)
}

// Classify derives the status and display strings for raw under policy.
// Timestamps are read in the location of raw.Date.
func Classify(raw RawRecord, policy Policy) (FormattedRecord, error) {
	if raw.Date.IsZero() {
		return FormattedRecord{}, fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}
	loc := raw.Date.Location()
	y, m, d := raw.Date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	out := FormattedRecord{Date: midnight.Format(DateLayout)}

	if raw.CheckIn == nil {
		out.CheckIn = Missing
		out.CheckOut = Missing
		out.BreakTime = FormatDuration(0)
		out.WorkingHours = FormatDuration(0)
		out.Status = StatusAbsent
		return out, nil
	}

	checkIn := raw.CheckIn.In(loc)
	if !sameDay(checkIn, midnight) {
		return FormattedRecord{}, fmt.Errorf("%w: check-in %s is not on %s", ErrInvalidRecord, checkIn.Format(time.RFC3339), out.Date)
	}

	out.CheckIn = checkIn.Format(ClockLayout)
	out.CheckOut = Missing
	out.BreakTime = FormatDuration(policy.BreakDuration)
	out.WorkingHours = Missing
	out.Status = StatusOnTime
	inClock := wallClock(checkIn)
	if inClock > policy.ShiftStart+policy.GracePeriod {
		out.Status = StatusLate
	}

	if raw.CheckOut != nil {
		checkOut := raw.CheckOut.In(loc)
		if !sameDay(checkOut, midnight) {
			return FormattedRecord{}, fmt.Errorf("%w: check-out %s is not on %s", ErrInvalidRecord, checkOut.Format(time.RFC3339), out.Date)
		}
		outClock := wallClock(checkOut)
		if outClock < inClock {
			return FormattedRecord{}, fmt.Errorf("%w: check-out %s is before check-in %s", ErrInvalidRecord, checkOut.Format(ClockLayout), out.CheckIn)
		}
		out.CheckOut = checkOut.Format(ClockLayout)
		out.WorkingHours = FormatDuration(outClock - inClock - policy.BreakDuration)
	}

	return out, nil
}

func sameDay(t, midnight time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := midnight.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// wallClock is the time of day shown on the clock at t, so shift
// boundaries keep their meaning on daylight saving transition days.
func wallClock(t time.Time) time.Duration {
	h, m, sec := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
}
