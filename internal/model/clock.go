package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidClock   = errors.New("invalid time of day")
	ErrEndBeforeStart = errors.New("end_time must not be before start_time")
)

// clockLayouts are the accepted wire formats for a time of day.
var clockLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// Clock is a time of day with no date component.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

func NewClock(hour, minute, second int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return Clock{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidClock, hour, minute, second)
	}
	return Clock{Hour: hour, Minute: minute, Second: second}, nil
}

// MustClock is NewClock for literals known to be valid.
func MustClock(hour, minute int) Clock {
	c, err := NewClock(hour, minute, 0)
	if err != nil {
		panic(err)
	}
	return c
}

func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Minutes returns the offset from midnight in whole minutes. Seconds are ignored.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// MinutesBetween returns the minutes elapsed from start to end within a single day.
// An end before start is rejected with ErrEndBeforeStart; there is no midnight rollover.
func MinutesBetween(start, end Clock) (int, error) {
	delta := end.Minutes() - start.Minutes()
	if delta < 0 {
		return 0, fmt.Errorf("%w: %s < %s", ErrEndBeforeStart, end, start)
	}
	return delta, nil
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("%w: expected string", ErrInvalidClock)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*c = parsed
	case []byte:
		parsed, err := ParseClock(string(v))
		if err != nil {
			return err
		}
		*c = parsed
	case time.Time:
		*c = Clock{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second()}
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidClock, src)
	}
	return nil
}
