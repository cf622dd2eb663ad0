package model

import "fmt"

// Weekday is one of the seven English day names.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// AllWeekdays lists the days in calendar order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday validates a day name. Matching is exact.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range AllWeekdays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown day %q: %w", s, ErrValidation)
}
