package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date typed by the applicant.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate accepts MM/DD/YYYY only. The parts are trimmed, the year must
// have four characters and the date must exist on the calendar.
func ParseDate(value string) (Date, bool) {
	if value == "" || !strings.Contains(value, "/") {
		return Date{}, false
	}
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return Date{}, false
	}
	mm, dd, yyyy := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
	if mm == "" || dd == "" || yyyy == "" || len(yyyy) != 4 {
		return Date{}, false
	}
	month, err := strconv.Atoi(mm)
	if err != nil {
		return Date{}, false
	}
	day, err := strconv.Atoi(dd)
	if err != nil {
		return Date{}, false
	}
	year, err := strconv.Atoi(yyyy)
	if err != nil || year < 100 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// Canonical renders the date as zero-padded YYYY-MM-DD.
func (d Date) Canonical() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Display renders the date as MM/DD/YYYY.
func (d Date) Display() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Month, d.Day, d.Year)
}

// Time returns local midnight of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.Local)
}

// CanonicalDate converts a display date to YYYY-MM-DD. ok is false when
// the input does not parse.
func CanonicalDate(display string) (string, bool) {
	d, ok := ParseDate(display)
	if !ok {
		return "", false
	}
	return d.Canonical(), true
}

// FromPicker converts a YYYY-MM-DD picker value to MM/DD/YYYY. Anything
// that is not three dash-separated parts is returned as "".
func FromPicker(value string) string {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return ""
	}
	return parts[1] + "/" + parts[2] + "/" + parts[0]
}

// FormatDateInput applies keystroke formatting to a date field: only digits
// and slashes survive, a slash is appended after the month and the day, and
// input longer than ten characters is refused (prev is kept).
func FormatDateInput(prev, next string) string {
	text := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '/' {
			return r
		}
		return -1
	}, next)
	if len(text) == 2 && len(prev) == 1 {
		text += "/"
	}
	if len(text) == 5 && len(prev) == 4 {
		text += "/"
	}
	if len(text) > 10 {
		return prev
	}
	return text
}

// BirthDate validates a date of birth against now.
func BirthDate(value string, now time.Time) string {
	if value == "" {
		return "Date of birth is required"
	}
	d, ok := ParseDate(value)
	if !ok {
		return "Enter a valid date in MM/DD/YYYY format"
	}
	if d.Year < 1900 || d.Year > now.Year() {
		return "Enter a realistic birth year"
	}
	if d.Time().After(now) {
		return "Birth date cannot be in the future"
	}
	return ""
}

// RelevantDate validates the second tracked date (due date, date of loss,
// procedure date). Only the year range is checked, up to next year.
func RelevantDate(value string, now time.Time) string {
	if value == "" {
		return "This date is required"
	}
	d, ok := ParseDate(value)
	if !ok {
		return "Enter a valid date in MM/DD/YYYY format"
	}
	if d.Year < 1900 || d.Year > now.Year()+1 {
		return "Enter a realistic year"
	}
	return ""
}
