package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dmyRegex      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoRegex      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(hour|hours|day|days|week|weeks)$`)
)

const endOfDay = 23*time.Hour + 59*time.Minute + 59*time.Second

// ParseDueDate parses various due date formats
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2024")
// - yyyy-mm-dd (e.g., "2024-12-15")
// - today, tomorrow
// - X days (e.g., "3 days", "1 day")
// - X hours (e.g., "24 hours", "1 hour")
// - X weeks (e.g., "2 weeks", "1 week")
func ParseDueDate(input string) (*time.Time, error) {
	return ParseDueDateAt(input, time.Now())
}

// ParseDueDateAt is ParseDueDate relative to now
func ParseDueDateAt(input string, now time.Time) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	if day, err := parseDay(input, now); err == nil {
		dueDate := day.Add(endOfDay)
		return &dueDate, nil
	}

	if dueDate, err := parseRelativeTime(input, now); err == nil {
		return dueDate, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, X days, X hours, or X weeks")
}

// ParseDay parses a calendar day and returns its midnight in now's location.
// Accepts dd/mm/yyyy, yyyy-mm-dd, yesterday, today and tomorrow.
func ParseDay(input string, now time.Time) (time.Time, error) {
	day, err := parseDay(strings.TrimSpace(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Use: dd/mm/yyyy, yyyy-mm-dd, today", input)
	}
	return day, nil
}

// EndOfDay returns the last second of t's day
func EndOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(endOfDay)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseDay(input string, now time.Time) (time.Time, error) {
	today := startOfDay(now)
	switch strings.ToLower(input) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if m := dmyRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[3], m[2], m[1], now.Location())
	}
	if m := isoRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[1], m[2], m[3], now.Location())
	}
	return time.Time{}, fmt.Errorf("invalid date format")
}

func buildDate(yearStr, monthStr, dayStr string, loc *time.Location) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	// Validate date ranges
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return time.Time{}, fmt.Errorf("year must be between 2000 and 2100")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}

	return date, nil
}

// parseRelativeTime parses relative time formats like "3 days", "24 hours", etc.
func parseRelativeTime(input string, now time.Time) (*time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(strings.ToLower(input))
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	today := startOfDay(now)

	switch matches[2] {
	case "hour", "hours":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		dueDate := now.Add(time.Duration(amount) * time.Hour)
		return &dueDate, nil

	case "day", "days":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		dueDate := today.AddDate(0, 0, amount).Add(endOfDay)
		return &dueDate, nil

	case "week", "weeks":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		dueDate := today.AddDate(0, 0, amount*7).Add(endOfDay)
		return &dueDate, nil
	}

	return nil, fmt.Errorf("unsupported time unit")
}

// FormatDueDate formats a due date for display
func FormatDueDate(dueDate *time.Time, now time.Time) string {
	if dueDate == nil {
		return ""
	}

	// Calculate calendar days difference
	today := startOfDay(now)
	dueDay := startOfDay(dueDate.In(now.Location()))
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := dueDate.Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	}
	return fmt.Sprintf("📅 Due %s", dateStr)
}
