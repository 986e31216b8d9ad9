package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/taskman/internal/models"
)

var (
	tagRegex      = regexp.MustCompile(`#([\p{L}\p{N}_,-]+)`)
	assigneeRegex = regexp.MustCompile(`@([\p{L}\p{N}_.-]+)`)
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex      = regexp.MustCompile(`due:(\S+)`)
	estimateRegex = regexp.MustCompile(`(?:^|\s)~([0-9hm]+)`)
)

// ParsedTask represents a task parsed from natural language
type ParsedTask struct {
	Title     string
	Tags      []string
	Priority  models.Priority // empty when not given
	Assignees []string        // usernames, without the @
	DueDate   *time.Time
	Estimate  *int // minutes
	Errors    []string
}

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #tag1,tag2 @alice +priority due:3days ~90m"
func ParseTitle(input string) ParsedTask {
	return ParseTitleAt(input, time.Now())
}

// ParseTitleAt is ParseTitle with relative due dates resolved against now
func ParseTitleAt(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Title:  input,
		Tags:   []string{},
		Errors: []string{},
	}

	// Extract due date first so its value can't be mistaken for other tokens
	if m := dueRegex.FindStringSubmatch(input); m != nil {
		dueDate, err := ParseDueDateAt(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2)
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		for _, tag := range strings.Split(match[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" && !contains(result.Tags, tag) {
				result.Tags = append(result.Tags, tag)
			}
		}
	}
	input = tagRegex.ReplaceAllString(input, "")

	// Extract assignees (@alice @bob)
	for _, match := range assigneeRegex.FindAllStringSubmatch(input, -1) {
		if !contains(result.Assignees, match[1]) {
			result.Assignees = append(result.Assignees, match[1])
		}
	}
	input = assigneeRegex.ReplaceAllString(input, "")

	// Extract priority (+high, +4, +urgent, etc.)
	if m := priorityRegex.FindStringSubmatch(input); m != nil {
		priority, err := models.ParsePriority(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, urgent or 1-4")
		} else {
			result.Priority = priority
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Extract estimate (~90m, ~2h, ~1h30m, ~45)
	if m := estimateRegex.FindStringSubmatch(input); m != nil {
		minutes, err := parseMinutes(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid estimate '~"+m[1]+"'. Use minutes or a duration like 1h30m")
		} else {
			result.Estimate = &minutes
		}
		input = estimateRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}

// parseMinutes accepts a bare number of minutes or a Go duration
func parseMinutes(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, strconv.ErrRange
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < time.Minute {
		return 0, strconv.ErrRange
	}
	return int(d / time.Minute), nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
