package site

import (
	"fmt"
	"unicode/utf8"
)

// CounterLevel colours a character counter.
type CounterLevel string

const (
	CounterMuted   CounterLevel = "muted"
	CounterSuccess CounterLevel = "success"
	CounterWarning CounterLevel = "warning"
)

const (
	counterSuccessAbove = 250
	counterWarningAbove = 300
)

// Counter is the character counter shown under a textarea.
type Counter struct {
	Count int          `json:"count"`
	Text  string       `json:"text"`
	Level CounterLevel `json:"level"`
}

// CountCharacters builds the counter for a textarea value. Essays over 250
// characters are highlighted as on target and over 300 as long.
func CountCharacters(value string) Counter {
	count := utf8.RuneCountInString(value)
	level := CounterMuted
	switch {
	case count > counterWarningAbove:
		level = CounterWarning
	case count > counterSuccessAbove:
		level = CounterSuccess
	}
	return Counter{
		Count: count,
		Text:  fmt.Sprintf("%d characters", count),
		Level: level,
	}
}
