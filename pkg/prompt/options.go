package prompt

import "go.uber.org/zap"

// DefaultMaxRounds bounds how many times rejected fields are asked again
// after a submission.
const DefaultMaxRounds = 3

// Theme holds the prefixes printed in front of messages.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{InfoPrefix: "i ", SuccessPrefix: "✔ ", ErrorPrefix: "✖ "}

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// WithMaxRounds changes DefaultMaxRounds. Values below one are ignored.
func WithMaxRounds(rounds int) Option {
	return func(f *Filler) {
		if rounds > 0 {
			f.maxRounds = rounds
		}
	}
}

// WithConfirm asks for confirmation before each submission.
func WithConfirm(confirm bool) Option {
	return func(f *Filler) {
		f.confirm = confirm
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}
