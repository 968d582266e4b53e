package config

import (
	"errors"
	"fmt"
	"time"
)

// Levels follow zapcore.Level.
const (
	DEBUG_LEVEL = -1
	INFO_LEVEL  = 0
	WARN_LEVEL  = 1
	ERROR_LEVEL = 2
	FATAL_LEVEL = 5
)

var ErrInvalidLevel = errors.New("invalid log level")

type Configuration struct {
	Level      int
	TimeFormat string
}

func (c Configuration) Validate() error {
	if c.Level < DEBUG_LEVEL || c.Level > FATAL_LEVEL {
		return fmt.Errorf("%w: %d, expected %d..%d", ErrInvalidLevel, c.Level, DEBUG_LEVEL, FATAL_LEVEL)
	}
	if c.TimeFormat == "" {
		return errors.New("log time format is empty")
	}
	if _, err := time.Parse(c.TimeFormat, time.Now().Format(c.TimeFormat)); err != nil {
		return fmt.Errorf("log time format %q: %w", c.TimeFormat, err)
	}
	return nil
}
