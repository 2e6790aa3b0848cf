package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) logLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	}
	return levelInfo
}

// cliLogger writes leveled lines to stderr. It implements navdata.Logger,
// which the calculation engine shares.
type cliLogger struct {
	mu  sync.Mutex
	w   io.Writer
	min logLevel
	now func() time.Time
}

func newCLILogger(w io.Writer, level string) *cliLogger {
	return &cliLogger{w: w, min: parseLevel(level), now: time.Now}
}

func (l *cliLogger) logf(lv logLevel, tag, format string, args ...any) {
	if lv < l.min {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %-5s %s\n", l.now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

func (l *cliLogger) Debugf(format string, args ...any) { l.logf(levelDebug, "DEBUG", format, args...) }
func (l *cliLogger) Infof(format string, args ...any)  { l.logf(levelInfo, "INFO", format, args...) }
func (l *cliLogger) Warnf(format string, args ...any)  { l.logf(levelWarn, "WARN", format, args...) }
func (l *cliLogger) Errorf(format string, args ...any) { l.logf(levelError, "ERROR", format, args...) }
