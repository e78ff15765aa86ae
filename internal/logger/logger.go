// internal/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

type Mode int

const (
	MINIMAL Mode = iota
	NORMAL
	FULL
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
		FATAL: "FATAL",
	}

	levelColors = map[Level]string{
		DEBUG: "\033[36m",
		INFO:  "\033[32m",
		WARN:  "\033[33m",
		ERROR: "\033[31m",
		FATAL: "\033[35m",
	}

	resetColor = "\033[0m"
)

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// sink is shared by a logger and every child created with Named.
type sink struct {
	mu         sync.Mutex
	level      Level
	mode       Mode
	consoleOut io.Writer
	fileOut    io.Writer
	logFile    *os.File
	useColors  bool
	exit       func(int)
}

type Logger struct {
	sink      *sink
	component string
}

type Config struct {
	Level       Level
	Mode        Mode
	LogFilePath string
	UseColors   bool
	// Output replaces stdout as the console writer. Use io.Discard to keep
	// the terminal clean, e.g. while a TUI owns it.
	Output io.Writer
}

func New(cfg Config) (*Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	s := &sink{
		level:      cfg.Level,
		mode:       cfg.Mode,
		consoleOut: out,
		useColors:  cfg.UseColors,
		exit:       os.Exit,
	}

	if cfg.LogFilePath != "" {
		if err := s.setupLogFile(cfg.LogFilePath); err != nil {
			return nil, fmt.Errorf("failed to setup log file: %w", err)
		}
	}

	return &Logger{sink: s}, nil
}

func (s *sink) setupLogFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	s.logFile = file
	s.fileOut = file
	return nil
}

// Named returns a child logger that tags every line with component.
func (l *Logger) Named(component string) *Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return &Logger{sink: l.sink, component: component}
}

func (l *Logger) Close() error {
	if l.sink.logFile != nil {
		return l.sink.logFile.Close()
	}
	return nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	s := l.sink

	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	if l.component != "" {
		message = "[" + l.component + "] " + message
	}

	var consoleMsg, fileMsg string

	switch s.mode {
	case MINIMAL:
		consoleMsg = s.formatMinimal(level, message)
		fileMsg = formatFile(level, timestamp, "", message)

	case NORMAL:
		consoleMsg = s.formatNormal(level, timestamp, message)
		fileMsg = formatFile(level, timestamp, "", message)

	case FULL:
		location := caller()
		consoleMsg = s.formatFull(level, timestamp, location, message)
		fileMsg = formatFile(level, timestamp, location, message)
	}

	if s.consoleOut != nil {
		fmt.Fprintln(s.consoleOut, consoleMsg)
	}

	if s.fileOut != nil {
		fmt.Fprintln(s.fileOut, fileMsg)
	}

	if level == FATAL {
		s.exit(1)
	}
}

func (s *sink) colorize(level Level) string {
	if s.useColors {
		return levelColors[level] + "[" + levelNames[level] + "]" + resetColor
	}
	return "[" + levelNames[level] + "]"
}

func (s *sink) formatMinimal(level Level, msg string) string {
	return fmt.Sprintf("%s %s", s.colorize(level), msg)
}

func (s *sink) formatNormal(level Level, timestamp, msg string) string {
	return fmt.Sprintf("%s %s | %s", s.colorize(level), timestamp, msg)
}

func (s *sink) formatFull(level Level, timestamp, location, msg string) string {
	return fmt.Sprintf("%s %s | %s | %s", s.colorize(level), timestamp, location, msg)
}

func formatFile(level Level, timestamp, location, msg string) string {
	if location == "" {
		return fmt.Sprintf("%s [%s] %s", timestamp, levelNames[level], msg)
	}
	return fmt.Sprintf("%s [%s] %s | %s", timestamp, levelNames[level], location, msg)
}

// caller skips log, the level method and any package-level wrapper frames.
func caller() string {
	for skip := 3; skip < 6; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if filepath.Base(file) != "logger.go" {
			return fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}
	return "unknown:0"
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

func (l *Logger) SetMode(mode Mode) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.mode = mode
}

func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DEBUG
	case "info", "INFO":
		return INFO
	case "warn", "WARN", "warning", "WARNING":
		return WARN
	case "error", "ERROR":
		return ERROR
	case "fatal", "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func ParseMode(s string) Mode {
	switch s {
	case "minimal", "MINIMAL":
		return MINIMAL
	case "normal", "NORMAL":
		return NORMAL
	case "full", "FULL":
		return FULL
	default:
		return NORMAL
	}
}

var defaultLogger *Logger

func init() {
	defaultLogger, _ = New(Config{
		Level:     INFO,
		Mode:      NORMAL,
		UseColors: true,
	})
}

// Default returns the process-wide logger used by the package functions.
func Default() *Logger {
	return defaultLogger
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal(format, args...)
}

func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

func SetMode(mode Mode) {
	defaultLogger.SetMode(mode)
}

func Close() error {
	return defaultLogger.Close()
}
