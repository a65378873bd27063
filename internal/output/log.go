// Package output provides terminal logging for the CuteKit toolchain.
package output

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// LogConfig configures the global logger.
type LogConfig struct {
	// Verbose enables debug-level logging and caller info on stderr.
	Verbose bool

	// ProjectLogPath, if non-empty, is opened (append, create) and receives
	// every debug-level record regardless of the stderr level — this is the
	// "full log always written to a per-project log file" requirement.
	ProjectLogPath string
}

var (
	logger    = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05"})
	fileLog   *log.Logger
	logFile   *os.File
)

// Setup configures the global logger based on cfg. Call once at process
// start. Safe to call with the zero LogConfig for default behavior.
func Setup(cfg LogConfig) error {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})

	if cfg.ProjectLogPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.ProjectLogPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(cfg.ProjectLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	fileLog = log.NewWithOptions(io.Writer(f), log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		ReportCaller:    true,
		TimeFormat:      "2006-01-02T15:04:05",
	})
	return nil
}

// Close flushes and closes the per-project log file, if one was opened.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	fileLog = nil
	return err
}

// Debug logs a debug message to stderr (if verbose) and always to the
// per-project log file.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
	if fileLog != nil {
		fileLog.Debug(msg, keyvals...)
	}
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
	if fileLog != nil {
		fileLog.Info(msg, keyvals...)
	}
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
	if fileLog != nil {
		fileLog.Warn(msg, keyvals...)
	}
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
	if fileLog != nil {
		fileLog.Error(msg, keyvals...)
	}
}

// Println prints a plain message to stdout with a trailing newline,
// bypassing the leveled logger — used for direct user-facing output.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
