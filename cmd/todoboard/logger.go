package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/hylla/todoboard/internal/config"
)

// sinkKind tells the console sink apart from file sinks.
type sinkKind int

const (
	sinkConsole sinkKind = iota
	sinkDevFile
)

// logSink is one destination for runtime events.
type logSink struct {
	kind   sinkKind
	log    *charmLog.Logger
	closer io.Closer
}

// runtimeLogger writes every event to each unmuted sink. Loggers derived with
// With share the parent's sinks and mute state.
type runtimeLogger struct {
	sinks   []*logSink
	devLog  string
	console *consoleGate
}

// consoleGate is shared between a logger and everything derived from it.
type consoleGate struct {
	muted bool
}

func newSink(kind sinkKind, w io.Writer, prefix string, level charmLog.Level) *logSink {
	formatter := charmLog.TextFormatter
	if kind == sinkDevFile {
		formatter = charmLog.LogfmtFormatter
	}
	return &logSink{
		kind: kind,
		log: charmLog.NewWithOptions(w, charmLog.Options{
			Level:           level,
			Prefix:          prefix,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       formatter,
		}),
	}
}

// newRuntimeLogger builds the console sink and, in dev mode with
// [logging.dev_file] enabled, a logfmt file sink named after the app and day.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	logger := &runtimeLogger{
		sinks:   []*logSink{newSink(sinkConsole, stderr, appName, level)},
		console: &consoleGate{},
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	path, err := devLogFilePath(cfg.DevFile.Dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}
	sink := newSink(sinkDevFile, file, appName, level)
	sink.closer = file
	logger.sinks = append(logger.sinks, sink)
	logger.devLog = path
	return logger, nil
}

// With returns a logger that adds keyvals to every event, such as the
// component a service logs for.
func (l *runtimeLogger) With(keyvals ...any) *runtimeLogger {
	if l == nil {
		return nil
	}
	derived := &runtimeLogger{devLog: l.devLog, console: l.console}
	for _, sink := range l.sinks {
		derived.sinks = append(derived.sinks, &logSink{kind: sink.kind, log: sink.log.With(keyvals...)})
	}
	return derived
}

// DevLogPath returns the dev log file path, or "" when file logging is off.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// Close closes file sinks. Derived loggers own no files.
func (l *runtimeLogger) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	for _, sink := range l.sinks {
		if sink.closer == nil {
			continue
		}
		if err := sink.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		sink.closer = nil
	}
	return firstErr
}

// muteConsole stops console output while the TUI owns the terminal.
func (l *runtimeLogger) muteConsole(muted bool) {
	if l == nil {
		return
	}
	l.console.muted = muted
}

// consoleMuted reports whether console output is suppressed.
func (l *runtimeLogger) consoleMuted() bool {
	return l == nil || l.console.muted
}

func (l *runtimeLogger) log(level charmLog.Level, msg any, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if sink.kind == sinkConsole && l.console.muted {
			continue
		}
		sink.log.Log(level, msg, keyvals...)
	}
}

func (l *runtimeLogger) Debug(msg any, keyvals ...any) { l.log(charmLog.DebugLevel, msg, keyvals...) }
func (l *runtimeLogger) Info(msg any, keyvals ...any)  { l.log(charmLog.InfoLevel, msg, keyvals...) }
func (l *runtimeLogger) Warn(msg any, keyvals ...any)  { l.log(charmLog.WarnLevel, msg, keyvals...) }
func (l *runtimeLogger) Error(msg any, keyvals ...any) { l.log(charmLog.ErrorLevel, msg, keyvals...) }

// devLogFilePath resolves <dir>/<app>-YYYYMMDD.log. Relative dirs are anchored
// at the enclosing workspace root so dev runs from any subdirectory share one file.
func devLogFilePath(dir, appName string, day time.Time) (string, error) {
	base := strings.TrimSpace(dir)
	if base == "" {
		base = filepath.Join(".todoboard", "log")
	}
	if !filepath.IsAbs(base) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		base = filepath.Join(workspaceRootFrom(cwd), base)
	}
	name := sanitizeLogFileStem(appName) + "-" + day.Format("20060102") + ".log"
	return filepath.Join(filepath.Clean(base), name), nil
}

// workspaceRootFrom returns the nearest ancestor holding a go.mod or .git, or start itself.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	for dir := start; ; {
		if hasWorkspaceMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func hasWorkspaceMarker(dir string) bool {
	for _, marker := range []string{"go.mod", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// sanitizeLogFileStem maps an app name onto a file-name-safe stem.
func sanitizeLogFileStem(appName string) string {
	stem := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, strings.TrimSpace(appName))
	if stem = strings.Trim(stem, "-"); stem == "" {
		return "todoboard"
	}
	return stem
}
