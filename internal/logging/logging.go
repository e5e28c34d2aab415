// Package logging wires the evaluator's structured events to
// logrus (SPEC_FULL.md §4.G), with a colorized text formatter that
// respects NO_COLOR the way the teacher's CLI color helpers do.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ANSI color codes used by the text formatter below.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// Colorize wraps text in an ANSI color code if useColor is true.
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + colorReset
}

// ShouldUseColor respects an explicit --no-color flag and the NO_COLOR
// environment variable convention before falling back to a TTY check.
func ShouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// New builds a logrus.Logger writing to out with the given colorized
// text formatter. level controls verbosity (e.g. logrus.InfoLevel).
func New(out io.Writer, useColor bool, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&textFormatter{useColor: useColor})
	return logger
}

// textFormatter renders one line per event: the message, colorized by
// level when useColor is set, followed by " key=value" for every field
// (path, event, ...) in map iteration order.
type textFormatter struct {
	useColor bool
}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	color := colorForLevel(entry.Level)
	line := Colorize(entry.Message, color, f.useColor)

	out := line
	for k, v := range entry.Data {
		out += " " + Colorize(k, colorGray, f.useColor) + "=" + toText(v)
	}
	out += "\n"
	return []byte(out), nil
}

func colorForLevel(level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	case logrus.WarnLevel:
		return colorYellow
	case logrus.InfoLevel:
		return colorBlue
	default:
		return colorGreen
	}
}

func toText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case error:
		return t.Error()
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// Event names logged at each evaluation step, as structured fields
// under the "event" key.
const (
	EventExec    = "exec"
	EventSet     = "set"
	EventDepends = "depends"
	EventParam   = "param"
	EventError   = "error"
	EventWarn    = "warn"
)

// Exec logs the start of an exec(...) statement.
func Exec(log *logrus.Logger, path, shell string) {
	log.WithFields(logrus.Fields{"event": EventExec, "path": path}).Info(shell)
}

// ExecResult logs the exit code an exec(...) statement produced.
func ExecResult(log *logrus.Logger, path string, exitCode int) {
	entry := log.WithFields(logrus.Fields{"event": EventExec, "path": path, "exit": exitCode})
	if exitCode == 0 {
		entry.Info("exec completed")
	} else {
		entry.Warn("exec failed")
	}
}

// Set logs a let binding.
func Set(log *logrus.Logger, path, name, value string) {
	log.WithFields(logrus.Fields{"event": EventSet, "path": path, "name": name}).Debug(value)
}

// Depends logs a depends statement resolving its dependency list.
func Depends(log *logrus.Logger, path string, names []string) {
	log.WithFields(logrus.Fields{"event": EventDepends, "path": path}).Info(strings.Join(names, ", "))
}

// Param logs a positional parameter binding. Missing or extra arguments
// are reported separately, through Warn.
func Param(log *logrus.Logger, path, name, value string) {
	log.WithFields(logrus.Fields{"event": EventParam, "path": path, "name": name}).Debug(value)
}

// Warn logs a non-fatal condition, such as an unbound variable
// reference or an extra argument.
func Warn(log *logrus.Logger, path, message string) {
	log.WithFields(logrus.Fields{"event": EventWarn, "path": path}).Warn(message)
}

// Error logs a fatal condition before the evaluator aborts.
func Error(log *logrus.Logger, path string, err error) {
	log.WithFields(logrus.Fields{"event": EventError, "path": path}).Error(err.Error())
}
