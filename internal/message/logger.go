package message

import (
	"fmt"
	"io"
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger receives the human-readable lines an operation produces. Every
// orchestrator run is handed one; nothing in the core writes to a global sink.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

type Level string

const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Console prints through the delightful terminal output and optionally
// mirrors every line to a log file.
type Console struct {
	file *log.Logger
}

// NewConsole returns a Console. w may be nil.
func NewConsole(w io.Writer) *Console {
	c := &Console{}
	if w != nil {
		c.file = log.New(w, "", log.LstdFlags)
	}
	return c
}

// OpenLogFile returns a size-rotated log file writer.
func OpenLogFile(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
	}
}

func (c *Console) mirror(level Level, format string, args []any) {
	if c.file == nil {
		return
	}
	c.file.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (c *Console) Debug(format string, args ...any) {
	Debug(format, args...)
	c.mirror(LevelDebug, format, args)
}

func (c *Console) Info(format string, args ...any) {
	Info(format, args...)
	c.mirror(LevelInfo, format, args)
}

func (c *Console) Success(format string, args ...any) {
	Success(format, args...)
	c.mirror(LevelSuccess, format, args)
}

func (c *Console) Warning(format string, args ...any) {
	Warning(format, args...)
	c.mirror(LevelWarning, format, args)
}

func (c *Console) Error(format string, args ...any) {
	Error(format, args...)
	c.mirror(LevelError, format, args)
}

// Entry is one recorded log line.
type Entry struct {
	Level Level
	Text  string
}

// Recorder keeps every line in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) add(level Level, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Text: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Debug(format string, args ...any)   { r.add(LevelDebug, format, args) }
func (r *Recorder) Info(format string, args ...any)    { r.add(LevelInfo, format, args) }
func (r *Recorder) Success(format string, args ...any) { r.add(LevelSuccess, format, args) }
func (r *Recorder) Warning(format string, args ...any) { r.add(LevelWarning, format, args) }
func (r *Recorder) Error(format string, args ...any)   { r.add(LevelError, format, args) }

// Entries returns a copy of the recorded lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Count returns how many lines were recorded at level.
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Func adapts a callback into a Logger.
type Func func(level Level, text string)

func (f Func) Debug(format string, args ...any)   { f(LevelDebug, fmt.Sprintf(format, args...)) }
func (f Func) Info(format string, args ...any)    { f(LevelInfo, fmt.Sprintf(format, args...)) }
func (f Func) Success(format string, args ...any) { f(LevelSuccess, fmt.Sprintf(format, args...)) }
func (f Func) Warning(format string, args ...any) { f(LevelWarning, fmt.Sprintf(format, args...)) }
func (f Func) Error(format string, args ...any)   { f(LevelError, fmt.Sprintf(format, args...)) }

// Log dispatches to the method of l matching level.
func Log(l Logger, level Level, format string, args ...any) {
	switch level {
	case LevelDebug:
		l.Debug(format, args...)
	case LevelSuccess:
		l.Success(format, args...)
	case LevelWarning:
		l.Warning(format, args...)
	case LevelError:
		l.Error(format, args...)
	default:
		l.Info(format, args...)
	}
}

// NewFileLogger writes lines to w only, in the same format Console mirrors.
func NewFileLogger(w io.Writer) Logger {
	file := log.New(w, "", log.LstdFlags)
	return Func(func(level Level, text string) {
		file.Printf("[%s] %s", level, text)
	})
}

// Nop discards everything.
var Nop Logger = Func(func(Level, string) {})
