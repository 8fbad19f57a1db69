package message

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Info("hello %s", "world")
	r.Warning("careful")
	r.Error("broken: %v", 42)

	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Level: LevelInfo, Text: "hello world"}, entries[0])
	assert.Equal(t, LevelWarning, entries[1].Level)
	assert.Equal(t, "broken: 42", entries[2].Text)
	assert.Equal(t, 1, r.Count(LevelError))
	assert.Equal(t, 0, r.Count(LevelDebug))
}

func TestRecorder_Concurrent(t *testing.T) {
	r := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Info("line %d", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Entries(), 50)
}

func TestFunc(t *testing.T) {
	var got []Entry
	f := Func(func(level Level, text string) {
		got = append(got, Entry{Level: level, Text: text})
	})
	f.Success("done %d", 1)
	f.Debug("x")

	assert.Equal(t, []Entry{{LevelSuccess, "done 1"}, {LevelDebug, "x"}}, got)
}

func TestConsole_MirrorsToFile(t *testing.T) {
	SetSilentMode(true)
	defer SetSilentMode(false)

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Info("removed %s", "/tmp/x")
	c.Error("failed")

	out := buf.String()
	assert.True(t, strings.Contains(out, "[INFO] removed /tmp/x"), out)
	assert.True(t, strings.Contains(out, "[ERROR] failed"), out)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop.Info("ignored %d", 1)
		Nop.Error("ignored")
	})
}

func TestLog_DispatchesByLevel(t *testing.T) {
	r := &Recorder{}
	for _, level := range []Level{LevelDebug, LevelInfo, LevelSuccess, LevelWarning, LevelError} {
		Log(r, level, "%s line", level)
	}
	Log(r, Level("OTHER"), "fallback")

	entries := r.Entries()
	require.Len(t, entries, 6)
	assert.Equal(t, Entry{Level: LevelWarning, Text: "WARNING line"}, entries[3])
	assert.Equal(t, LevelInfo, entries[5].Level)
}

func TestNewFileLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Success("reset %s", "identity")

	assert.Contains(t, buf.String(), "[SUCCESS] reset identity")
}
