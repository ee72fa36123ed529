// Package logbuf keeps the most recent log records in memory so a full-screen
// platform can show them without writing to the terminal it draws on.
package logbuf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is a single captured log record.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Buffer is a thread-safe ring of log entries.
type Buffer struct {
	entries []Entry
	size    int
	index   int
	count   int
	mutex   sync.RWMutex
}

// New creates a buffer holding up to size entries.
func New(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Add inserts an entry, overwriting the oldest once full.
func (b *Buffer) Add(entry Entry) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.entries[b.index] = entry
	b.index = (b.index + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Recent returns up to maxCount entries at or above minLevel, newest first.
// maxCount <= 0 returns all of them.
func (b *Buffer) Recent(maxCount int, minLevel slog.Level) []Entry {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	var result []Entry
	for i := 0; i < b.count; i++ {
		entry := b.entries[(b.index-1-i+b.size)%b.size]
		if entry.Level < minLevel {
			continue
		}
		result = append(result, entry)
		if maxCount > 0 && len(result) == maxCount {
			break
		}
	}
	return result
}

func (b *Buffer) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.count
}

func (b *Buffer) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.count = 0
	b.index = 0
}

// Handler is a slog.Handler writing into a Buffer. Attributes are flattened
// into the message as key=value pairs.
type Handler struct {
	buffer *Buffer
	level  slog.Leveler
	attrs  string
	group  string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler captures records at or above level. Pass a *slog.LevelVar to
// change the level while running.
func NewHandler(buffer *Buffer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{buffer: buffer, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.attrs)

	record.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, a)
		return true
	})

	h.buffer.Add(Entry{
		Time:    record.Time,
		Level:   record.Level,
		Message: sb.String(),
	})
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&sb, a)
	}

	clone := *h
	clone.attrs = sb.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group == "" {
		clone.group = name
	} else {
		clone.group += "." + name
	}
	return &clone
}

func (h *Handler) appendAttr(sb *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, a.Value.Resolve())
}

// Format renders an entry as a single display line.
func Format(entry Entry) string {
	levelStr := "???"
	switch {
	case entry.Level >= slog.LevelError:
		levelStr = "ERR"
	case entry.Level >= slog.LevelWarn:
		levelStr = "WRN"
	case entry.Level >= slog.LevelInfo:
		levelStr = "INF"
	case entry.Level >= slog.LevelDebug:
		levelStr = "DBG"
	}

	return fmt.Sprintf("%s [%s] %s", entry.Time.Format("15:04:05"), levelStr, entry.Message)
}

// StepLevel moves level one step towards more (+1) or less (-1) verbose
// output, bounded by Debug and Error.
func StepLevel(level slog.Level, direction int) slog.Level {
	switch {
	case direction > 0 && level > slog.LevelDebug:
		return level - 4
	case direction < 0 && level < slog.LevelError:
		return level + 4
	}
	return level
}
