// Package feed implements the dashboard's append-only activity feed and the
// scroll viewport over it. All mutation happens on the TUI's update loop, so
// the feed carries no locking.
package feed

import "time"

// Level classifies one feed entry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelSuccess
	LevelSystem
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	case LevelSystem:
		return "system"
	default:
		return "unknown"
	}
}

// PageMultiple is how many single steps one page scroll covers.
const PageMultiple = 5

// Entry is one immutable feed line. Source names the agent that produced
// it, empty for general lines.
type Entry struct {
	Time    time.Time
	Level   Level
	Source  string
	Message string
}

// Feed is the append-only entry sequence plus the viewport cursor. Entries
// are kept for the process lifetime; the sequence only grows. While follow
// is set the window tracks the newest entries; otherwise offset is the
// absolute index of the first visible entry, counted from the oldest.
type Feed struct {
	entries []Entry
	offset  int
	follow  bool
}

// New returns an empty feed tracking the tail.
func New() *Feed {
	return &Feed{follow: true}
}

// Log appends a timestamped entry.
func (f *Feed) Log(level Level, source, message string) {
	f.Append(Entry{Time: time.Now(), Level: level, Source: source, Message: message})
}

// Append adds an entry to the end of the sequence.
func (f *Feed) Append(e Entry) {
	f.entries = append(f.entries, e)
}

// Len returns the number of entries.
func (f *Feed) Len() int {
	return len(f.entries)
}

// Following reports whether the viewport tracks the newest entries.
func (f *Feed) Following() bool {
	return f.follow
}

// maxStart is the largest valid window start for the given height.
func (f *Feed) maxStart(height int) int {
	if height <= 0 {
		return len(f.entries)
	}
	if len(f.entries) <= height {
		return 0
	}
	return len(f.entries) - height
}

// ScrollUp moves the window toward older entries. Leaving the tracking
// state starts from the tail's own start index, so the first step is a
// single step, never a jump.
func (f *Feed) ScrollUp(amount, height int) {
	if f.follow {
		f.offset = f.maxStart(height)
		f.follow = false
	}
	f.offset -= amount
	if f.offset < 0 {
		f.offset = 0
	}
}

// ScrollDown moves the window toward newer entries and resumes tracking
// once the tail is reached.
func (f *Feed) ScrollDown(amount, height int) {
	if f.follow {
		return
	}
	f.offset += amount
	if f.offset >= f.maxStart(height) {
		f.offset = 0
		f.follow = true
	}
}

// Top pins the window to the oldest entries.
func (f *Feed) Top() {
	f.offset = 0
	f.follow = false
}

// Follow resumes tail tracking.
func (f *Feed) Follow() {
	f.offset = 0
	f.follow = true
}

// Window returns the visible entries for a viewport of the given height.
func (f *Feed) Window(height int) []Entry {
	if height <= 0 || len(f.entries) == 0 {
		return nil
	}
	start := f.offset
	if f.follow {
		start = f.maxStart(height)
	} else if start > f.maxStart(height) {
		start = f.maxStart(height)
	}
	end := start + height
	if end > len(f.entries) {
		end = len(f.entries)
	}
	return f.entries[start:end]
}
