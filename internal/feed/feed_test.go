package feed

import (
	"fmt"
	"testing"
)

func fill(f *Feed, n int) {
	for i := 0; i < n; i++ {
		f.Log(LevelInfo, "", fmt.Sprintf("line %d", i))
	}
}

func TestWindowTracksTail(t *testing.T) {
	f := New()
	fill(f, 20)

	win := f.Window(5)
	if len(win) != 5 {
		t.Fatalf("Window(5) returned %d entries, want 5", len(win))
	}
	if win[0].Message != "line 15" || win[4].Message != "line 19" {
		t.Errorf("Window(5) = [%s .. %s], want [line 15 .. line 19]", win[0].Message, win[4].Message)
	}
	if !f.Following() {
		t.Error("Following() = false after appends with no scroll, want true")
	}
}

func TestWindowShorterThanHeight(t *testing.T) {
	f := New()
	fill(f, 3)

	win := f.Window(10)
	if len(win) != 3 {
		t.Errorf("Window(10) returned %d entries, want 3", len(win))
	}
	if win[0].Message != "line 0" {
		t.Errorf("Window(10)[0] = %q, want %q", win[0].Message, "line 0")
	}
}

func TestScrollUpStepsFromTail(t *testing.T) {
	f := New()
	fill(f, 20)

	// Tail start for height 5 is 15; one step up lands at 14.
	f.ScrollUp(1, 5)
	if f.Following() {
		t.Fatal("Following() = true after ScrollUp, want false")
	}
	win := f.Window(5)
	if win[0].Message != "line 14" {
		t.Errorf("Window(5)[0] = %q after one ScrollUp, want %q", win[0].Message, "line 14")
	}
}

func TestScrollUpClampsAtTop(t *testing.T) {
	f := New()
	fill(f, 10)

	f.ScrollUp(100, 5)
	win := f.Window(5)
	if win[0].Message != "line 0" {
		t.Errorf("Window(5)[0] = %q after large ScrollUp, want %q", win[0].Message, "line 0")
	}
}

func TestScrollDownSnapsToTracking(t *testing.T) {
	f := New()
	fill(f, 20)

	f.ScrollUp(100, 5) // to the top
	for i := 0; i < 50; i++ {
		f.ScrollDown(1, 5)
	}
	if !f.Following() {
		t.Error("Following() = false after scrolling past the tail, want true")
	}
	win := f.Window(5)
	if win[4].Message != "line 19" {
		t.Errorf("Window(5) last = %q, want %q", win[4].Message, "line 19")
	}
}

func TestScrollDownWhileFollowingIsNoop(t *testing.T) {
	f := New()
	fill(f, 20)

	f.ScrollDown(3, 5)
	if !f.Following() {
		t.Error("Following() = false after ScrollDown in tracking state, want true")
	}
}

func TestPageIsFiveSteps(t *testing.T) {
	f := New()
	fill(f, 30)

	f.ScrollUp(PageMultiple, 5)
	win := f.Window(5)
	// Tail start is 25; one page up lands at 20.
	if win[0].Message != "line 20" {
		t.Errorf("Window(5)[0] = %q after page up, want %q", win[0].Message, "line 20")
	}
}

func TestTopAndFollow(t *testing.T) {
	f := New()
	fill(f, 20)

	f.Top()
	if f.Following() {
		t.Error("Following() = true after Top, want false")
	}
	if win := f.Window(5); win[0].Message != "line 0" {
		t.Errorf("Window(5)[0] = %q after Top, want %q", win[0].Message, "line 0")
	}

	f.Follow()
	if !f.Following() {
		t.Error("Following() = false after Follow, want true")
	}
	if win := f.Window(5); win[0].Message != "line 15" {
		t.Errorf("Window(5)[0] = %q after Follow, want %q", win[0].Message, "line 15")
	}
}

func TestFollowTracksNewAppends(t *testing.T) {
	f := New()
	fill(f, 10)

	f.ScrollUp(2, 5)
	fill(f, 5) // arrivals while pinned must not move the window
	win := f.Window(5)
	if win[0].Message != "line 3" {
		t.Errorf("Window(5)[0] = %q while pinned, want %q", win[0].Message, "line 3")
	}

	f.Follow()
	win = f.Window(5)
	if win[4].Message != "line 14" {
		t.Errorf("Window(5) last = %q after Follow, want %q", win[4].Message, "line 14")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelSuccess, "success"},
		{LevelSystem, "system"},
		{Level(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
