package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
)

func TestApplyEventTracksCrates(t *testing.T) {
	m := NewProgressModel("build", []string{"core", "app"}, nil).(*progressModel)

	m.applyEvent(driver.Event{Crate: "core", Stage: driver.StageResolve, Status: driver.StatusWorking})
	if m.crates[0].status != "resolving" {
		t.Fatalf("status = %q", m.crates[0].status)
	}
	if got := m.percent(); got != 0.15 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(driver.Event{Crate: "core", Stage: driver.StageEmit, Status: driver.StatusDone, Elapsed: 1500 * time.Millisecond})
	m.applyEvent(driver.Event{Crate: "app", Stage: driver.StageGenerate, Status: driver.StatusError, Err: errors.New("boom")})
	m.applyEvent(driver.Event{Crate: "unknown", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v", got)
	}
	if m.crates[0].note != "1.5s" || m.crates[1].note != "boom" {
		t.Fatalf("unexpected notes %+v", m.crates)
	}

	m.done = true
	view := m.View()
	if !strings.Contains(view, "done: build") || !strings.Contains(view, "core  1.5s") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語x", 5); got != "日..." {
		t.Fatalf("truncate wide = %q", got)
	}
	if got := truncate("ok", 10); got != "ok" {
		t.Fatalf("truncate short = %q", got)
	}
}
