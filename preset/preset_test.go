package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePreset(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestManagerListFindSelect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(dir)

	names, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("List() on empty dir = %v, want empty", names)
	}

	writePreset(t, dir, "diary", "temperature: 0.9\n")
	writePreset(t, dir, "default", "temperature: 0.7\n")

	names, err = m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 || names[0] != "default" || names[1] != "diary" {
		t.Fatalf("List() = %v, want [default diary]", names)
	}

	if !m.Find("diary") {
		t.Fatalf("Find(diary) = false, want true")
	}
	if m.Find("ghost") {
		t.Fatalf("Find(ghost) = true, want false")
	}

	if err := m.Select("ghost"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("Select(ghost) error = %v, want ErrPresetNotFound", err)
	}
	if err := m.Select("diary"); err != nil {
		t.Fatalf("Select(diary) error = %v", err)
	}
	if got := m.SelectedName(); got != "diary" {
		t.Fatalf("SelectedName() = %q, want diary", got)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := m.SelectedName(); got != "" {
		t.Fatalf("SelectedName() after Clear() = %q, want empty", got)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
}

func TestManagerLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(dir)
	writePreset(t, dir, "diary", "temperature: 0.9\nmodel: gpt-4o\n")

	doc, err := m.Load("diary")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc["model"] != "gpt-4o" {
		t.Fatalf("Load() model = %v, want gpt-4o", doc["model"])
	}

	if _, err := m.Load("ghost"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("Load(ghost) error = %v, want ErrPresetNotFound", err)
	}
}

func TestSwitcherNoConfiguredPreset(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	s := &Switcher{Manager: m}
	switched, orig := s.SwitchToDiaryPreset()
	if switched || orig != "" {
		t.Fatalf("SwitchToDiaryPreset() = (%v, %q), want no-op", switched, orig)
	}
}

func TestSwitcherMissingPreset(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	s := &Switcher{Manager: m, DiaryPreset: "diary"}
	switched, _ := s.SwitchToDiaryPreset()
	if switched {
		t.Fatalf("SwitchToDiaryPreset() switched for missing preset")
	}
}

func TestSwitcherAlreadyActive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(dir)
	writePreset(t, dir, "diary", "a: 1\n")
	if err := m.Select("diary"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	s := &Switcher{Manager: m, DiaryPreset: "diary"}
	switched, _ := s.SwitchToDiaryPreset()
	if switched {
		t.Fatalf("SwitchToDiaryPreset() switched when already active")
	}
}

func TestSwitcherSwitchAndRestore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(dir)
	writePreset(t, dir, "diary", "a: 1\n")
	writePreset(t, dir, "default", "a: 2\n")
	if err := m.Select("default"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	s := &Switcher{Manager: m, DiaryPreset: "diary"}
	switched, orig := s.SwitchToDiaryPreset()
	if !switched {
		t.Fatalf("SwitchToDiaryPreset() = false, want switch")
	}
	if orig != "default" {
		t.Fatalf("SwitchToDiaryPreset() original = %q, want default", orig)
	}
	if got := m.SelectedName(); got != "diary" {
		t.Fatalf("SelectedName() after switch = %q, want diary", got)
	}

	s.RestoreOriginal(orig)
	if got := m.SelectedName(); got != "default" {
		t.Fatalf("SelectedName() after restore = %q, want default", got)
	}

	// Restoring a falsy or vanished name is a no-op.
	s.RestoreOriginal("")
	s.RestoreOriginal("ghost")
	if got := m.SelectedName(); got != "default" {
		t.Fatalf("SelectedName() after no-op restores = %q, want default", got)
	}
}

func TestScheduleRestoreFires(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(dir)
	writePreset(t, dir, "diary", "a: 1\n")
	writePreset(t, dir, "default", "a: 2\n")
	if err := m.Select("diary"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	s := &Switcher{Manager: m, DiaryPreset: "diary"}
	s.ScheduleRestore("default", 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.SelectedName() == "default" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("scheduled restore never fired, selected = %q", m.SelectedName())
}

func TestScheduleRestoreCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(dir)
	writePreset(t, dir, "diary", "a: 1\n")
	writePreset(t, dir, "default", "a: 2\n")
	if err := m.Select("diary"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	s := &Switcher{Manager: m, DiaryPreset: "diary"}
	h := s.ScheduleRestore("default", 50*time.Millisecond)
	if !h.Cancel() {
		t.Fatalf("Cancel() = false, want true before the timer fires")
	}
	if h.Cancel() {
		t.Fatalf("second Cancel() = true, want false")
	}

	time.Sleep(120 * time.Millisecond)
	if got := m.SelectedName(); got != "diary" {
		t.Fatalf("SelectedName() = %q, cancelled restore still ran", got)
	}
}
