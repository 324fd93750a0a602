package preset

import (
	"log/slog"
	"sync"
	"time"
)

// RestoreDelay is how long after a successful generation the original preset
// is put back, so generation-time preset-dependent behavior can finish first.
const RestoreDelay = 10 * time.Second

// Switcher swaps the active preset to the configured diary preset and later
// restores the original. DiaryPreset empty means the feature is unconfigured
// and every switch is a no-op.
type Switcher struct {
	Manager     *Manager
	DiaryPreset string
	Log         *slog.Logger
}

// SwitchToDiaryPreset switches to the diary preset if one is configured,
// exists, and is not already active. It reports whether a switch happened and
// the preset to restore afterwards. Failures downgrade to "no switch".
func (s *Switcher) SwitchToDiaryPreset() (switched bool, originalPreset string) {
	if s == nil || s.Manager == nil {
		return false, ""
	}
	if s.DiaryPreset == "" {
		s.logDebug("preset_switch_skipped", "reason", "not_configured")
		return false, ""
	}
	current := s.Manager.SelectedName()
	if current == s.DiaryPreset {
		s.logDebug("preset_switch_skipped", "reason", "already_active")
		return false, ""
	}
	if !s.Manager.Find(s.DiaryPreset) {
		s.logWarn("preset_switch_skipped", "reason", "missing", "preset", s.DiaryPreset)
		return false, ""
	}
	if err := s.Manager.Select(s.DiaryPreset); err != nil {
		s.logWarn("preset_switch_failed", "error", err.Error())
		return false, ""
	}
	s.logInfo("preset_switched", "from", current, "to", s.DiaryPreset)
	return true, current
}

// RestoreOriginal puts the original preset back. No-op on an empty name or a
// name that no longer resolves to a preset.
func (s *Switcher) RestoreOriginal(originalPreset string) {
	if s == nil || s.Manager == nil || originalPreset == "" {
		return
	}
	if !s.Manager.Find(originalPreset) {
		s.logWarn("preset_restore_skipped", "reason", "missing", "preset", originalPreset)
		return
	}
	if err := s.Manager.Select(originalPreset); err != nil {
		s.logWarn("preset_restore_failed", "error", err.Error())
		return
	}
	s.logInfo("preset_restored", "preset", originalPreset)
}

// RestoreHandle is a scheduled restoration that a failure path can cancel
// instead of racing it.
type RestoreHandle struct {
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// ScheduleRestore arranges RestoreOriginal to run after delay. The returned
// handle cancels the pending restore; Cancel reports whether the restore had
// not fired yet.
func (s *Switcher) ScheduleRestore(originalPreset string, delay time.Duration) *RestoreHandle {
	h := &RestoreHandle{}
	h.timer = time.AfterFunc(delay, func() {
		h.mu.Lock()
		if h.done {
			h.mu.Unlock()
			return
		}
		h.done = true
		h.mu.Unlock()
		s.RestoreOriginal(originalPreset)
	})
	return h
}

func (h *RestoreHandle) Cancel() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	h.timer.Stop()
	return true
}

func (s *Switcher) logDebug(msg string, args ...any) {
	if s.Log != nil {
		s.Log.Debug(msg, args...)
	}
}

func (s *Switcher) logInfo(msg string, args ...any) {
	if s.Log != nil {
		s.Log.Info(msg, args...)
	}
}

func (s *Switcher) logWarn(msg string, args ...any) {
	if s.Log != nil {
		s.Log.Warn(msg, args...)
	}
}
