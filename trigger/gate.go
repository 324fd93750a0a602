// Package trigger decides when an automatic diary cycle fires, from a
// monotonic message counter and a wall-clock cooldown.
package trigger

import "time"

const (
	// MetadataKey is where the per-conversation trigger state lives inside
	// the chat metadata area.
	MetadataKey = "sillytavernDIARY"

	// CooldownWindow is the minimum wall-clock gap between automatic fires,
	// independent of message count.
	CooldownWindow = 10 * time.Minute

	// TickInterval is how often the daemon evaluates the gate.
	TickInterval = 3 * time.Second
)

// State is the per-conversation bookkeeping, persisted in chat metadata.
// LastTriggerTime == 0 means never fired; the cooldown does not apply.
type State struct {
	LastTriggerFloor int    `json:"lastTriggerFloor"`
	CharacterName    string `json:"characterName"`
	LastTriggerTime  int64  `json:"lastTriggerTime"`
}

// Config is the global automatic-diary setting. Interval <= 0 disables the
// feature.
type Config struct {
	Interval int
}

// Decision is one tick's verdict. When Fire is set, Floor carries the message
// count captured at fire time; the floor advances to it only after the write
// sequence succeeds.
type Decision struct {
	Fire   bool
	Reason string
	Floor  int
}

// Gate evaluates the trigger condition on periodic ticks. The zero value is
// ready to use; Now is overridable for tests.
type Gate struct {
	Now            func() time.Time
	lastCheckedLen int
}

func NewGate() *Gate {
	return &Gate{Now: time.Now}
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Check runs one tick. Ticks are skipped while the host is mid-generation and
// when the message count has not moved since the last tick.
func (g *Gate) Check(cfg Config, st State, messageCount int, generating bool) Decision {
	if generating {
		return Decision{Reason: "generating"}
	}
	if messageCount == g.lastCheckedLen {
		return Decision{Reason: "unchanged"}
	}
	g.lastCheckedLen = messageCount

	if cfg.Interval <= 0 {
		return Decision{Reason: "disabled"}
	}

	if st.LastTriggerTime > 0 {
		since := g.now().Sub(time.UnixMilli(st.LastTriggerTime))
		if since < CooldownWindow {
			return Decision{Reason: "cooling"}
		}
	}

	if messageCount-st.LastTriggerFloor < cfg.Interval {
		return Decision{Reason: "armed"}
	}

	return Decision{Fire: true, Reason: "ready", Floor: messageCount}
}

// Stamp records the fire time, opening the cooldown window. Callers stamp
// before running the write sequence so overlapping ticks cannot double-fire.
func (g *Gate) Stamp(st *State) {
	st.LastTriggerTime = g.now().UnixMilli()
}

// Enable resets the state when automatic mode is (re)enabled or its interval
// changes: the first interval is measured from this moment, and the cooldown
// is cleared.
func Enable(st *State, characterName string, messageCount int) {
	st.LastTriggerFloor = messageCount
	st.CharacterName = characterName
	st.LastTriggerTime = 0
}

// AdvanceFloor moves the trigger floor to the count captured at fire time,
// called only after the diary was persisted. The fire timestamp set by Stamp
// is left untouched.
func AdvanceFloor(st *State, characterName string, floor int) {
	st.LastTriggerFloor = floor
	st.CharacterName = characterName
}
