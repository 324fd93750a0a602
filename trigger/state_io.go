package trigger

import (
	"fmt"

	"github.com/EtafCisky/sillytavernDIARY/chat"
)

// LoadState reads the trigger state from the session metadata. A session that
// never fired yields the zero state.
func LoadState(s *chat.Session) (State, error) {
	var st State
	if _, err := s.MetadataGet(MetadataKey, &st); err != nil {
		return State{}, fmt.Errorf("trigger: load state: %w", err)
	}
	return st, nil
}

// SaveState writes the trigger state into the session metadata and issues the
// explicit metadata save.
func SaveState(s *chat.Session, st State) error {
	if err := s.MetadataSet(MetadataKey, st); err != nil {
		return fmt.Errorf("trigger: save state: %w", err)
	}
	if err := s.SaveMetadata(); err != nil {
		return fmt.Errorf("trigger: save state: %w", err)
	}
	return nil
}
