// Package chat is the conversation store: an ordered, append-only-by-default
// message list plus a per-conversation metadata area with an explicit save,
// persisted as one JSON document per session.
package chat

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/EtafCisky/sillytavernDIARY/internal/fsstore"
)

// UserName is the speaker tag for synthetic and real user messages.
const UserName = "User"

// UnknownCharacter is the fallback author tag when a session never named its
// character.
const UnknownCharacter = "Unknown"

type Message struct {
	Name     string `json:"name"`
	IsUser   bool   `json:"is_user"`
	Mes      string `json:"mes"`
	SendDate int64  `json:"send_date"`
}

type document struct {
	CharacterName string                     `json:"character_name,omitempty"`
	Messages      []Message                  `json:"messages"`
	Metadata      map[string]json.RawMessage `json:"metadata,omitempty"`
}

// Session is a single conversation. All mutating operations persist the whole
// document immediately; metadata changes wait for an explicit SaveMetadata.
type Session struct {
	path string
	doc  document
	Now  func() time.Time
}

// Open loads the session document at path, initializing an empty one when the
// file does not exist yet.
func Open(path string) (*Session, error) {
	s := &Session{path: path, Now: time.Now}
	if _, err := fsstore.ReadJSON(path, &s.doc); err != nil {
		return nil, fmt.Errorf("chat: open session: %w", err)
	}
	if s.doc.Messages == nil {
		s.doc.Messages = []Message{}
	}
	if s.doc.Metadata == nil {
		s.doc.Metadata = map[string]json.RawMessage{}
	}
	return s, nil
}

// OpenNamed opens the session called name inside dir.
func OpenNamed(dir, name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	return Open(filepath.Join(dir, name+".json"))
}

// Reload re-reads the document from disk, dropping unsaved metadata edits.
func (s *Session) Reload() error {
	fresh, err := Open(s.path)
	if err != nil {
		return err
	}
	fresh.Now = s.Now
	*s = *fresh
	return nil
}

func (s *Session) save() error {
	return fsstore.WriteJSONAtomic(s.path, s.doc, fsstore.FileOptions{})
}

func (s *Session) Len() int {
	return len(s.doc.Messages)
}

// Latest returns the most recent message.
func (s *Session) Latest() (Message, bool) {
	if len(s.doc.Messages) == 0 {
		return Message{}, false
	}
	return s.doc.Messages[len(s.doc.Messages)-1], true
}

// Messages returns a copy of the full ordered message list.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.doc.Messages))
	copy(out, s.doc.Messages)
	return out
}

// CharacterName returns the session's character, UnknownCharacter when unset.
func (s *Session) CharacterName() string {
	name := strings.TrimSpace(s.doc.CharacterName)
	if name == "" {
		return UnknownCharacter
	}
	return name
}

func (s *Session) SetCharacterName(name string) error {
	s.doc.CharacterName = strings.TrimSpace(name)
	return s.save()
}

// AppendUser appends a user-authored message and persists the session.
func (s *Session) AppendUser(text string) error {
	return s.append(Message{Name: UserName, IsUser: true, Mes: text})
}

// AppendCharacter appends a model-authored message and persists the session.
func (s *Session) AppendCharacter(text string) error {
	return s.append(Message{Name: s.CharacterName(), IsUser: false, Mes: text})
}

func (s *Session) append(m Message) error {
	m.SendDate = s.Now().UnixMilli()
	s.doc.Messages = append(s.doc.Messages, m)
	return s.save()
}

// DeleteRecent removes up to n of the most recent messages and persists the
// session, returning how many were actually removed.
func (s *Session) DeleteRecent(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if n > len(s.doc.Messages) {
		n = len(s.doc.Messages)
	}
	if n == 0 {
		return 0, nil
	}
	s.doc.Messages = s.doc.Messages[:len(s.doc.Messages)-n]
	if err := s.save(); err != nil {
		return 0, err
	}
	return n, nil
}

// MetadataGet decodes the metadata value stored under key into out.
func (s *Session) MetadataGet(key string, out any) (bool, error) {
	raw, ok := s.doc.Metadata[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("chat: decode metadata %q: %w", key, err)
	}
	return true, nil
}

// MetadataSet stores a value under key in memory. SaveMetadata persists it.
func (s *Session) MetadataSet(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("chat: encode metadata %q: %w", key, err)
	}
	s.doc.Metadata[key] = raw
	return nil
}

// SaveMetadata is the explicit save call for the metadata area. It writes the
// whole document, messages included.
func (s *Session) SaveMetadata() error {
	return s.save()
}
