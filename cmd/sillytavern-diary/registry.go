package main

import (
	"log/slog"
	"path/filepath"

	"github.com/EtafCisky/sillytavernDIARY/chat"
	"github.com/EtafCisky/sillytavernDIARY/engine"
	"github.com/EtafCisky/sillytavernDIARY/internal/fsstore"
	"github.com/EtafCisky/sillytavernDIARY/internal/logutil"
	"github.com/EtafCisky/sillytavernDIARY/internal/statepaths"
	"github.com/EtafCisky/sillytavernDIARY/preset"
	"github.com/EtafCisky/sillytavernDIARY/providers/openai"
	"github.com/EtafCisky/sillytavernDIARY/worldbook"
	"github.com/spf13/viper"
)

func loggerFromViper() (*slog.Logger, error) {
	return logutil.LoggerFromViper()
}

func sessionFromViper() (*chat.Session, error) {
	return chat.OpenNamed(statepaths.ChatsDir(), viper.GetString("chat.session"))
}

func booksFromViper() *worldbook.Store {
	return worldbook.NewStore(statepaths.WorldbooksDir(), statepaths.LocksDir())
}

func presetManagerFromViper() *preset.Manager {
	return preset.NewManager(statepaths.PresetsDir())
}

func switcherFromViper(log *slog.Logger) *preset.Switcher {
	return &preset.Switcher{
		Manager:     presetManagerFromViper(),
		DiaryPreset: viper.GetString("diary.preset"),
		Log:         log,
	}
}

func clientFromViper() *openai.Client {
	return openai.New(viper.GetString("llm.endpoint"), viper.GetString("llm.api_key"))
}

func engineFromViper() (*engine.Engine, *chat.Session, error) {
	log, err := loggerFromViper()
	if err != nil {
		return nil, nil, err
	}
	session, err := sessionFromViper()
	if err != nil {
		return nil, nil, err
	}
	e := engine.New(log, session, booksFromViper(), switcherFromViper(log), clientFromViper(), viper.GetString("llm.model"))
	if d := viper.GetDuration("diary.settle_delay"); d > 0 {
		e.SettleDelay = d
	}
	if d := viper.GetDuration("diary.restore_delay"); d > 0 {
		e.RestoreDelay = d
	}
	return e, session, nil
}

// autoSettings is the persisted automatic-diary switch, shared by serve and
// the auto subcommands. It lives beside the chat/worldbook/preset dirs so a
// running daemon picks up changes on its next tick.
type autoSettings struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval"`
}

func autoSettingsPath() string {
	return filepath.Join(statepaths.StateDir(), "auto.json")
}

func loadAutoSettings() (autoSettings, error) {
	var s autoSettings
	if _, err := fsstore.ReadJSON(autoSettingsPath(), &s); err != nil {
		return autoSettings{}, err
	}
	return s, nil
}

func saveAutoSettings(s autoSettings) error {
	return fsstore.WriteJSONAtomic(autoSettingsPath(), s, fsstore.FileOptions{})
}

// effectiveInterval folds the enabled switch into the gate's single knob.
func (s autoSettings) effectiveInterval() int {
	if !s.Enabled {
		return 0
	}
	return s.Interval
}
