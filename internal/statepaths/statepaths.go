package statepaths

import (
	"path/filepath"

	"github.com/EtafCisky/sillytavernDIARY/internal/pathutil"
	"github.com/spf13/viper"
)

func StateDir() string {
	return pathutil.ResolveStateDir(viper.GetString("state_dir"))
}

func WorldbooksDir() string {
	return pathutil.ResolveStateChildDir(
		viper.GetString("state_dir"),
		viper.GetString("worldbook.dir_name"),
		"worldbooks",
	)
}

func ChatsDir() string {
	return pathutil.ResolveStateChildDir(
		viper.GetString("state_dir"),
		viper.GetString("chat.dir_name"),
		"chats",
	)
}

func PresetsDir() string {
	return pathutil.ResolveStateChildDir(
		viper.GetString("state_dir"),
		viper.GetString("preset.dir_name"),
		"presets",
	)
}

func LocksDir() string {
	return filepath.Join(StateDir(), ".locks")
}
