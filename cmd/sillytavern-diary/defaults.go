package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	viper.SetDefault("llm.endpoint", "https://api.openai.com")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.api_key", "")

	// Global
	viper.SetDefault("state_dir", "~/.sillytavern-diary")
	viper.SetDefault("chat.dir_name", "chats")
	viper.SetDefault("chat.session", "default")
	viper.SetDefault("worldbook.dir_name", "worldbooks")
	viper.SetDefault("preset.dir_name", "presets")

	// Diary flow
	viper.SetDefault("diary.preset", "")
	viper.SetDefault("diary.settle_delay", 500*time.Millisecond)
	viper.SetDefault("diary.restore_delay", 10*time.Second)

	// Automatic trigger
	viper.SetDefault("auto.interval", 5)
}
