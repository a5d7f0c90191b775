package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port                     string `mapstructure:"PORT"`
	DatabasePath             string `mapstructure:"DATABASE_PATH"`
	UploadDir                string `mapstructure:"UPLOAD_DIR"`
	EnableCORS               bool   `mapstructure:"ENABLE_CORS"`
	ValidateDateOnUpdate     bool   `mapstructure:"VALIDATE_DATE_ON_UPDATE"`
	DiscordBotToken          string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordAnnounceChannelID string `mapstructure:"DISCORD_ANNOUNCE_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "community.db")
	viper.SetDefault("UPLOAD_DIR", "uploads/events")

	viper.BindEnv("ENABLE_CORS")
	// Re-checking the event date on update is a pending product decision;
	// the original behavior (off) is the default.
	viper.BindEnv("VALIDATE_DATE_ON_UPDATE")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_ANNOUNCE_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config into struct")
	}

	return &config
}
