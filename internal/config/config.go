package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything the bot needs from the environment.
type Config struct {
	BotToken   string
	GatewayURL string
	APIBaseURL string

	GuildID            int64
	DirectoryChannelID int64
	DashboardChannelID int64

	StorePath string
	HTTPPort  string
}

// Load reads the environment. The token, guild and channel ids are
// mandatory; everything else has a default.
func Load() (Config, error) {
	cfg := Config{
		BotToken:   os.Getenv("BOT_TOKEN"),
		GatewayURL: os.Getenv("GATEWAY_URL"),
		APIBaseURL: os.Getenv("API_BASE_URL"),
		StorePath:  os.Getenv("STORE_PATH"),
		HTTPPort:   os.Getenv("PORT"),
	}
	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "data/directory.json"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}

	var err error
	if cfg.GuildID, err = requiredID("GUILD_ID"); err != nil {
		return Config{}, err
	}
	if cfg.DirectoryChannelID, err = requiredID("DIRECTORY_CHANNEL_ID"); err != nil {
		return Config{}, err
	}
	if cfg.DashboardChannelID, err = requiredID("DASHBOARD_CHANNEL_ID"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func requiredID(name string) (int64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a numeric id: %w", name, err)
	}
	return id, nil
}
