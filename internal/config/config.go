package config

import (
	"strings"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Scan
		Store
		Rescan
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Scan struct {
		RootDir          string // Library root containing book-sidecar folders
		MaxDepth         int
		Colors           []string // Allowed highlight colors; empty accepts all
		StatisticsDBPath string   // Optional statistics.sqlite3 for author lookups
	}
	Store struct {
		Path string
	}
	Rescan struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// parseColors splits a comma-separated color list, dropping blank entries.
func parseColors(raw string) []string {
	if raw == "" {
		return nil
	}
	var colors []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	return colors
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("scan_root_dir", "")
	v.SetDefault("scan_max_depth", DefaultMaxDepth)
	v.SetDefault("scan_colors", "")
	v.SetDefault("statistics_db_path", "")
	v.SetDefault("store_path", DefaultStorePath)
	v.SetDefault("rescan_enabled", false)
	v.SetDefault("rescan_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Scan: Scan{
			RootDir:          v.GetString("SCAN_ROOT_DIR"),
			MaxDepth:         v.GetInt("SCAN_MAX_DEPTH"),
			Colors:           parseColors(v.GetString("SCAN_COLORS")),
			StatisticsDBPath: v.GetString("STATISTICS_DB_PATH"),
		},
		Store: Store{
			Path: v.GetString("STORE_PATH"),
		},
		Rescan: Rescan{
			Enabled:  v.GetBool("RESCAN_ENABLED"),
			Schedule: v.GetString("RESCAN_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
