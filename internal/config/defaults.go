package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

const EnvPrefix = "REMINDERS_"

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"addr":                ":8080",
			"read_header_timeout": "10s",
			"shutdown_timeout":    "15s",
		},
		"cors": map[string]interface{}{
			"allowed_origins": []string{"http://localhost:3000", "http://localhost:5173"},
		},
		"app": map[string]interface{}{
			"timezone": "Local",
		},
		"jobs": map[string]interface{}{
			"stats_schedule": "@hourly",
		},
		"seed": map[string]interface{}{
			"count": 0,
		},
		"mcp": map[string]interface{}{
			"enabled": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
