package models

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingChunkMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.ChunkMin); err != nil {
				return Settings{}, fmt.Errorf("parsing chunk_min: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingChunkMin: fmt.Sprintf("%d", settings.ChunkMin),
		constants.SettingTimezone: settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.ChunkMin == 0 {
		settings.ChunkMin = constants.DefaultChunkMin
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
