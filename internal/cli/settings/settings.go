package settings

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	ChunkMin *int    `help:"Nominal study block length in minutes (15-60)."`
	Timezone *string `help:"IANA timezone for resolving 'today' (e.g. Europe/London), or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Chunk Min:  %d\n", settings.ChunkMin)
		fmt.Printf("  Timezone:   %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.ChunkMin != nil {
		if *c.ChunkMin < constants.MinChunkMin || *c.ChunkMin > constants.MaxChunkMin {
			return fmt.Errorf("chunk-min must be between %d and %d minutes", constants.MinChunkMin, constants.MaxChunkMin)
		}
		settings.ChunkMin = *c.ChunkMin
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("unknown timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.SaveSettings(ctx.UserID, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	fmt.Println("Run 'studylit plan' to apply the change to the schedule.")

	return nil
}
