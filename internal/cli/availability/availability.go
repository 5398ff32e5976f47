package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

type AvailabilitySetCmd struct {
	Weekday string  `arg:"" help:"Day of week (e.g. monday, tue)."`
	Hours   float64 `arg:"" help:"Hours available for study on that day."`
}

func (c *AvailabilitySetCmd) Validate() error {
	if _, err := utils.ParseWeekday(c.Weekday); err != nil {
		return err
	}
	if c.Hours < 0 {
		return fmt.Errorf("hours must not be negative")
	}
	return nil
}

func (c *AvailabilitySetCmd) Run(ctx *cli.Context) error {
	weekday, err := utils.ParseWeekday(c.Weekday)
	if err != nil {
		return err
	}

	slots, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}

	found := false
	for i := range slots {
		if slots[i].Weekday == weekday {
			slots[i].Hours = c.Hours
			found = true
			break
		}
	}
	if !found {
		slots = append(slots, models.AvailabilitySlot{
			UserID:  ctx.UserID,
			Weekday: weekday,
			Hours:   c.Hours,
		})
	}

	if err := ctx.Store.SetAvailability(ctx.UserID, slots); err != nil {
		return err
	}

	fmt.Printf("Set %s availability to %s.\n", weekday, utils.FormatMinutes(int(c.Hours*60)))
	fmt.Println("Run 'studylit plan' to apply the change to the schedule.")
	return nil
}

type AvailabilityShowCmd struct{}

func (c *AvailabilityShowCmd) Run(ctx *cli.Context) error {
	slots, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}

	byDay := make(map[time.Weekday]float64, len(slots))
	for _, slot := range slots {
		byDay[slot.Weekday] = slot.Hours
	}

	fmt.Println("Weekly availability:")
	for day := time.Sunday; day <= time.Saturday; day++ {
		if hours, ok := byDay[day]; ok {
			fmt.Printf("  %-10s %s\n", day, utils.FormatMinutes(int(hours*60)))
		} else {
			fmt.Printf("  %-10s %s (default)\n", day, utils.FormatMinutes(int(constants.DefaultDailyHours*60)))
		}
	}
	return nil
}

type AvailabilityClearCmd struct {
	Weekday string `arg:"" optional:"" help:"Day of week to clear. Omit with --all to clear every day."`
	All     bool   `help:"Clear availability for all days."`
}

func (c *AvailabilityClearCmd) Validate() error {
	if c.All {
		if c.Weekday != "" {
			return fmt.Errorf("cannot combine a weekday with --all")
		}
		return nil
	}
	if c.Weekday == "" {
		return fmt.Errorf("specify a weekday or pass --all")
	}
	_, err := utils.ParseWeekday(c.Weekday)
	return err
}

func (c *AvailabilityClearCmd) Run(ctx *cli.Context) error {
	if c.All {
		if err := ctx.Store.ClearAvailability(ctx.UserID); err != nil {
			return err
		}
		fmt.Println("Cleared availability for all days. The planner will use the 2h default.")
		return nil
	}

	weekday, err := utils.ParseWeekday(c.Weekday)
	if err != nil {
		return err
	}

	slots, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}

	kept := slots[:0]
	for _, slot := range slots {
		if slot.Weekday != weekday {
			kept = append(kept, slot)
		}
	}
	if len(kept) == len(slots) {
		fmt.Printf("No explicit availability set for %s.\n", weekday)
		return nil
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Weekday < kept[j].Weekday })

	if err := ctx.Store.SetAvailability(ctx.UserID, kept); err != nil {
		return err
	}

	fmt.Printf("Cleared %s availability. The planner will use the 2h default.\n", weekday)
	return nil
}
