package stats

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	statistics "github.com/julianstephens/studylit/internal/stats"
)

type StatsCmd struct {
	AsOf string `arg:"" name:"as-of" help:"Reference date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	today, err := ctx.ResolveDate(c.AsOf)
	if err != nil {
		return err
	}

	report, err := statistics.New(ctx.Store).Collect(ctx.UserID, today)
	if err != nil {
		return err
	}

	fmt.Print(report.Format())
	return nil
}
