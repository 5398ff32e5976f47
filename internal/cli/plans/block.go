package plans

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
)

type BlockDoneCmd struct {
	ID   string `arg:"" help:"Study block ID to mark done."`
	Undo bool   `help:"Mark the block as not done instead."`
}

func (c *BlockDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetStudyBlockDone(ctx.UserID, c.ID, !c.Undo); err != nil {
		return err
	}

	if c.Undo {
		fmt.Printf("Marked block %s as not done.\n", c.ID)
	} else {
		fmt.Printf("Marked block %s as done.\n", c.ID)
	}
	return nil
}
