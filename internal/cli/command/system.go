package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/robojar/pumpd/internal/cli/connection"
	"github.com/robojar/pumpd/internal/cli/output"
)

// StatusCommand reads the status endpoint.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show supervisor state from the status endpoint",
		Action: systemStatus,
	}
}

func systemStatus(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	health, err := connection.NewStatusClient(flags.StatusAddr).Health(ctx)
	if err != nil {
		return err
	}

	return output.NewFormatter(format).Format(c.App.Writer, health)
}
