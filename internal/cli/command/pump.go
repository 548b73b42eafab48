package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/robojar/pumpd/internal/cli/connection"
	"github.com/robojar/pumpd/internal/core/domain"
)

// SendCommand sends arbitrary text, byte for byte.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send raw command text (no newline is added)",
		ArgsUsage: "TEXT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("send requires exactly one argument")
			}
			return send(c, c.Args().First())
		},
	}
}

// StartPumpCommand sends START_PUMP.
func StartPumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "start-pump",
		Usage: "Send " + string(domain.CommandStartPump),
		Action: func(c *cli.Context) error {
			return send(c, string(domain.CommandStartPump))
		},
	}
}

// StopPumpCommand sends STOP_PUMP.
func StopPumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "stop-pump",
		Usage: "Send " + string(domain.CommandStopPump),
		Action: func(c *cli.Context) error {
			return send(c, string(domain.CommandStopPump))
		},
	}
}

func send(c *cli.Context, text string) error {
	flags := ParseGlobalFlags(c)
	client := connection.NewCommandClient(flags.Server, flags.Timeout)

	if err := client.Send(c.Context, text); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "sent %q to %s\n", text, client.Addr())
	if !domain.Command(text).Known() {
		fmt.Fprintf(c.App.ErrWriter, "warning: %q is not a recognized command; pumpd will ignore it\n", text)
	}
	return nil
}
