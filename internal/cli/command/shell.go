package command

import (
	"github.com/urfave/cli/v2"

	"github.com/robojar/pumpd/internal/cli/connection"
	"github.com/robojar/pumpd/internal/cli/repl"
)

// ShellCommand starts the interactive shell.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive mode: each line is sent as one command",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "where to keep shell history (empty to disable)",
				Value: repl.DefaultHistoryFile(),
			},
		},
		Action: func(c *cli.Context) error {
			flags := ParseGlobalFlags(c)
			client := connection.NewCommandClient(flags.Server, flags.Timeout)

			r := repl.New(client,
				repl.WithIO(c.App.Reader, c.App.Writer),
				repl.WithHistory(repl.NewHistory(c.String("history-file"))),
			)
			return r.Run(c.Context)
		},
	}
}
