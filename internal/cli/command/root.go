package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/robojar/pumpd/internal/cli/connection"
	"github.com/robojar/pumpd/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "pumpctl",
		Usage:   "Send commands to a running pumpd",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SendCommand(),
			StartPumpCommand(),
			StopPumpCommand(),
			StatusCommand(),
			ShellCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "pumpd command address",
			EnvVars: []string{"PUMPCTL_SERVER"},
			Value:   connection.DefaultCommandAddr,
		},
		&cli.StringFlag{
			Name:    "status-addr",
			Usage:   "pumpd status endpoint address (server.http.addr)",
			EnvVars: []string{"PUMPCTL_STATUS_ADDR"},
			Value:   "127.0.0.1:9100",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "connect and write timeout",
			Value: 5 * time.Second,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server     string
	StatusAddr string
	Timeout    time.Duration
	Output     string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:     c.String("server"),
		StatusAddr: c.String("status-addr"),
		Timeout:    c.Duration("timeout"),
		Output:     c.String("output"),
	}
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
