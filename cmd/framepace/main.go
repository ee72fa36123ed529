package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		slog.Error("Error running framepace", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "framepace"
	app.Description = "A frame-paced particle demo running on the framepace loop"
	app.Usage = "framepace [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML config file",
		},
		cli.StringFlag{
			Name:  "platform",
			Usage: "Platform to run on: headless, terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to present in headless mode before exiting (0 = until interrupted)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "Target frame rate, overrides the config (-1 = config value, 0 = unlimited)",
			Value: -1,
		},
		cli.DurationFlag{
			Name:  "update-period",
			Usage: "Fixed simulation step, overrides the config",
		},
		cli.IntFlag{
			Name:  "max-ticks",
			Usage: "Maximum fixed steps per iteration, overrides the config (-1 = config value, 0 = no cap)",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error, overrides the config",
		},
		cli.StringFlag{
			Name:  "statsview",
			Usage: "Serve runtime charts on this address, e.g. localhost:18066",
		},
		cli.StringFlag{
			Name:   "sentry-dsn",
			Usage:  "Report loop failures to this Sentry DSN",
			EnvVar: "SENTRY_DSN",
		},
	}
	app.Action = runDemo
	return app
}
