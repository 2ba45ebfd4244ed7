// neoctl submits a single hazard prediction from the command line.
//
// Usage:
//
//	neoctl predict --id 3542519
//	neoctl predict --absolute-magnitude 22.1 --diameter-min 0.09 --diameter-max 0.2 \
//	    --relative-velocity 53000 --miss-distance 41000000
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "neoctl",
		Usage:   "Classify near-Earth objects as hazardous or not",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Value:   "https://neo-api-wm2r.onrender.com",
				Usage:   "Classifier base URL",
				EnvVars: []string{"CLASSIFIER_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   0,
				Usage:   "Classifier request timeout (0 uses the client default)",
				EnvVars: []string{"CLASSIFIER_TIMEOUT"},
			},
		},
		Commands: []*cli.Command{
			predictCommand(),
		},
	}
}
