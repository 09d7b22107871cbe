package cmd

import (
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/config"
	"github.com/urfave/cli/v2"
)

var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Run the vector index build service",
	Flags: flags,
	Action: func(ctx *cli.Context) error {
		return Serve()
	},
}

var flags = []cli.Flag{
	&cli.IntFlag{
		Name:        "port",
		Aliases:     []string{"p"},
		Value:       config.Port,
		Usage:       "Port to expose the build API on",
		EnvVars:     []string{"PORT"},
		Destination: &config.Port,
	},
	&cli.IntFlag{
		Name:        "max-workers",
		Value:       config.MaxWorkers,
		Usage:       "Number of worker goroutines in the build executor pool",
		EnvVars:     []string{"MAX_WORKERS"},
		Destination: &config.MaxWorkers,
	},
}
