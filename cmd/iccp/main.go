//
//  Copyright © EduShield Inc. All rights reserved.
//

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/edushield/iccp/cmd/iccp/subcommands/decide"
	"github.com/edushield/iccp/cmd/iccp/subcommands/serve"
	"github.com/edushield/iccp/cmd/iccp/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "iccp",
		Usage: "A CLI application for working with the EduShield Institutional Context Control Plane",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Creates a decision-point service",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "The TCP port to serve on.",
						Value: 9000,
					},
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Load the resource catalog from `FILE` instead of the built-in university set.",
					},
				},
				Action: serve.Execute,
			},
			{
				Name:  "decide",
				Usage: "Evaluates a single request and prints the resulting context packet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Load the request expression from 'FILE', or use '-' for stdin",
					},
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Load the resource catalog from `FILE` instead of the built-in university set.",
					},
				},
				Action: decide.Execute,
			},
			{
				Name:  "version",
				Usage: "Prints the iccp version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(version.GetVersion())
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
