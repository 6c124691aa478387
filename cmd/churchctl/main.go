// Command churchctl signs in to the church admin GraphQL API and runs
// queries with the stored session, refreshing the access token when the API
// reports it has expired.
//
// Commands:
//
//	login    Authenticate and save the session
//	logout   Revoke and clear the saved session
//	whoami   Show the signed in member and their dashboard
//	status   Show the saved session without calling the API
//	query    Execute a GraphQL query or mutation
package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "churchctl",
		Usage: "church admin GraphQL client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "GraphQL endpoint, overrides the ENV based choice",
				EnvVars: []string{"GRAPHQL_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "store",
				Usage:   "session store: memory, file or redis",
				EnvVars: []string{"TOKEN_STORE"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			statusCommand(),
			queryCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
