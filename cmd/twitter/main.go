package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "twitter: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "twitter"
	app.Usage = "Call Twitter REST endpoints with OAuth signed requests"
	app.Action = cli.ShowAppHelp
	app.Commands = []*cli.Command{
		{
			Action:      listEndpoints,
			Name:        "endpoints",
			Usage:       "List catalog endpoints",
			Category:    "Catalog",
			Description: `Prints every endpoint id with its verb, path template and event name.`,
		},
		{
			Action:      callEndpoint,
			Name:        "call",
			Usage:       "Invoke an endpoint and print the JSON result",
			ArgsUsage:   "<endpoint-id>",
			Category:    "API",
			Description: `Signs the request with the configured credentials and prints the decoded response.`,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "seg", Aliases: []string{"s"}, Usage: "path segment, repeat in template order"},
				&cli.StringSliceFlag{Name: "arg", Aliases: []string{"a"}, Usage: "positional argument, repeat in order"},
				&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "extra parameter as key=value"},
				&cli.StringFlag{Name: "get", Usage: "print only the value at this gjson path"},
				&cli.DurationFlag{Name: "timeout", Usage: "override request timeout"},
			},
		},
	}
	return app
}
