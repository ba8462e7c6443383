package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samvad-hq/twitter-client/internal/app"
	"github.com/samvad-hq/twitter-client/internal/config"
	"github.com/samvad-hq/twitter-client/internal/logger"
	"github.com/samvad-hq/twitter-client/pkg/twitter"
	"github.com/urfave/cli/v2"
)

func listEndpoints(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cat, err := loadCatalog(cfg.EndpointsFile)
	if err != nil {
		return err
	}
	return printCatalog(c.App.Writer, cat)
}

func loadCatalog(path string) (*twitter.Catalog, error) {
	if strings.TrimSpace(path) != "" {
		return twitter.LoadCatalog(path)
	}
	return twitter.DefaultCatalog()
}

func printCatalog(w io.Writer, cat *twitter.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tPATH\tEVENT\tARGS")
	for _, ep := range cat.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ep.ID, ep.Method, ep.Path, ep.Event, strings.Join(ep.Args, ","))
	}
	return tw.Flush()
}

func callEndpoint(c *cli.Context) error {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return cli.Exit("endpoint id is required", 2)
	}

	params, err := parseParams(c.StringSlice("param"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if d := c.Duration("timeout"); d > 0 {
		cfg.RequestTimeout = d
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	client, err := app.NewClient(cfg, log)
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	res := client.Do(ctx, id, twitter.Request{
		Segments: c.StringSlice("seg"),
		Args:     c.StringSlice("arg"),
		Params:   params,
	})
	return printResult(c.App.Writer, res, c.String("get"))
}

// parseParams turns key=value pairs into request params. Later keys win.
func parseParams(pairs []string) (twitter.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(twitter.Params, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("param %q must be key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

func printResult(w io.Writer, res twitter.Result, path string) error {
	if res.Err != nil {
		return fmt.Errorf("%s: %w", res.Event, res.Err)
	}
	if w == nil {
		w = os.Stdout
	}
	if path != "" {
		_, err := fmt.Fprintln(w, res.Get(path).String())
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Value)
}
