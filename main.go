package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/schemaforge/internal/generate"
	"github.com/dtnitsch/schemaforge/pkg/db"
	"github.com/dtnitsch/schemaforge/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "schemaforge",
		Usage: "generate schema.org JSON-LD from web pages",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "fetch pages, normalize their content, and emit JSON-LD",
				Action: generate.GenerateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "urls",
						Usage: "comma-separated page URLs to process",
					},
					&cli.StringFlag{
						Name:  "files",
						Usage: "comma-separated local HTML files, paired positionally with --urls",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yaml",
						Usage: "path to yaml config file",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "number of concurrent workers",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory for generated JSON-LD files",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the results database",
					},
					&cli.StringFlag{
						Name:  "max-age",
						Value: "24h",
						Usage: "reuse cached markup younger than this duration",
					},
					&cli.BoolFlag{
						Name:  "force-fetch",
						Usage: "bypass the markup cache and refetch every URL",
					},
					&cli.BoolFlag{
						Name:  "script-tag",
						Usage: "emit an embeddable <script type=\"application/ld+json\"> tag instead of bare JSON",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "print a machine-readable quick start reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:   "history",
				Usage:  "list recent pipeline runs from the results database",
				Action: historyAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Value: db.DefaultDBName,
						Usage: "path to the results database",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to show",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func historyAction(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	counts, err := database.CountRunsByContentType()
	if err != nil {
		return err
	}

	output := struct {
		Runs         []db.RunRecord `json:"runs"`
		ContentTypes map[string]int `json:"content_types"`
	}{Runs: runs, ContentTypes: counts}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
