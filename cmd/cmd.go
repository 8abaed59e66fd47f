// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// generateCommand runs the pipeline for a single request
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a playlist plan from a free-text request",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "request",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "markdown",
				Usage: "Output Markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the plan to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the plan to history",
			},
		},
		Action: r.Generate,
	}
}

// batchCommand runs the pipeline for every request in a file
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Generate plans for each line of a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "File with one request per line (blank lines and # comments are skipped)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Maximum concurrent pipeline runs",
				Value:   4,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output results as a JSON array",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save successful plans to history",
			},
		},
		Action: r.Batch,
	}
}

// historyCommand inspects saved plans
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse saved playlist plans",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved plans, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of plans to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a saved plan by ID or sequence number (e.g. 3 or #3)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "plan",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output Markdown",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved plan by ID or sequence number",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "plan",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// graphCommand prints the pipeline topology
func graphCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "graph",
		Usage:  "Print the pipeline graph in Graphviz DOT format",
		Action: r.Graph,
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "API key to store in the new file",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}
