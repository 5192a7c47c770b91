package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/cobwalk-go/config"
	"github.com/masmgr/cobwalk-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "cobwalk",
		Usage:   "Read collaborative object history and the patch and inbox cache",
		Version: "0.3.0",
		Commands: []*cli.Command{
			ActionsCmd(),
			PatchesCmd(),
			CountsCmd(),
			InboxCmd(),
			ConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the SQLite cache",
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Directory holding the repositories",
			},
			&cli.IntFlag{
				Name:  "busy-timeout",
				Usage: "Milliseconds to wait for a locked cache",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
	}
}

// Common output flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ndjson)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of results to show (0 for all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// repoFlag is the repository id flag of single-repository commands.
func repoFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "repo",
		Aliases:  []string{"r"},
		Usage:    "Repository id (rad:...)",
		Required: true,
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ndjson", "jsonl":
		return output.FormatNDJSON
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file, environment and global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply overrides from CLI
	if db := c.String("db"); db != "" {
		cfg.Storage.Database = db
	}
	if storage := c.String("storage"); storage != "" {
		cfg.Storage.Root = storage
	}
	if ms := c.Int("busy-timeout"); ms > 0 {
		cfg.Storage.BusyTimeoutMS = ms
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
