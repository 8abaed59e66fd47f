package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/heydj/internal/formatter"
	"github.com/desertthunder/heydj/internal/pipeline"
	"github.com/desertthunder/heydj/internal/repositories"
	"github.com/desertthunder/heydj/internal/services"
	"github.com/desertthunder/heydj/internal/shared"
	"github.com/desertthunder/heydj/internal/steps"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The driver and database are built on first use from the loaded configuration.
type Runner struct {
	config    *shared.Config
	generator services.Generator
	db        *sql.DB
	logger    *log.Logger
	output    io.Writer
	palette   *formatter.Palette

	mu     sync.Mutex
	driver *pipeline.Driver
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Generator services.Generator // replaces the configured OpenAI-compatible client
	DB        *sql.DB
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:    opts.Config,
		generator: opts.Generator,
		db:        opts.DB,
		logger:    opts.Logger,
		output:    opts.Output,
		palette:   formatter.DefaultPalette,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		generateCommand, batchCommand, historyCommand, graphCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration once: an injected config wins, then the file named
// by --config, then the built-in defaults.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config != nil {
		return r.config, nil
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		r.config = shared.DefaultConfig()
		return r.config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.config = config
	return config, nil
}

// pipeline builds the generation profiles, step set and driver from config.
func (r *Runner) pipeline(cmd *cli.Command) (*pipeline.Driver, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.driver != nil {
		return r.driver, nil
	}

	gen := r.generator
	if gen == nil {
		client, err := services.NewOpenAIGenerator(config.LLM)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("using OpenAI-compatible endpoint", "base_url", config.LLM.BaseURL, "model", client.Model())
		gen = services.NewRateLimitedGenerator(client, config.LLM.RequestsPerSecond)
	}

	templates, err := steps.LoadTemplates(config.Prompts.Path)
	if err != nil {
		return nil, err
	}

	set, err := steps.NewSet(
		steps.Model{Generator: gen, Temperature: config.LLM.Decider.Temperature},
		steps.Model{Generator: gen, Temperature: config.LLM.Creative.Temperature},
		templates,
	)
	if err != nil {
		return nil, err
	}

	driver, err := pipeline.NewDriver(set, pipeline.Options{
		Logger:        r.logger,
		FallbackToTag: config.Routing.FallbackToTag,
	})
	if err != nil {
		return nil, err
	}

	r.driver = driver
	return driver, nil
}

// plans opens the configured database and returns the plan history repository.
func (r *Runner) plans(cmd *cli.Command) (*repositories.PlanRepository, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		db, err := shared.OpenDatabase(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
	}

	return repositories.NewPlanRepository(r.db), nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) write(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.ToJSON(data, pretty)
	if err != nil {
		return err
	}
	return r.write(output)
}

func (r *Runner) writePlain(format string, args ...any) error {
	return r.write([]byte(fmt.Sprintf(format, args...)))
}

// requireArg returns an ErrMissingArgument error naming arg when value is empty.
func requireArg(arg, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, arg)
	}
	return nil
}

// outputFormat maps the --json and --markdown flags to a render format.
func outputFormat(useJSON, markdown bool) (formatter.Format, error) {
	switch {
	case useJSON && markdown:
		return "", fmt.Errorf("%w: cannot specify both --json and --markdown", shared.ErrInvalidArgument)
	case useJSON:
		return formatter.JSON, nil
	case markdown:
		return formatter.Markdown, nil
	default:
		return formatter.Text, nil
	}
}

var errBatchFailed = errors.New("one or more requests failed")
