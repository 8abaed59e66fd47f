package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/heydj/internal/pipeline"
	"github.com/desertthunder/heydj/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config file populated with the built-in defaults.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	apiKey := cmd.String("api-key")
	force := cmd.Bool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: config file already exists at %s (use --force to overwrite)", shared.ErrInvalidArgument, path)
	}

	if apiKey == "" && !force {
		if err := shared.CreateConfigFile(path); err != nil {
			return err
		}
	} else {
		config := shared.DefaultConfig()
		config.LLM.APIKey = apiKey
		if err := shared.SaveConfig(path, config); err != nil {
			return err
		}
	}

	if apiKey == "" {
		r.logger.Info("no API key stored; set it in the file or export "+shared.APIKeyEnv, "path", path)
	}
	r.logger.Info("config file created", "path", path)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	if _, err := r.plans(cmd); err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// Graph prints the pipeline topology as DOT.
func (r *Runner) Graph(ctx context.Context, cmd *cli.Command) error {
	return pipeline.WriteDOT(r.output)
}
