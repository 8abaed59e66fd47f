package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/heydj/internal/formatter"
	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/pipeline"
	"github.com/desertthunder/heydj/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Generate runs the pipeline for one request and prints the plan.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	request := cmd.StringArg("request")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	markdown := cmd.Bool("markdown")
	outputFile := cmd.String("output")
	save := cmd.Bool("save")

	if err := requireArg("request", request); err != nil {
		return err
	}
	format, err := outputFormat(useJSON, markdown)
	if err != nil {
		return err
	}

	driver, err := r.pipeline(cmd)
	if err != nil {
		return err
	}

	progressCh := make(chan pipeline.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	plan, err := driver.Run(ctx, request, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if save {
		if err := r.savePlan(cmd, plan); err != nil {
			return err
		}
	}

	data, err := formatter.Render(plan, format, r.palette, pretty)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.logger.Info("plan written", "path", outputFile)
		return nil
	}

	return r.write(data)
}

func (r *Runner) savePlan(cmd *cli.Command, plan *models.PlaylistPlan) error {
	repo, err := r.plans(cmd)
	if err != nil {
		return err
	}

	record, err := repo.Create(*plan)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	r.logger.Info("plan saved", "id", record.ID, "sequence", record.Sequence)
	return nil
}

// BatchResult is the outcome of one request in a batch run.
// SaveError is set when the plan was generated but could not be stored.
type BatchResult struct {
	Request   string               `json:"request"`
	Plan      *models.PlaylistPlan `json:"plan,omitempty"`
	Error     string               `json:"error,omitempty"`
	SaveError string               `json:"save_error,omitempty"`
}

// Batch runs the pipeline for every request in a file with a bounded number of workers.
//
// A failing request does not stop the others; the command fails once all have finished.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	workers := cmd.Int("workers")
	useJSON := cmd.Bool("json")
	save := cmd.Bool("save")

	if workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1", shared.ErrInvalidArgument)
	}

	requests, err := readRequests(path)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("%w: %s contains no requests", shared.ErrInvalidInput, path)
	}

	driver, err := r.pipeline(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("starting batch", "requests", len(requests), "workers", workers)

	results := make([]BatchResult, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, request := range requests {
		g.Go(func() error {
			results[i].Request = request
			plan, err := driver.GeneratePlaylistPlan(gctx, request)
			if err != nil {
				r.logger.Warn("request failed", "request", request, "error", err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].Plan = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i := range results {
		res := &results[i]
		if res.Plan == nil {
			failed++
			continue
		}
		if save {
			if err := r.savePlan(cmd, res.Plan); err != nil {
				r.logger.Warn("save failed", "request", res.Request, "error", err)
				res.SaveError = err.Error()
				failed++
			}
		}
	}

	if useJSON {
		if err := r.writeJSON(results, true); err != nil {
			return err
		}
	} else if err := r.writeBatchText(results); err != nil {
		return err
	}

	r.logger.Info("batch complete", "succeeded", len(results)-failed, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBatchFailed, failed, len(results))
	}
	return nil
}

func (r *Runner) writeBatchText(results []BatchResult) error {
	for i, res := range results {
		if err := r.writePlain("%s %s\n", r.palette.Muted(fmt.Sprintf("[%d/%d]", i+1, len(results))), res.Request); err != nil {
			return err
		}
		if res.Plan == nil {
			if err := r.writePlain("%s\n\n", r.palette.Error("✗ "+res.Error)); err != nil {
				return err
			}
			continue
		}
		if err := r.write(formatter.ToText(res.Plan, r.palette)); err != nil {
			return err
		}
		if res.SaveError != "" {
			if err := r.writePlain("%s\n", r.palette.Warn("! "+res.SaveError)); err != nil {
				return err
			}
		}
		if err := r.writePlain("\n"); err != nil {
			return err
		}
	}
	return nil
}

// readRequests returns the non-blank, non-comment lines of path.
func readRequests(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open requests file: %w", err)
	}
	defer f.Close()

	var requests []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		requests = append(requests, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read requests file: %w", err)
	}
	return requests, nil
}
