package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/desertthunder/heydj/internal/formatter"
	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/repositories"
	"github.com/urfave/cli/v3"
)

// HistoryList prints saved plans, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	repo, err := r.plans(cmd)
	if err != nil {
		return err
	}

	records, err := repo.List(limit)
	if err != nil {
		return err
	}

	if useJSON {
		if records == nil {
			records = []*models.PersistedPlan{}
		}
		return r.writeJSON(records, true)
	}
	return r.write(formatter.HistoryText(records, r.palette))
}

// HistoryShow prints one saved plan.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("plan")
	useJSON := cmd.Bool("json")
	markdown := cmd.Bool("markdown")

	if err := requireArg("plan", ref); err != nil {
		return err
	}
	format, err := outputFormat(useJSON, markdown)
	if err != nil {
		return err
	}

	repo, err := r.plans(cmd)
	if err != nil {
		return err
	}

	record, err := findPlan(repo, ref)
	if err != nil {
		return err
	}

	if format == formatter.JSON {
		return r.writeJSON(record, true)
	}
	if format == formatter.Text {
		if err := r.writePlain("%s %s\n", r.palette.Warn("#"+strconv.Itoa(record.Sequence)), r.palette.Muted(record.ID)); err != nil {
			return err
		}
	}

	data, err := formatter.Render(&record.Plan, format, r.palette, true)
	if err != nil {
		return err
	}
	return r.write(data)
}

// HistoryDelete removes one saved plan.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("plan")
	if err := requireArg("plan", ref); err != nil {
		return err
	}

	repo, err := r.plans(cmd)
	if err != nil {
		return err
	}

	record, err := findPlan(repo, ref)
	if err != nil {
		return err
	}

	if err := repo.Delete(record.ID); err != nil {
		return err
	}

	r.logger.Info("plan deleted", "id", record.ID, "sequence", record.Sequence)
	return nil
}

// findPlan resolves ref as a sequence number ("3" or "#3") or, failing that, an ID.
func findPlan(repo *repositories.PlanRepository, ref string) (*models.PersistedPlan, error) {
	if seq, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}
