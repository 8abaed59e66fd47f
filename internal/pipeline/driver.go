package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
	"github.com/desertthunder/heydj/internal/steps"
)

// Options configures a [Driver].
type Options struct {
	Logger        *log.Logger
	FallbackToTag bool // route unknown labels to the tag branch instead of failing
}

// Driver runs the pipeline. It holds no per-invocation state and is safe for concurrent use.
type Driver struct {
	steps  *steps.Set
	router Router
	logger *log.Logger
}

func NewDriver(set *steps.Set, opts Options) (*Driver, error) {
	if set == nil {
		return nil, errors.New("step set is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	return &Driver{
		steps:  set,
		router: NewRouter(opts.FallbackToTag, logger),
		logger: logger,
	}, nil
}

// GeneratePlaylistPlan turns a raw request into a complete plan.
func (d *Driver) GeneratePlaylistPlan(ctx context.Context, input string) (*models.PlaylistPlan, error) {
	return d.Run(ctx, input, nil)
}

// Run executes the pipeline from classification to the terminal node.
//
// Progress updates are sent without blocking. Any node error aborts the run and is
// returned unmodified; no partial plan is produced.
func (d *Driver) Run(ctx context.Context, input string, progress chan<- ProgressUpdate) (*models.PlaylistPlan, error) {
	logger := shared.WithLogger(d.logger, "run_id", shared.GenerateID())
	state := NewState(input)
	start := time.Now()

	node, step := Classify, 0
	for node != End {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		step++
		sendProgress(progress, nodeUpdate(node, step))
		logger.Debug("running node", "node", node, "step", step)

		next, err := d.exec(ctx, logger, node, state)
		if err != nil {
			logger.Error("pipeline failed", "node", node, "error", err)
			return nil, err
		}
		node = next
	}

	plan, err := state.Plan()
	if err != nil {
		return nil, err
	}

	logger.Info("plan generated", "search_function", plan.SearchFunction, "elapsed", time.Since(start))
	sendProgress(progress, completeUpdate(plan))
	return plan, nil
}

// exec runs node against state and returns the node to visit next.
func (d *Driver) exec(ctx context.Context, logger *log.Logger, node Node, state *State) (Node, error) {
	if err := state.Require(nodeReads[node]...); err != nil {
		return End, err
	}

	switch node {
	case Classify:
		out, err := d.steps.Classifier.Classify(ctx, state.Input())
		if err != nil {
			return End, err
		}
		if err := state.SetSearchFunction(out.Value()); err != nil {
			return End, err
		}

		next, label, err := d.router.Route(out.Value())
		if err != nil {
			return End, err
		}
		logger.Info("routed request", "search_function", out.Value(), "branch", label)
		return next, nil
	case QueryGeneral, QueryLyric, QueryTag:
		label, _ := node.label()
		step, ok := d.steps.Query(label)
		if !ok {
			return End, &RoutingError{Label: string(label)}
		}

		out, err := step.Run(ctx, steps.Vars{Input: state.Input()})
		if err != nil {
			return End, err
		}
		if err := state.SetSearchQuery(label, out.Value()); err != nil {
			return End, err
		}
	case GenerateName:
		out, err := d.steps.PlaylistName.Run(ctx, steps.Vars{Input: state.Input()})
		if err != nil {
			return End, err
		}
		if err := state.SetPlaylistName(out.Value()); err != nil {
			return End, err
		}
	case Describe:
		name, _ := state.PlaylistName()
		out, err := d.steps.Description.Run(ctx, steps.Vars{Input: state.Input(), PlaylistName: name})
		if err != nil {
			return End, err
		}
		if err := state.SetDescription(out.Value()); err != nil {
			return End, err
		}
	}

	return Next(node)
}
