package pipeline

import (
	"fmt"

	"github.com/desertthunder/heydj/internal/models"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number
	Total   int    // Total steps in a run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Pipeline phase enumeration
type Phase int

const (
	ClassifyPhase Phase = iota
	QueryPhase
	NamePhase
	DescribePhase
	CompletePhase
)

// totalSteps is the number of generation steps every successful run performs.
const totalSteps = 4

func (p Phase) String() string {
	switch p {
	case ClassifyPhase:
		return "classify"
	case QueryPhase:
		return "query"
	case NamePhase:
		return "name"
	case DescribePhase:
		return "describe"
	case CompletePhase:
		return "complete"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
//
// A nil channel or a full buffer drops the update.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func nodeUpdate(n Node, step int) ProgressUpdate {
	switch n {
	case Classify:
		return ProgressUpdate{Phase: ClassifyPhase, Step: step, Total: totalSteps, Message: "Classifying request..."}
	case QueryGeneral, QueryLyric, QueryTag:
		label, _ := n.label()
		return ProgressUpdate{
			Phase:   QueryPhase,
			Step:    step,
			Total:   totalSteps,
			Message: fmt.Sprintf("Generating %s query...", label),
			Data:    label,
		}
	case GenerateName:
		return ProgressUpdate{Phase: NamePhase, Step: step, Total: totalSteps, Message: "Naming playlist..."}
	default:
		return ProgressUpdate{Phase: DescribePhase, Step: step, Total: totalSteps, Message: "Writing description..."}
	}
}

func completeUpdate(plan *models.PlaylistPlan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompletePhase,
		Step:    totalSteps,
		Total:   totalSteps,
		Message: fmt.Sprintf("Plan ready: %s", plan.PlaylistName),
		Data:    plan,
	}
}
