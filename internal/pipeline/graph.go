package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
	"github.com/desertthunder/heydj/internal/steps"
)

// Node is a state of the pipeline machine.
type Node int

const (
	Classify Node = iota
	QueryGeneral
	QueryLyric
	QueryTag
	GenerateName
	Describe
	End
)

func (n Node) String() string {
	switch n {
	case Classify:
		return "classify"
	case QueryGeneral:
		return "query_general"
	case QueryLyric:
		return "query_lyric"
	case QueryTag:
		return "query_tag"
	case GenerateName:
		return "generate_name"
	case Describe:
		return "describe"
	case End:
		return "end"
	default:
		return ""
	}
}

// branches maps each route label to its query node.
var branches = map[models.RouteLabel]Node{
	models.SearchSongs:         QueryGeneral,
	models.SearchSongsByLyrics: QueryLyric,
	models.SearchSongsByTag:    QueryTag,
}

// transitions holds every unconditional edge. Classify is routed.
var transitions = map[Node]Node{
	QueryGeneral: GenerateName,
	QueryLyric:   GenerateName,
	QueryTag:     GenerateName,
	GenerateName: Describe,
	Describe:     End,
}

// nodeReads lists the state fields, beyond input, a node needs before it runs.
var nodeReads = map[Node][]string{
	Classify:     nil,
	QueryGeneral: {steps.FieldSearchFunction},
	QueryLyric:   {steps.FieldSearchFunction},
	QueryTag:     {steps.FieldSearchFunction},
	GenerateName: {steps.FieldSearchQuery},
	Describe:     {steps.FieldPlaylistName},
}

// label returns the route a query node serves.
func (n Node) label() (models.RouteLabel, bool) {
	for l, node := range branches {
		if node == n {
			return l, true
		}
	}
	return "", false
}

// RoutingError reports a classifier label outside the known set.
type RoutingError struct {
	Label string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("%v: unrecognized label %q", shared.ErrRouting, e.Label)
}

func (e *RoutingError) Unwrap() error {
	return shared.ErrRouting
}

// Router selects the query branch for a classifier label.
//
// Unknown labels fail with [*RoutingError] unless FallbackToTag is set, in which case
// they are sent to the tag branch.
type Router struct {
	FallbackToTag bool
	logger        *log.Logger
}

func NewRouter(fallbackToTag bool, logger *log.Logger) Router {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return Router{FallbackToTag: fallbackToTag, logger: logger}
}

// Route returns the query node and route label for raw.
func (r Router) Route(raw string) (Node, models.RouteLabel, error) {
	if label, ok := models.ParseRouteLabel(raw); ok {
		return branches[label], label, nil
	}

	if !r.FallbackToTag {
		return End, "", &RoutingError{Label: raw}
	}

	r.logger.Warn("unrecognized route label, falling back to tag search", "label", raw)
	return QueryTag, models.SearchSongsByTag, nil
}

// Next returns the node following n. Classify must go through [Router.Route].
func Next(n Node) (Node, error) {
	next, ok := transitions[n]
	if !ok {
		return End, fmt.Errorf("no unconditional transition from %s", n)
	}
	return next, nil
}
