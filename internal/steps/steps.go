package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/desertthunder/heydj/internal/contract"
	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/services"
)

// Name identifies a step.
type Name string

const (
	QueryClassifier       Name = "query_classifier"
	SearchQueryGenerator  Name = "search_query_generator"
	LyricQueryGenerator   Name = "lyric_query_generator"
	TagGenerator          Name = "tag_generator"
	PlaylistNameGenerator Name = "playlist_name_generator"
	DescriptionGenerator  Name = "description_generator"
)

// Output fields
const (
	FieldSearchFunction = "search_function"
	FieldSearchQuery    = "search_query"
	FieldPlaylistName   = "playlist_name"
	FieldDescription    = "description"
)

type reads struct {
	playlistName bool
}

// stepReads lists, per step, the state fields beyond input its prompt may use.
var stepReads = map[Name]reads{
	QueryClassifier:       {},
	SearchQueryGenerator:  {},
	LyricQueryGenerator:   {},
	TagGenerator:          {},
	PlaylistNameGenerator: {},
	DescriptionGenerator:  {playlistName: true},
}

// Model is a generation profile: the shared capability plus the randomness setting a step uses.
type Model struct {
	Generator   services.Generator
	Temperature float64
}

// Step pairs an instruction template with the output contract it must satisfy.
type Step struct {
	name   Name
	schema contract.Schema
	model  Model
	tmpl   *template.Template
}

// NewStep compiles src for step name, producing output field.
func NewStep(name Name, field string, model Model, src string) (*Step, error) {
	if model.Generator == nil {
		return nil, fmt.Errorf("step %s: generator is required", name)
	}

	tmpl, err := compile(name, src)
	if err != nil {
		return nil, err
	}

	return &Step{name: name, schema: contract.NewSchema(field), model: model, tmpl: tmpl}, nil
}

func (s *Step) Name() Name { return s.name }

// OutputField is the single key the step's JSON output must carry.
func (s *Step) OutputField() string { return s.schema.Field }

// Temperature returns the randomness of the step's profile.
func (s *Step) Temperature() float64 { return s.model.Temperature }

// Render fills the step's template with v.
func (s *Step) Render(v Vars) (string, error) {
	var sb strings.Builder
	if err := s.tmpl.Execute(&sb, v); err != nil {
		return "", fmt.Errorf("step %s: failed to render prompt: %w", s.name, err)
	}
	return sb.String(), nil
}

// Run renders the prompt, calls the generator once and validates the output.
//
// Generator failures are reported as [*services.GenerationCallError], contract violations
// as [*contract.SchemaValidationError]. Nothing is retried.
func (s *Step) Run(ctx context.Context, v Vars) (contract.StepOutput, error) {
	prompt, err := s.Render(v)
	if err != nil {
		return contract.StepOutput{}, err
	}

	raw, err := s.model.Generator.Generate(ctx, services.Request{
		Step:        string(s.name),
		Prompt:      prompt,
		Temperature: s.model.Temperature,
	})
	if err != nil {
		var gce *services.GenerationCallError
		if errors.As(err, &gce) {
			return contract.StepOutput{}, err
		}
		return contract.StepOutput{}, &services.GenerationCallError{Step: string(s.name), Err: err}
	}

	return s.schema.Parse(string(s.name), raw)
}

// Classifier is the decision step producing a route label under field search_function.
type Classifier struct {
	*Step
}

// Classify runs the classifier on input. The label is returned as produced; the router interprets it.
func (c *Classifier) Classify(ctx context.Context, input string) (contract.StepOutput, error) {
	return c.Run(ctx, classifierVars(input))
}

// Set holds the six steps of the pipeline, built once at startup.
type Set struct {
	Classifier   *Classifier
	Queries      map[models.RouteLabel]*Step
	PlaylistName *Step
	Description  *Step
}

// NewSet builds every step. The classifier runs on decider, every other step on creative.
func NewSet(decider, creative Model, templates Templates) (*Set, error) {
	if templates == nil {
		templates = DefaultTemplates()
	}

	build := func(name Name, field string, model Model) (*Step, error) {
		src, ok := templates[name]
		if !ok {
			src = DefaultTemplates()[name]
		}
		return NewStep(name, field, model, src)
	}

	classifier, err := build(QueryClassifier, FieldSearchFunction, decider)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Classifier: &Classifier{Step: classifier},
		Queries:    make(map[models.RouteLabel]*Step, len(models.RouteLabels)),
	}

	queries := map[models.RouteLabel]Name{
		models.SearchSongs:         SearchQueryGenerator,
		models.SearchSongsByLyrics: LyricQueryGenerator,
		models.SearchSongsByTag:    TagGenerator,
	}
	for label, name := range queries {
		step, err := build(name, FieldSearchQuery, creative)
		if err != nil {
			return nil, err
		}
		set.Queries[label] = step
	}

	if set.PlaylistName, err = build(PlaylistNameGenerator, FieldPlaylistName, creative); err != nil {
		return nil, err
	}
	if set.Description, err = build(DescriptionGenerator, FieldDescription, creative); err != nil {
		return nil, err
	}

	return set, nil
}

// Query returns the query generation step for label.
func (s *Set) Query(label models.RouteLabel) (*Step, bool) {
	step, ok := s.Queries[label]
	return step, ok
}
