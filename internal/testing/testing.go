// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/heydj/internal/services"
)

// ScriptedGenerator is a test double for [services.Generator].
//
// Responses and errors are keyed by step name; every call is recorded in order.
type ScriptedGenerator struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []services.Request
}

// NewScriptedGenerator returns a generator answering each step with responses[step].
func NewScriptedGenerator(responses map[string]string) *ScriptedGenerator {
	if responses == nil {
		responses = map[string]string{}
	}
	return &ScriptedGenerator{responses: responses, errs: map[string]error{}}
}

// Respond sets the raw text returned for step.
func (g *ScriptedGenerator) Respond(step, raw string) *ScriptedGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses[step] = raw
	return g
}

// Fail makes every call for step return err.
func (g *ScriptedGenerator) Fail(step string, err error) *ScriptedGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[step] = err
	return g
}

func (g *ScriptedGenerator) Generate(ctx context.Context, req services.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, req)

	if err, ok := g.errs[req.Step]; ok {
		return "", err
	}
	raw, ok := g.responses[req.Step]
	if !ok {
		return "", fmt.Errorf("no scripted response for step %s", req.Step)
	}
	return raw, nil
}

// Calls returns every recorded request in call order.
func (g *ScriptedGenerator) Calls() []services.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]services.Request(nil), g.calls...)
}

// Steps returns the step names of every recorded call in order.
func (g *ScriptedGenerator) Steps() []string {
	calls := g.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Step
	}
	return names
}

// CallCount returns how many times step was invoked.
func (g *ScriptedGenerator) CallCount(step string) int {
	n := 0
	for _, c := range g.Calls() {
		if c.Step == step {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request for step.
func (g *ScriptedGenerator) LastRequest(step string) (services.Request, bool) {
	calls := g.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Step == step {
			return calls[i], true
		}
	}
	return services.Request{}, false
}

// Field renders {"field": value} the way a well-behaved model would.
func Field(field, value string) string {
	data, err := json.Marshal(map[string]string{field: value})
	if err != nil {
		panic(err)
	}
	return string(data)
}

// PlanScript scripts every step of a pipeline run: the classifier returns route, all three
// query generators return query, and the name and description steps return name and desc.
func PlanScript(route, query, name, desc string) map[string]string {
	return map[string]string{
		"query_classifier":        Field("search_function", route),
		"search_query_generator":  Field("search_query", query),
		"lyric_query_generator":   Field("search_query", query),
		"tag_generator":           Field("search_query", query),
		"playlist_name_generator": Field("playlist_name", name),
		"description_generator":   Field("description", desc),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
