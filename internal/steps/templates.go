package steps

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
)

//go:embed prompts.toml
var defaultPrompts []byte

// Templates maps step names to raw text/template sources.
type Templates map[Name]string

type promptEntry struct {
	Template string `toml:"template"`
}

// DefaultTemplates returns the built-in prompt templates.
func DefaultTemplates() Templates {
	t, err := decodeTemplates(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded prompts: %v", err))
	}
	return t
}

// LoadTemplates reads a prompts TOML file and overlays it on the built-in templates.
//
// An empty path returns the defaults unchanged. Unknown step names are rejected.
func LoadTemplates(path string) (Templates, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	overrides, err := decodeTemplates(data)
	if err != nil {
		return nil, err
	}

	for name, src := range overrides {
		templates[name] = src
	}
	return templates, nil
}

func decodeTemplates(data []byte) (Templates, error) {
	var raw map[string]promptEntry
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompts: %v", shared.ErrInvalidTemplate, err)
	}

	templates := make(Templates, len(raw))
	for key, entry := range raw {
		name := Name(key)
		if _, ok := stepReads[name]; !ok {
			return nil, fmt.Errorf("%w: unknown step %q", shared.ErrInvalidTemplate, key)
		}
		templates[name] = strings.TrimSpace(entry.Template)
	}
	return templates, nil
}

// Vars are the values a prompt template may reference.
type Vars struct {
	Input        string
	PlaylistName string
	Labels       []models.RouteLabel
	LabelHints   []string
}

var labelHints = map[models.RouteLabel]string{
	models.SearchSongs:         "1. The user wants songs by title or artist, or a general song search.",
	models.SearchSongsByLyrics: "2. The user wants songs based on their lyrics.",
	models.SearchSongsByTag:    "3. The user wants songs by a tag such as genre, mood or theme.",
}

func classifierVars(input string) Vars {
	hints := make([]string, len(models.RouteLabels))
	for i, l := range models.RouteLabels {
		hints[i] = labelHints[l]
	}
	return Vars{Input: input, Labels: models.RouteLabels, LabelHints: hints}
}

const (
	inputMarker = "\x00input\x00"
	nameMarker  = "\x00playlist_name\x00"
)

// compile parses src and checks that it reads exactly the state fields step is entitled to.
func compile(step Name, src string) (*template.Template, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: %s: empty template", shared.ErrInvalidTemplate, step)
	}

	tmpl, err := template.New(string(step)).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidTemplate, step, err)
	}

	probe := classifierVars(inputMarker)
	probe.PlaylistName = nameMarker

	var sb strings.Builder
	if err := tmpl.Execute(&sb, probe); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidTemplate, step, err)
	}
	out := sb.String()

	if !strings.Contains(out, inputMarker) {
		return nil, fmt.Errorf("%w: %s: template must reference .Input", shared.ErrInvalidTemplate, step)
	}

	readsName := stepReads[step].playlistName
	if readsName && !strings.Contains(out, nameMarker) {
		return nil, fmt.Errorf("%w: %s: template must reference .PlaylistName", shared.ErrInvalidTemplate, step)
	}
	if !readsName && strings.Contains(out, nameMarker) {
		return nil, fmt.Errorf("%w: %s: .PlaylistName is not available to this step", shared.ErrInvalidTemplate, step)
	}

	return tmpl, nil
}
