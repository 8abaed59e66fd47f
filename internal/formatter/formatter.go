// package formatter renders playlist plans as styled text, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/heydj/internal/models"
)

// Format selects an output rendering.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Render formats plan. The palette is only used for [Text]
// and pretty only for [JSON].
func Render(plan *models.PlaylistPlan, f Format, p *Palette, pretty bool) ([]byte, error) {
	switch f {
	case Markdown:
		return ToMarkdown(plan), nil
	case JSON:
		return ToJSON(plan, pretty)
	default:
		return ToText(plan, p), nil
	}
}

// ToText renders the plan as name, then description,
// then the search the catalog should run.
func ToText(plan *models.PlaylistPlan, p *Palette) []byte {
	if p == nil {
		p = DefaultPalette
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s\n", p.Title("Playlist Name:"), plan.PlaylistName)
	fmt.Fprintf(&buf, "%s %s\n", p.Title("Description:"), plan.Description)
	fmt.Fprintf(&buf, "%s %s %s\n",
		p.Muted("Search:"), p.Success(plan.SearchFunction), p.Muted(fmt.Sprintf("%q", plan.SearchQuery)))
	return buf.Bytes()
}

// ToMarkdown converts a plan to a Markdown document
func ToMarkdown(plan *models.PlaylistPlan) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", plan.PlaylistName)
	if plan.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", plan.Description)
	}

	buf.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&buf, "| Request | %s |\n", escapeCell(plan.Input))
	fmt.Fprintf(&buf, "| Search function | `%s` |\n", plan.SearchFunction)
	fmt.Fprintf(&buf, "| Search query | %s |\n", escapeCell(plan.SearchQuery))

	return buf.Bytes()
}

// ToJSON encodes v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// HistoryText lists saved plans, one per line, newest first as given.
func HistoryText(records []*models.PersistedPlan, p *Palette) []byte {
	if p == nil {
		p = DefaultPalette
	}

	var buf bytes.Buffer
	if len(records) == 0 {
		buf.WriteString(p.Muted("No saved plans.") + "\n")
		return buf.Bytes()
	}

	for _, r := range records {
		fmt.Fprintf(&buf, "%s %s %s %s\n",
			p.Warn(fmt.Sprintf("#%-4d", r.Sequence)),
			p.Title(r.Plan.PlaylistName),
			p.Muted(fmt.Sprintf("[%s]", r.Plan.SearchFunction)),
			p.Muted(r.CreatedAt.Local().Format("2006-01-02 15:04")),
		)
	}
	return buf.Bytes()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
