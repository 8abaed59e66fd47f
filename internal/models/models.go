// package models defines the data model shared by the pipeline, storage and CLI layers
package models

import (
	"time"
)

// RouteLabel is the classifier's decision selecting which query generation branch runs.
type RouteLabel string

const (
	SearchSongs         RouteLabel = "search_songs"
	SearchSongsByLyrics RouteLabel = "search_songs_by_lyrics"
	SearchSongsByTag    RouteLabel = "search_songs_by_tag"
)

// RouteLabels lists the known labels in classifier prompt order.
var RouteLabels = []RouteLabel{SearchSongs, SearchSongsByLyrics, SearchSongsByTag}

// ParseRouteLabel reports whether raw is exactly one of the known labels.
func ParseRouteLabel(raw string) (RouteLabel, bool) {
	for _, l := range RouteLabels {
		if string(l) == raw {
			return l, true
		}
	}
	return RouteLabel(raw), false
}

func (l RouteLabel) String() string { return string(l) }

// PlaylistPlan is the flat result of one pipeline run, ready for a catalog search and playlist creation.
type PlaylistPlan struct {
	Input          string `json:"input"`
	PlaylistName   string `json:"playlist_name"`
	Description    string `json:"description"`
	SearchFunction string `json:"search_function"`
	SearchQuery    string `json:"search_query"`
}

// PersistedPlan is a [PlaylistPlan] stored in plan history.
type PersistedPlan struct {
	ID        string       `json:"id"`
	Sequence  int          `json:"sequence"`
	Plan      PlaylistPlan `json:"plan"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks the record identity and the routed search function.
// Generated text fields may legitimately be empty and are not checked.
func (p *PersistedPlan) Validate() error {
	switch {
	case p.ID == "":
		return errMissing("id")
	case p.Sequence <= 0:
		return errMissing("sequence")
	case p.CreatedAt.IsZero():
		return errMissing("created_at")
	case p.Plan.SearchFunction == "":
		return errMissing("search_function")
	}
	return nil
}
