// Package pipeline sequences the playlist steps as a small finite-state machine.
//
// The machine starts at [Classify], routes to exactly one query node, then always visits
// [GenerateName] and [Describe] before reaching [End]:
//
//	classify ─┬─ query_general ─┐
//	          ├─ query_lyric ───┼─ generate_name ── describe ── end
//	          └─ query_tag ─────┘
//
// Outputs are merged into a [State] whose fields are written at most once. A node may only
// run once the fields it reads are present. The search query records which branch
// produced it.
//
// The [Driver] seeds a state per call, walks the machine and projects the final state into
// a [models.PlaylistPlan]. [Topology] exposes the same table as a graph for rendering.
package pipeline
