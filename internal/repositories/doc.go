// Package repositories implements SQLite persistence for generated playlist plans.
//
// [PlanRepository] stores every plan the CLI is asked to save, keyed by UUID and by a
// human-readable sequence number (plan #1, #2, ...). Only plans are stored; playlists
// themselves live in whatever catalog consumes the plan.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
