// Package models defines the domain types exchanged between heydj packages.
//
//   - [RouteLabel] : the classifier's three-way search strategy decision
//   - [PlaylistPlan] : the flat pipeline result (input, name, description, route, query)
//   - [PersistedPlan] : a plan stored in the local history database
//
// [ParseRouteLabel] is the single place where a raw classifier label is matched
// against the known variants; the pipeline router and the catalog dispatcher both use it.
package models
