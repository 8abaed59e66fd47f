// Package steps defines the six text-generation steps of the heydj pipeline.
//
// A [Step] pairs a Go text/template instruction with a [contract.Schema]. Running a step
// renders the prompt, calls the profile's [services.Generator] exactly once and parses
// the raw text into a [contract.StepOutput].
//
// # Steps
//
//   - query_classifier : decides the route label (search_function), decider profile
//   - search_query_generator : general title/artist query (search_query)
//   - lyric_query_generator : shortest phrase expected verbatim in lyrics (search_query)
//   - tag_generator : single genre/mood/theme tag (search_query)
//   - playlist_name_generator : short evocative name from the request alone (playlist_name)
//   - description_generator : description consistent with request and name (description)
//
// The three query generators share one output contract so the name step never needs to
// know which branch ran.
//
// # Templates
//
// Built-in templates are embedded from prompts.toml; [LoadTemplates] overlays a user file.
// Templates are checked at construction: each must reference .Input, and only the
// description template may (and must) reference .PlaylistName, since no other step runs
// after the name is known.
package steps
