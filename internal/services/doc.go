// Package services defines the external capabilities the heydj pipeline consumes.
//
// # Text Generation
//
// Every pipeline step talks to a [Generator]. A [Request] carries the rendered prompt,
// the calling step's name and the temperature of its profile (decider or creative).
//
// [OpenAIGenerator] implements Generator with the openai-go chat completions API in
// JSON mode. It targets Groq by default and works with any OpenAI-compatible endpoint.
//
// [RateLimitedGenerator] decorates any Generator with a token-bucket limiter so that
// concurrent pipeline runs share one request budget.
//
// # Catalogs
//
// [Catalog] is the narrow interface through which a finished plan reaches a music
// service. [SearchTracks] maps a plan's route label onto the matching search
// operation and [PublishPlan] chains search and playlist creation.
//
// # Error Handling
//
//   - [*GenerationCallError] : the generation service failed, timed out or was throttled
//     out by a cancelled context; matches [shared.ErrGenerationCall]
//   - [shared.ErrMissingCredentials] : no API key in config or environment
//   - [shared.ErrRouting] : a plan carries an unknown route label
package services
