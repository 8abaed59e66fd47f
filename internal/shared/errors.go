package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Pipeline errors
	ErrSchemaValidation = fmt.Errorf("step output failed schema validation")
	ErrGenerationCall   = fmt.Errorf("text generation call failed")
	ErrRouting          = fmt.Errorf("unrecognized route label")
	ErrStateConflict    = fmt.Errorf("pipeline state field already set")
	ErrStateIncomplete  = fmt.Errorf("pipeline state field not yet available")
	ErrInvalidTemplate  = fmt.Errorf("invalid prompt template")

	// Storage errors
	ErrPlanNotFound = fmt.Errorf("plan not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
