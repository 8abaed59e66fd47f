package models

import (
	"fmt"

	"github.com/desertthunder/heydj/internal/shared"
)

func errMissing(field string) error {
	return fmt.Errorf("%w: %s is required", shared.ErrInvalidInput, field)
}
