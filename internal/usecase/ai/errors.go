package ai

import (
	"errors"
	"fmt"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// UpstreamError marks a generator failure as ErrUpstream while keeping the
// cause (including context errors) reachable through errors.Is.
func UpstreamError(err error) error {
	if err == nil || errors.Is(err, entities.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: generate: %w", entities.ErrUpstream, err)
}
