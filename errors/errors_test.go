package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		sentinel error
		status   int
		code     ErrorCode
	}{
		{entities.ErrAuth, http.StatusUnauthorized, ErrorCode_INTEGRATION_AUTH_FAILED},
		{entities.ErrUpstream, http.StatusBadGateway, ErrorCode_INTEGRATION_EXTERNAL_API_FAILED},
		{entities.ErrMalformedResponse, http.StatusBadGateway, ErrorCode_AI_MALFORMED_RESPONSE},
		{entities.ErrSchemaViolation, http.StatusBadGateway, ErrorCode_AI_SCHEMA_VIOLATION},
		{entities.ErrNotConfigured, http.StatusPreconditionFailed, ErrorCode_INTEGRATION_NOT_CONFIGURED},
		{entities.ErrNotFound, http.StatusNotFound, ErrorCode_NOT_FOUND},
		{entities.ErrAlreadySynced, http.StatusConflict, ErrorCode_TRANSCRIPT_ALREADY_SYNCED},
		{entities.ErrBelowMinimumDuration, http.StatusUnprocessableEntity, ErrorCode_TRANSCRIPT_TOO_SHORT},
		{entities.ErrInvalidInput, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT},
		{entities.ErrForbidden, http.StatusForbidden, ErrorCode_PERMISSION_DENIED},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("%w: context", tt.sentinel)
			got := FromDomain(wrapped)
			assert.Equal(t, tt.status, got.HTTPCode)
			assert.Equal(t, tt.code, got.Code)
			assert.True(t, stdErrors.Is(got, tt.sentinel))
		})
	}
}

func TestFromDomain_Passthrough(t *testing.T) {
	appErr := ErrInvalidSignature()
	assert.Equal(t, appErr.Code, FromDomain(fmt.Errorf("wrap: %w", appErr)).Code)

	internal := FromDomain(stdErrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPCode)
	assert.Equal(t, "INTERNAL", internal.Code.String())
}

func TestUpstreamWinsOverCause(t *testing.T) {
	// generator errors carry both the upstream sentinel and the provider cause
	err := fmt.Errorf("%w: generate: %w", entities.ErrUpstream, stdErrors.New("503"))
	assert.Equal(t, http.StatusBadGateway, FromDomain(err).HTTPCode)
}

func TestFromDomain_NotFoundNamesTheResource(t *testing.T) {
	member := FromDomain(fmt.Errorf("%w: team member 42", entities.ErrNotFound))
	assert.Equal(t, "team member 42 not found", member.Message)

	activity := FromDomain(fmt.Errorf("load: %w: activity data for the last 30 days", entities.ErrNotFound))
	assert.Equal(t, "activity data for the last 30 days not found", activity.Message)

	bare := FromDomain(entities.ErrNotFound)
	assert.Equal(t, "Resource not found", bare.Message)
}
