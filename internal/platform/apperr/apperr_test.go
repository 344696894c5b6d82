// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/platform/apperr"
)

/*
TestAppError_Constructors verifies the code and status each kind is created with.
*/
func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Anime"), apperr.CodeNotFound, http.StatusNotFound},
		{"invalid_argument", apperr.InvalidArgument("Invalid name"), apperr.CodeInvalidArgument, http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("nope"), apperr.CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("nope"), apperr.CodeForbidden, http.StatusForbidden},
		{"storage", apperr.Storage(errors.New("conn reset")), apperr.CodeStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

/*
TestNotFound_Message checks the resource name is folded into the message.
*/
func TestNotFound_Message(t *testing.T) {
	assert.Equal(t, "Anime not found", apperr.NotFound("Anime").Error())
}

/*
TestHasCode_WrappedChain verifies tags survive fmt.Errorf wrapping.
*/
func TestHasCode_WrappedChain(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("saving: %w", apperr.Storage(cause))

	assert.True(t, apperr.HasCode(wrapped, apperr.CodeStorage))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
	assert.False(t, apperr.HasCode(cause, apperr.CodeStorage))

	// The driver error stays reachable through Unwrap.
	assert.ErrorIs(t, wrapped, cause)

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "A storage error occurred", ae.Message)
}
