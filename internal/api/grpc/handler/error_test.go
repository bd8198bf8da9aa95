package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/archive"
	"github.com/dtroode/userindex/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
	}{
		{name: "invalid principal", in: fmt.Errorf("%w: %q", model.ErrInvalidPrincipal, "X"), wantCode: codes.InvalidArgument},
		{name: "invalid username", in: model.ErrInvalidUsername, wantCode: codes.InvalidArgument},
		{name: "invalid mode", in: model.ErrInvalidMode, wantCode: codes.InvalidArgument},
		{name: "not found", in: fmt.Errorf("owner x: %w", model.ErrNotFound), wantCode: codes.NotFound},
		{name: "no instance", in: model.ErrUserCanisterEntryDoesNotExist, wantCode: codes.NotFound},
		{name: "taken", in: model.ErrUsernameAlreadyTaken, wantCode: codes.AlreadyExists},
		{name: "denied", in: model.ErrPermissionDenied, wantCode: codes.PermissionDenied},
		{name: "spoofed source", in: model.ErrBackupSourceMismatch, wantCode: codes.PermissionDenied},
		{name: "missing config", in: model.ErrKnownPrincipalMissing, wantCode: codes.FailedPrecondition},
		{name: "upgrade running", in: model.ErrUpgradeInProgress, wantCode: codes.FailedPrecondition},
		{name: "corrupt archive", in: fmt.Errorf("open: %w", archive.ErrCorrupt), wantCode: codes.DataLoss},
		{name: "fleet unavailable", in: fmt.Errorf("failed to install code: %w", model.ErrFleetUnavailable), wantCode: codes.Unavailable},
		{name: "deadline", in: fmt.Errorf("call: %w", context.DeadlineExceeded), wantCode: codes.DeadlineExceeded},
		{name: "other", in: errors.New("boom"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st, ok := status.FromError(handleError(tt.in))
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
		})
	}
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	st, _ := status.FromError(handleError(errors.New("pq: password authentication failed")))
	assert.Equal(t, "internal server error", st.Message())
}
