package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/archive"
	"github.com/dtroode/userindex/internal/model"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidPrincipal),
		errors.Is(err, model.ErrInvalidUsername),
		errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, model.ErrInvalidRunID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrUserCanisterEntryDoesNotExist):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrUsernameAlreadyTaken),
		errors.Is(err, model.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrPermissionDenied),
		errors.Is(err, model.ErrBackupSourceMismatch),
		errors.Is(err, model.ErrSendingCanisterDoesNotMatchUserCanisterID):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, model.ErrKnownPrincipalMissing),
		errors.Is(err, model.ErrUpgradeInProgress),
		errors.Is(err, model.ErrBackupInProgress):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, archive.ErrCorrupt),
		errors.Is(err, archive.ErrUnsupportedVersion):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, model.ErrFleetUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
