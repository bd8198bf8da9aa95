package handler

import (
	"errors"

	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/model"
)

func convertFailures(failed []model.SweepFailure) []indexrpc.SweepFailure {
	out := make([]indexrpc.SweepFailure, 0, len(failed))
	for _, f := range failed {
		out = append(out, indexrpc.SweepFailure{
			Principal: f.Principal.String(),
			Handle:    f.Handle.String(),
			Context:   f.Context,
			Error:     f.Error,
		})
	}
	return out
}

func convertUpgradeStatus(st model.UpgradeStatus) *indexrpc.UpgradeStatus {
	return &indexrpc.UpgradeStatus{
		Version:         st.Version,
		LastRunAt:       st.LastRunAt,
		Mode:            string(st.Mode),
		Failed:          convertFailures(st.Failed),
		SuccessfulCount: st.SuccessfulCount,
	}
}

func convertBackupStatus(st model.BackupStatus) *indexrpc.BackupStatus {
	return &indexrpc.BackupStatus{
		Run:             st.Run,
		RunID:           st.RunID,
		LastRunAt:       st.LastRunAt,
		Failed:          convertFailures(st.Failed),
		SuccessfulCount: st.SuccessfulCount,
	}
}

func optionalInstance(handle model.InstanceHandle, ok bool) *indexrpc.OptionalInstanceResponse {
	if !ok {
		return &indexrpc.OptionalInstanceResponse{}
	}
	return &indexrpc.OptionalInstanceResponse{Found: true, Handle: handle.String()}
}

func assignRejection(err error) (indexrpc.AssignUsernameError, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, model.ErrUsernameAlreadyTaken):
		return indexrpc.UsernameAlreadyTaken, true
	case errors.Is(err, model.ErrSendingCanisterDoesNotMatchUserCanisterID):
		return indexrpc.SendingCanisterDoesNotMatchUserCanisterID, true
	case errors.Is(err, model.ErrUserCanisterEntryDoesNotExist):
		return indexrpc.UserCanisterEntryDoesNotExist, true
	default:
		return "", false
	}
}
