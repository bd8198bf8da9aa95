// Package indexrpc is the wire contract of the userindex.v1.UserIndex gRPC
// service. Messages are CBOR encoded.
package indexrpc

import "time"

type Empty struct{}

type IsUsernameTakenRequest struct {
	Name string `cbor:"name"`
}

type IsUsernameTakenResponse struct {
	Taken bool `cbor:"taken"`
}

type SweepFailure struct {
	Principal string `cbor:"principal"`
	Handle    string `cbor:"handle"`
	Context   string `cbor:"context"`
	Error     string `cbor:"error"`
}

type UpgradeStatus struct {
	Version         uint64         `cbor:"version"`
	LastRunAt       time.Time      `cbor:"last_run_at"`
	Mode            string         `cbor:"mode,omitempty"`
	Failed          []SweepFailure `cbor:"failed"`
	SuccessfulCount uint64         `cbor:"successful_count"`
}

type BackupStatus struct {
	Run             uint64         `cbor:"run"`
	RunID           string         `cbor:"run_id,omitempty"`
	LastRunAt       time.Time      `cbor:"last_run_at"`
	Failed          []SweepFailure `cbor:"failed"`
	SuccessfulCount uint64         `cbor:"successful_count"`
}

type GetOrCreateInstanceRequest struct {
	Referrer string `cbor:"referrer,omitempty"`
}

type InstanceResponse struct {
	Handle string `cbor:"handle"`
}

// OptionalInstanceResponse leaves Handle empty when Found is false.
type OptionalInstanceResponse struct {
	Found  bool   `cbor:"found"`
	Handle string `cbor:"handle,omitempty"`
}

type ResolveByUsernameRequest struct {
	Name string `cbor:"name"`
}

type ResolveByPrincipalRequest struct {
	Principal string `cbor:"principal"`
}

type FleetSizeResponse struct {
	Size uint64 `cbor:"size"`
}

// CycleBalanceResponse carries the balance as a base-10 integer.
type CycleBalanceResponse struct {
	Balance string `cbor:"balance"`
}

type KnownPrincipalRequest struct {
	Tag string `cbor:"tag"`
}

type KnownPrincipalResponse struct {
	Found     bool   `cbor:"found"`
	Principal string `cbor:"principal,omitempty"`
}

type RestoreFromBackupRequest struct {
	Source  string `cbor:"source"`
	Owner   string `cbor:"owner"`
	Payload []byte `cbor:"payload"`
}

type AssignUsernameRequest struct {
	Name      string `cbor:"name"`
	Principal string `cbor:"principal"`
}

// AssignUsernameError values are the business-rule rejections of
// AssignUsername.
type AssignUsernameError string

const (
	UsernameAlreadyTaken                      AssignUsernameError = "UsernameAlreadyTaken"
	SendingCanisterDoesNotMatchUserCanisterID AssignUsernameError = "SendingCanisterDoesNotMatchUserCanisterId"
	UserCanisterEntryDoesNotExist             AssignUsernameError = "UserCanisterEntryDoesNotExist"
)

// AssignUsernameResponse is Ok, or carries the rejection in Error.
type AssignUsernameResponse struct {
	Ok    bool                `cbor:"ok"`
	Error AssignUsernameError `cbor:"error,omitempty"`
}

type UpgradeOneRequest struct {
	Owner  string `cbor:"owner"`
	Handle string `cbor:"handle"`
	Mode   string `cbor:"mode,omitempty"`
}

type UpgradeOneResponse struct {
	Outcome string `cbor:"outcome"`
}

type UpgradeAllRequest struct {
	Mode string `cbor:"mode,omitempty"`
}

type RestoreFromArchiveRequest struct {
	Owner string `cbor:"owner"`
	RunID string `cbor:"run_id"`
}
