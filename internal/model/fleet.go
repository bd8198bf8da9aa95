package model

import (
	"context"
	"math/big"
)

// InstallRequest describes one code installation on an instance.
type InstallRequest struct {
	Handle          InstanceHandle
	Owner           Principal
	Mode            InstallMode
	Version         uint64
	KnownPrincipals KnownPrincipalMap
}

// Deployer creates instances and installs code on them.
type Deployer interface {
	CreateInstance(ctx context.Context, owner Principal) (InstanceHandle, error)
	InstallCode(ctx context.Context, req InstallRequest) error
}

// InstanceClient moves state in and out of a running instance.
type InstanceClient interface {
	ExportState(ctx context.Context, handle InstanceHandle) ([]byte, error)
	RestoreState(ctx context.Context, handle InstanceHandle, payload []byte) error
}

// ResourceAccountant reports resource balances held by a principal.
type ResourceAccountant interface {
	Balance(ctx context.Context, principal Principal) (*big.Int, error)
}
