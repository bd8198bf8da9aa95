package indexrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/userindex/internal/grpcx"
)

// ServiceName is the gRPC service implemented by the index.
const ServiceName = "userindex.v1.UserIndex"

// UserIndexServer is the server API of the index.
type UserIndexServer interface {
	IsUsernameTaken(context.Context, *IsUsernameTakenRequest) (*IsUsernameTakenResponse, error)
	GetUpgradeStatus(context.Context, *Empty) (*UpgradeStatus, error)
	GetBackupStatus(context.Context, *Empty) (*BackupStatus, error)
	GetOrCreateInstance(context.Context, *GetOrCreateInstanceRequest) (*InstanceResponse, error)
	ResolveByUsername(context.Context, *ResolveByUsernameRequest) (*OptionalInstanceResponse, error)
	ResolveByPrincipal(context.Context, *ResolveByPrincipalRequest) (*OptionalInstanceResponse, error)
	FleetSize(context.Context, *Empty) (*FleetSizeResponse, error)
	CycleBalance(context.Context, *Empty) (*CycleBalanceResponse, error)
	KnownPrincipal(context.Context, *KnownPrincipalRequest) (*KnownPrincipalResponse, error)
	RestoreFromBackup(context.Context, *RestoreFromBackupRequest) (*Empty, error)
	AssignUsername(context.Context, *AssignUsernameRequest) (*AssignUsernameResponse, error)
	UpgradeOne(context.Context, *UpgradeOneRequest) (*UpgradeOneResponse, error)
	UpgradeAll(context.Context, *UpgradeAllRequest) (*Empty, error)
	BackupAll(context.Context, *Empty) (*Empty, error)
	RestoreFromArchive(context.Context, *RestoreFromArchiveRequest) (*Empty, error)
}

// Full method names, as seen by interceptors.
var (
	MethodIsUsernameTaken     = grpcx.FullMethod(ServiceName, "IsUsernameTaken")
	MethodGetUpgradeStatus    = grpcx.FullMethod(ServiceName, "GetUpgradeStatus")
	MethodGetBackupStatus     = grpcx.FullMethod(ServiceName, "GetBackupStatus")
	MethodGetOrCreateInstance = grpcx.FullMethod(ServiceName, "GetOrCreateInstance")
	MethodResolveByUsername   = grpcx.FullMethod(ServiceName, "ResolveByUsername")
	MethodResolveByPrincipal  = grpcx.FullMethod(ServiceName, "ResolveByPrincipal")
	MethodFleetSize           = grpcx.FullMethod(ServiceName, "FleetSize")
	MethodCycleBalance        = grpcx.FullMethod(ServiceName, "CycleBalance")
	MethodKnownPrincipal      = grpcx.FullMethod(ServiceName, "KnownPrincipal")
	MethodRestoreFromBackup   = grpcx.FullMethod(ServiceName, "RestoreFromBackup")
	MethodAssignUsername      = grpcx.FullMethod(ServiceName, "AssignUsername")
	MethodUpgradeOne          = grpcx.FullMethod(ServiceName, "UpgradeOne")
	MethodUpgradeAll          = grpcx.FullMethod(ServiceName, "UpgradeAll")
	MethodBackupAll           = grpcx.FullMethod(ServiceName, "BackupAll")
	MethodRestoreFromArchive  = grpcx.FullMethod(ServiceName, "RestoreFromArchive")
)

// PublicMethods need no bearer token.
var PublicMethods = map[string]struct{}{
	MethodIsUsernameTaken:    {},
	MethodGetUpgradeStatus:   {},
	MethodGetBackupStatus:    {},
	MethodResolveByUsername:  {},
	MethodResolveByPrincipal: {},
	MethodFleetSize:          {},
	MethodCycleBalance:       {},
	MethodKnownPrincipal:     {},
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserIndexServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcx.Unary(ServiceName, "IsUsernameTaken", UserIndexServer.IsUsernameTaken),
		grpcx.Unary(ServiceName, "GetUpgradeStatus", UserIndexServer.GetUpgradeStatus),
		grpcx.Unary(ServiceName, "GetBackupStatus", UserIndexServer.GetBackupStatus),
		grpcx.Unary(ServiceName, "GetOrCreateInstance", UserIndexServer.GetOrCreateInstance),
		grpcx.Unary(ServiceName, "ResolveByUsername", UserIndexServer.ResolveByUsername),
		grpcx.Unary(ServiceName, "ResolveByPrincipal", UserIndexServer.ResolveByPrincipal),
		grpcx.Unary(ServiceName, "FleetSize", UserIndexServer.FleetSize),
		grpcx.Unary(ServiceName, "CycleBalance", UserIndexServer.CycleBalance),
		grpcx.Unary(ServiceName, "KnownPrincipal", UserIndexServer.KnownPrincipal),
		grpcx.Unary(ServiceName, "RestoreFromBackup", UserIndexServer.RestoreFromBackup),
		grpcx.Unary(ServiceName, "AssignUsername", UserIndexServer.AssignUsername),
		grpcx.Unary(ServiceName, "UpgradeOne", UserIndexServer.UpgradeOne),
		grpcx.Unary(ServiceName, "UpgradeAll", UserIndexServer.UpgradeAll),
		grpcx.Unary(ServiceName, "BackupAll", UserIndexServer.BackupAll),
		grpcx.Unary(ServiceName, "RestoreFromArchive", UserIndexServer.RestoreFromArchive),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterUserIndexServer(s grpc.ServiceRegistrar, srv UserIndexServer) {
	s.RegisterService(&ServiceDesc, srv)
}
