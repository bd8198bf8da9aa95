package fleet

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/userindex/internal/grpcx"
)

// ServiceName is the fleet controller's gRPC service.
const ServiceName = "fleet.v1.Controller"

type CreateInstanceRequest struct {
	Owner string `cbor:"owner"`
}

type CreateInstanceResponse struct {
	Handle string `cbor:"handle"`
}

type InstallCodeRequest struct {
	Handle          string            `cbor:"handle"`
	Owner           string            `cbor:"owner"`
	Mode            string            `cbor:"mode"`
	Version         uint64            `cbor:"version"`
	KnownPrincipals map[string]string `cbor:"known_principals,omitempty"`
}

type ExportStateRequest struct {
	Handle string `cbor:"handle"`
}

type ExportStateResponse struct {
	State []byte `cbor:"state"`
}

type RestoreStateRequest struct {
	Handle string `cbor:"handle"`
	State  []byte `cbor:"state"`
}

type BalanceRequest struct {
	Principal string `cbor:"principal"`
}

// BalanceResponse carries the balance as a base-10 integer.
type BalanceResponse struct {
	Balance string `cbor:"balance"`
}

type Empty struct{}

// ControllerServer is the fleet controller contract.
type ControllerServer interface {
	CreateInstance(context.Context, *CreateInstanceRequest) (*CreateInstanceResponse, error)
	InstallCode(context.Context, *InstallCodeRequest) (*Empty, error)
	ExportState(context.Context, *ExportStateRequest) (*ExportStateResponse, error)
	RestoreState(context.Context, *RestoreStateRequest) (*Empty, error)
	Balance(context.Context, *BalanceRequest) (*BalanceResponse, error)
}

// ServiceDesc describes ControllerServer for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControllerServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcx.Unary(ServiceName, "CreateInstance", ControllerServer.CreateInstance),
		grpcx.Unary(ServiceName, "InstallCode", ControllerServer.InstallCode),
		grpcx.Unary(ServiceName, "ExportState", ControllerServer.ExportState),
		grpcx.Unary(ServiceName, "RestoreState", ControllerServer.RestoreState),
		grpcx.Unary(ServiceName, "Balance", ControllerServer.Balance),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterControllerServer registers srv with s.
func RegisterControllerServer(s grpc.ServiceRegistrar, srv ControllerServer) {
	s.RegisterService(&ServiceDesc, srv)
}
