// Package grpcx builds gRPC service descriptors for CBOR-encoded services
// without generated stubs.
package grpcx

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/userindex/internal/codec"
)

// Unary describes one unary method of a service implemented by S.
func Unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the "/service/method" form used on the wire.
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// CallOptions forces the CBOR codec on client calls.
func CallOptions() []grpc.CallOption {
	return []grpc.CallOption{grpc.CallContentSubtype(codec.Name)}
}

// Invoke performs a unary call with the CBOR codec.
func Invoke[Resp any](ctx context.Context, conn grpc.ClientConnInterface, fullMethod string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := conn.Invoke(ctx, fullMethod, req, out, append(CallOptions(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}
