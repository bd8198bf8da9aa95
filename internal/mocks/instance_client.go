package mocks

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// InstanceClient is a testify mock for model.InstanceClient.
type InstanceClient struct {
	mock.Mock
}

// ExportState provides a mock function with given fields: ctx, handle
func (_m *InstanceClient) ExportState(ctx context.Context, handle model.Principal) ([]byte, error) {
	ret := _m.Called(ctx, handle)

	if len(ret) == 0 {
		panic("no return value specified for ExportState")
	}

	var r0 []byte
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) ([]byte, error)); ok {
		return rf(ctx, handle)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) []byte); ok {
		r0 = rf(ctx, handle)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}
	if rf, ok := ret.Get(1).(func(context.Context, model.Principal) error); ok {
		r1 = rf(ctx, handle)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RestoreState provides a mock function with given fields: ctx, handle, payload
func (_m *InstanceClient) RestoreState(ctx context.Context, handle model.Principal, payload []byte) error {
	ret := _m.Called(ctx, handle, payload)

	if len(ret) == 0 {
		panic("no return value specified for RestoreState")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal, []byte) error); ok {
		r0 = rf(ctx, handle, payload)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewInstanceClient creates a new instance of InstanceClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewInstanceClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *InstanceClient {
	mock := &InstanceClient{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
