package mocks

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// UsernameService is a testify mock for handler.UsernameService.
type UsernameService struct {
	mock.Mock
}

// IsTaken provides a mock function with given fields: ctx, name
func (_m *UsernameService) IsTaken(ctx context.Context, name string) (bool, error) {
	ret := _m.Called(ctx, name)

	if len(ret) == 0 {
		panic("no return value specified for IsTaken")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, name)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Get(0).(bool)
	}
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ResolveHandle provides a mock function with given fields: ctx, name
func (_m *UsernameService) ResolveHandle(ctx context.Context, name string) (model.Principal, bool, error) {
	ret := _m.Called(ctx, name)

	if len(ret) == 0 {
		panic("no return value specified for ResolveHandle")
	}

	var r0 model.Principal
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (model.Principal, bool, error)); ok {
		return rf(ctx, name)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) model.Principal); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Get(0).(model.Principal)
	}
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Get(1).(bool)
	}
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, name)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// Assign provides a mock function with given fields: ctx, name, principal, caller
func (_m *UsernameService) Assign(ctx context.Context, name string, principal model.Principal, caller model.Principal) error {
	ret := _m.Called(ctx, name, principal, caller)

	if len(ret) == 0 {
		panic("no return value specified for Assign")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, model.Principal, model.Principal) error); ok {
		r0 = rf(ctx, name, principal, caller)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewUsernameService creates a new instance of UsernameService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUsernameService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UsernameService {
	mock := &UsernameService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
