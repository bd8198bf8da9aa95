package mocks

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// RegistryService is a testify mock for handler.RegistryService.
type RegistryService struct {
	mock.Mock
}

// Lookup provides a mock function with given fields: ctx, principal
func (_m *RegistryService) Lookup(ctx context.Context, principal model.Principal) (model.Principal, bool, error) {
	ret := _m.Called(ctx, principal)

	if len(ret) == 0 {
		panic("no return value specified for Lookup")
	}

	var r0 model.Principal
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) (model.Principal, bool, error)); ok {
		return rf(ctx, principal)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) model.Principal); ok {
		r0 = rf(ctx, principal)
	} else {
		r0 = ret.Get(0).(model.Principal)
	}
	if rf, ok := ret.Get(1).(func(context.Context, model.Principal) bool); ok {
		r1 = rf(ctx, principal)
	} else {
		r1 = ret.Get(1).(bool)
	}
	if rf, ok := ret.Get(2).(func(context.Context, model.Principal) error); ok {
		r2 = rf(ctx, principal)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// GetOrCreate provides a mock function with given fields: ctx, principal, referrer
func (_m *RegistryService) GetOrCreate(ctx context.Context, principal model.Principal, referrer *model.Principal) (model.Principal, error) {
	ret := _m.Called(ctx, principal, referrer)

	if len(ret) == 0 {
		panic("no return value specified for GetOrCreate")
	}

	var r0 model.Principal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal, *model.Principal) (model.Principal, error)); ok {
		return rf(ctx, principal, referrer)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal, *model.Principal) model.Principal); ok {
		r0 = rf(ctx, principal, referrer)
	} else {
		r0 = ret.Get(0).(model.Principal)
	}
	if rf, ok := ret.Get(1).(func(context.Context, model.Principal, *model.Principal) error); ok {
		r1 = rf(ctx, principal, referrer)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Count provides a mock function with given fields: ctx
func (_m *RegistryService) Count(ctx context.Context) (uint64, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Count")
	}

	var r0 uint64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (uint64, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) uint64); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(uint64)
	}
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewRegistryService creates a new instance of RegistryService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRegistryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *RegistryService {
	mock := &RegistryService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
