package mocks

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// UpgradeService is a testify mock for handler.UpgradeService.
type UpgradeService struct {
	mock.Mock
}

// Start provides a mock function with given fields: mode
func (_m *UpgradeService) Start(mode model.InstallMode) error {
	ret := _m.Called(mode)

	if len(ret) == 0 {
		panic("no return value specified for Start")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(model.InstallMode) error); ok {
		r0 = rf(mode)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// UpgradeOne provides a mock function with given fields: ctx, owner, handle, mode
func (_m *UpgradeService) UpgradeOne(ctx context.Context, owner model.Principal, handle model.Principal, mode model.InstallMode) string {
	ret := _m.Called(ctx, owner, handle, mode)

	if len(ret) == 0 {
		panic("no return value specified for UpgradeOne")
	}

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal, model.Principal, model.InstallMode) string); ok {
		r0 = rf(ctx, owner, handle, mode)
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// Status provides a mock function with given fields: ctx
func (_m *UpgradeService) Status(ctx context.Context) (model.UpgradeStatus, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Status")
	}

	var r0 model.UpgradeStatus
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (model.UpgradeStatus, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) model.UpgradeStatus); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(model.UpgradeStatus)
	}
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewUpgradeService creates a new instance of UpgradeService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUpgradeService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UpgradeService {
	mock := &UpgradeService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
