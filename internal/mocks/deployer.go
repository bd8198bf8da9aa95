package mocks

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// Deployer is a testify mock for model.Deployer.
type Deployer struct {
	mock.Mock
}

// CreateInstance provides a mock function with given fields: ctx, owner
func (_m *Deployer) CreateInstance(ctx context.Context, owner model.Principal) (model.Principal, error) {
	ret := _m.Called(ctx, owner)

	if len(ret) == 0 {
		panic("no return value specified for CreateInstance")
	}

	var r0 model.Principal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) (model.Principal, error)); ok {
		return rf(ctx, owner)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) model.Principal); ok {
		r0 = rf(ctx, owner)
	} else {
		r0 = ret.Get(0).(model.Principal)
	}
	if rf, ok := ret.Get(1).(func(context.Context, model.Principal) error); ok {
		r1 = rf(ctx, owner)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// InstallCode provides a mock function with given fields: ctx, req
func (_m *Deployer) InstallCode(ctx context.Context, req model.InstallRequest) error {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for InstallCode")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.InstallRequest) error); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewDeployer creates a new instance of Deployer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDeployer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Deployer {
	mock := &Deployer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
