package mocks

import (
	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// AccessService is a testify mock for handler.AccessService.
type AccessService struct {
	mock.Mock
}

// KnownPrincipal provides a mock function with given fields: tag
func (_m *AccessService) KnownPrincipal(tag model.KnownPrincipalType) (model.Principal, bool) {
	ret := _m.Called(tag)

	if len(ret) == 0 {
		panic("no return value specified for KnownPrincipal")
	}

	var r0 model.Principal
	var r1 bool
	if rf, ok := ret.Get(0).(func(model.KnownPrincipalType) (model.Principal, bool)); ok {
		return rf(tag)
	}
	if rf, ok := ret.Get(0).(func(model.KnownPrincipalType) model.Principal); ok {
		r0 = rf(tag)
	} else {
		r0 = ret.Get(0).(model.Principal)
	}
	if rf, ok := ret.Get(1).(func(model.KnownPrincipalType) bool); ok {
		r1 = rf(tag)
	} else {
		r1 = ret.Get(1).(bool)
	}

	return r0, r1
}

// Require provides a mock function with given fields: principal, role
func (_m *AccessService) Require(principal model.Principal, role model.Role) error {
	ret := _m.Called(principal, role)

	if len(ret) == 0 {
		panic("no return value specified for Require")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(model.Principal, model.Role) error); ok {
		r0 = rf(principal, role)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewAccessService creates a new instance of AccessService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAccessService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccessService {
	mock := &AccessService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
