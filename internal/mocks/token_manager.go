package mocks

import (
	"time"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// TokenManager is a testify mock for model.TokenManager.
type TokenManager struct {
	mock.Mock
}

// Generate provides a mock function with given fields: principal, ttl
func (_m *TokenManager) Generate(principal model.Principal, ttl time.Duration) (string, error) {
	ret := _m.Called(principal, ttl)

	if len(ret) == 0 {
		panic("no return value specified for Generate")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(model.Principal, time.Duration) (string, error)); ok {
		return rf(principal, ttl)
	}
	if rf, ok := ret.Get(0).(func(model.Principal, time.Duration) string); ok {
		r0 = rf(principal, ttl)
	} else {
		r0 = ret.Get(0).(string)
	}
	if rf, ok := ret.Get(1).(func(model.Principal, time.Duration) error); ok {
		r1 = rf(principal, ttl)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Parse provides a mock function with given fields: token
func (_m *TokenManager) Parse(token string) (model.Principal, error) {
	ret := _m.Called(token)

	if len(ret) == 0 {
		panic("no return value specified for Parse")
	}

	var r0 model.Principal
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (model.Principal, error)); ok {
		return rf(token)
	}
	if rf, ok := ret.Get(0).(func(string) model.Principal); ok {
		r0 = rf(token)
	} else {
		r0 = ret.Get(0).(model.Principal)
	}
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(token)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewTokenManager creates a new instance of TokenManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	mock := &TokenManager{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
