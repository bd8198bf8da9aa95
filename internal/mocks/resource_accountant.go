package mocks

import (
	"context"
	"math/big"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// ResourceAccountant is a testify mock for model.ResourceAccountant.
type ResourceAccountant struct {
	mock.Mock
}

// Balance provides a mock function with given fields: ctx, principal
func (_m *ResourceAccountant) Balance(ctx context.Context, principal model.Principal) (*big.Int, error) {
	ret := _m.Called(ctx, principal)

	if len(ret) == 0 {
		panic("no return value specified for Balance")
	}

	var r0 *big.Int
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) (*big.Int, error)); ok {
		return rf(ctx, principal)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal) *big.Int); ok {
		r0 = rf(ctx, principal)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*big.Int)
		}
	}
	if rf, ok := ret.Get(1).(func(context.Context, model.Principal) error); ok {
		r1 = rf(ctx, principal)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewResourceAccountant creates a new instance of ResourceAccountant. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewResourceAccountant(t interface {
	mock.TestingT
	Cleanup(func())
}) *ResourceAccountant {
	mock := &ResourceAccountant{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
