package mocks

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"
)

// CycleService is a testify mock for handler.CycleService.
type CycleService struct {
	mock.Mock
}

// Balance provides a mock function with given fields: ctx
func (_m *CycleService) Balance(ctx context.Context) (*big.Int, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Balance")
	}

	var r0 *big.Int
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (*big.Int, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *big.Int); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*big.Int)
		}
	}
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewCycleService creates a new instance of CycleService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCycleService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CycleService {
	mock := &CycleService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
