package mocks

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
	"github.com/stretchr/testify/mock"
)

// BackupService is a testify mock for handler.BackupService.
type BackupService struct {
	mock.Mock
}

// Start provides a mock function with no fields
func (_m *BackupService) Start() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Start")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ReceiveAndRestore provides a mock function with given fields: ctx, source, owner, payload
func (_m *BackupService) ReceiveAndRestore(ctx context.Context, source model.Principal, owner model.Principal, payload []byte) error {
	ret := _m.Called(ctx, source, owner, payload)

	if len(ret) == 0 {
		panic("no return value specified for ReceiveAndRestore")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal, model.Principal, []byte) error); ok {
		r0 = rf(ctx, source, owner, payload)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// RestoreFromArchive provides a mock function with given fields: ctx, owner, runID
func (_m *BackupService) RestoreFromArchive(ctx context.Context, owner model.Principal, runID string) error {
	ret := _m.Called(ctx, owner, runID)

	if len(ret) == 0 {
		panic("no return value specified for RestoreFromArchive")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Principal, string) error); ok {
		r0 = rf(ctx, owner, runID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Status provides a mock function with given fields: ctx
func (_m *BackupService) Status(ctx context.Context) (model.BackupStatus, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Status")
	}

	var r0 model.BackupStatus
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (model.BackupStatus, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) model.BackupStatus); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(model.BackupStatus)
	}
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewBackupService creates a new instance of BackupService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewBackupService(t interface {
	mock.TestingT
	Cleanup(func())
}) *BackupService {
	mock := &BackupService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
