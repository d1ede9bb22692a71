package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/resource"
)

// MockResourceRepo is a mock implementation of port.ResourceRepository.
type MockResourceRepo struct {
	mock.Mock
}

func (m *MockResourceRepo) List(ctx context.Context, spec *resource.Spec, f resource.Filter) ([]resource.Record, error) {
	args := m.Called(ctx, spec, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]resource.Record), args.Error(1)
}

func (m *MockResourceRepo) Get(ctx context.Context, spec *resource.Spec, f resource.Filter, id string) (resource.Record, error) {
	args := m.Called(ctx, spec, f, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resource.Record), args.Error(1)
}

func (m *MockResourceRepo) Create(ctx context.Context, spec *resource.Spec, rec resource.Record, nested map[string][]resource.Record) (resource.Record, error) {
	args := m.Called(ctx, spec, rec, nested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resource.Record), args.Error(1)
}

func (m *MockResourceRepo) Update(ctx context.Context, spec *resource.Spec, f resource.Filter, id string, changes resource.Record) (resource.Record, error) {
	args := m.Called(ctx, spec, f, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resource.Record), args.Error(1)
}

func (m *MockResourceRepo) Delete(ctx context.Context, spec *resource.Spec, f resource.Filter, id string) error {
	args := m.Called(ctx, spec, f, id)
	return args.Error(0)
}
