// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/repository"
)

type MockRequestLogRepositoryInterface struct {
	mock.Mock
}

func (m *MockRequestLogRepositoryInterface) Create(ctx context.Context, doc *repository.RequestLogDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRequestLogRepositoryInterface) CreateMany(ctx context.Context, docs []*repository.RequestLogDocument) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockRequestLogRepositoryInterface) Query(ctx context.Context, q model.RequestLogQuery) ([]*repository.RequestLogDocument, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.RequestLogDocument), args.Error(1)
}

func (m *MockRequestLogRepositoryInterface) Count(ctx context.Context, q model.RequestLogQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

type MockPreferencesRepositoryInterface struct {
	mock.Mock
}

func (m *MockPreferencesRepositoryInterface) Select(ctx context.Context, owner string) (*repository.PreferencesDocument, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PreferencesDocument), args.Error(1)
}

func (m *MockPreferencesRepositoryInterface) Upsert(ctx context.Context, owner string, values map[string]interface{}) error {
	args := m.Called(ctx, owner, values)
	return args.Error(0)
}

var (
	_ repository.RequestLogRepositoryInterface  = (*MockRequestLogRepositoryInterface)(nil)
	_ repository.PreferencesRepositoryInterface = (*MockPreferencesRepositoryInterface)(nil)
)
