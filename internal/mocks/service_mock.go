// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/model"
)

type MockRequestLogService struct {
	mock.Mock
}

func (m *MockRequestLogService) InsertRequestLog(ctx context.Context, entry *model.RequestLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRequestLogService) InsertRequestLogs(ctx context.Context, entries []*model.RequestLog) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockRequestLogService) QueryRequestLogs(ctx context.Context, q model.RequestLogQuery) ([]model.RequestLog, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestLog), args.Error(1)
}

func (m *MockRequestLogService) CountRequestLogs(ctx context.Context, q model.RequestLogQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

type MockPreferenceSync struct {
	mock.Mock
}

func (m *MockPreferenceSync) Save(ctx context.Context, values map[string]interface{}) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

func (m *MockPreferenceSync) Load(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *client.TransportRequest) (*client.TransportResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.TransportResponse), args.Error(1)
}

var (
	_ client.PreferenceSync = (*MockPreferenceSync)(nil)
	_ client.Transport      = (*MockTransport)(nil)
)
