package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	snowflake "github.com/disgoorg/snowflake/v2"
	reminders "github.com/woolinator/bot/internal/domain/reminders"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// CountForOwner mocks base method.
func (m *MockRepository) CountForOwner(ctx context.Context, ownerID snowflake.ID) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountForOwner", ctx, ownerID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountForOwner indicates an expected call of CountForOwner.
func (mr *MockRepositoryMockRecorder) CountForOwner(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountForOwner", reflect.TypeOf((*MockRepository)(nil).CountForOwner), ctx, ownerID)
}

// Create mocks base method.
func (m *MockRepository) Create(ctx context.Context, reminder reminders.Reminder) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, reminder)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx, reminder any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, reminder)
}

// Delete mocks base method.
func (m *MockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Delete indicates an expected call of Delete.
func (mr *MockRepositoryMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockRepository)(nil).Delete), ctx, id)
}

// GetByIDs mocks base method.
func (m *MockRepository) GetByIDs(ctx context.Context, ids []int64) ([]reminders.Reminder, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIDs", ctx, ids)
	ret0, _ := ret[0].([]reminders.Reminder)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByIDs indicates an expected call of GetByIDs.
func (mr *MockRepositoryMockRecorder) GetByIDs(ctx, ids any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIDs", reflect.TypeOf((*MockRepository)(nil).GetByIDs), ctx, ids)
}

// ListDueBefore mocks base method.
func (m *MockRepository) ListDueBefore(ctx context.Context, deadline time.Time) ([]reminders.Reminder, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDueBefore", ctx, deadline)
	ret0, _ := ret[0].([]reminders.Reminder)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListDueBefore indicates an expected call of ListDueBefore.
func (mr *MockRepositoryMockRecorder) ListDueBefore(ctx, deadline any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDueBefore", reflect.TypeOf((*MockRepository)(nil).ListDueBefore), ctx, deadline)
}

// ListForOwner mocks base method.
func (m *MockRepository) ListForOwner(ctx context.Context, ownerID snowflake.ID) ([]reminders.Reminder, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListForOwner", ctx, ownerID)
	ret0, _ := ret[0].([]reminders.Reminder)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListForOwner indicates an expected call of ListForOwner.
func (mr *MockRepositoryMockRecorder) ListForOwner(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListForOwner", reflect.TypeOf((*MockRepository)(nil).ListForOwner), ctx, ownerID)
}
