package mock

import (
	context "context"
	reflect "reflect"

	discord "github.com/disgoorg/disgo/discord"
	snowflake "github.com/disgoorg/snowflake/v2"
	gomock "go.uber.org/mock/gomock"
)

// MockGateway is a mock of Gateway interface.
type MockGateway struct {
	ctrl     *gomock.Controller
	recorder *MockGatewayMockRecorder
	isgomock struct{}
}

// MockGatewayMockRecorder is the mock recorder for MockGateway.
type MockGatewayMockRecorder struct {
	mock *MockGateway
}

// NewMockGateway creates a new mock instance.
func NewMockGateway(ctrl *gomock.Controller) *MockGateway {
	mock := &MockGateway{ctrl: ctrl}
	mock.recorder = &MockGatewayMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGateway) EXPECT() *MockGatewayMockRecorder {
	return m.recorder
}

// Channel mocks base method.
func (m *MockGateway) Channel(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (discord.GuildMessageChannel, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Channel", ctx, guildID, channelID)
	ret0, _ := ret[0].(discord.GuildMessageChannel)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Channel indicates an expected call of Channel.
func (mr *MockGatewayMockRecorder) Channel(ctx, guildID, channelID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Channel", reflect.TypeOf((*MockGateway)(nil).Channel), ctx, guildID, channelID)
}

// Guild mocks base method.
func (m *MockGateway) Guild(ctx context.Context, guildID snowflake.ID) (*discord.Guild, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Guild", ctx, guildID)
	ret0, _ := ret[0].(*discord.Guild)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Guild indicates an expected call of Guild.
func (mr *MockGatewayMockRecorder) Guild(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Guild", reflect.TypeOf((*MockGateway)(nil).Guild), ctx, guildID)
}

// Member mocks base method.
func (m *MockGateway) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*discord.Member, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Member", ctx, guildID, userID)
	ret0, _ := ret[0].(*discord.Member)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Member indicates an expected call of Member.
func (mr *MockGatewayMockRecorder) Member(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Member", reflect.TypeOf((*MockGateway)(nil).Member), ctx, guildID, userID)
}

// SendChannel mocks base method.
func (m *MockGateway) SendChannel(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SendChannel", ctx, channelID, message)
	ret0, _ := ret[0].(error)
	return ret0
}

// SendChannel indicates an expected call of SendChannel.
func (mr *MockGatewayMockRecorder) SendChannel(ctx, channelID, message any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendChannel", reflect.TypeOf((*MockGateway)(nil).SendChannel), ctx, channelID, message)
}

// SendDM mocks base method.
func (m *MockGateway) SendDM(ctx context.Context, userID snowflake.ID, message discord.MessageCreate) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SendDM", ctx, userID, message)
	ret0, _ := ret[0].(error)
	return ret0
}

// SendDM indicates an expected call of SendDM.
func (mr *MockGatewayMockRecorder) SendDM(ctx, userID, message any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendDM", reflect.TypeOf((*MockGateway)(nil).SendDM), ctx, userID, message)
}

// User mocks base method.
func (m *MockGateway) User(ctx context.Context, userID snowflake.ID) (*discord.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "User", ctx, userID)
	ret0, _ := ret[0].(*discord.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// User indicates an expected call of User.
func (mr *MockGatewayMockRecorder) User(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "User", reflect.TypeOf((*MockGateway)(nil).User), ctx, userID)
}
