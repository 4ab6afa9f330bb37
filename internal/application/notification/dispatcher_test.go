package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

type mockNotifRepo struct {
	mock.Mock
}

func (m *mockNotifRepo) Create(ctx context.Context, notif *notification.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *mockNotifRepo) CreateBatch(ctx context.Context, notifs []*notification.Notification) error {
	args := m.Called(ctx, notifs)
	return args.Error(0)
}

func (m *mockNotifRepo) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotifRepo) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*notification.Notification, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]*notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotifRepo) Save(ctx context.Context, notif *notification.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *mockNotifRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByRole(ctx context.Context, role identity.Role) ([]*identity.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.User), args.Error(1)
}

type recordingPush struct {
	mu     sync.Mutex
	sent   []uuid.UUID
	failed bool
}

func (p *recordingPush) PushToUser(ctx context.Context, userID uuid.UUID, eventType string, payload any) error {
	if p.failed {
		return errors.New("push unavailable")
	}
	p.mu.Lock()
	p.sent = append(p.sent, userID)
	p.mu.Unlock()
	return nil
}

func (p *recordingPush) Broadcast(ctx context.Context, eventType string, payload any) error {
	return nil
}

func testAdmin(t *testing.T, name, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(name, email, identity.RoleAdmin)
	require.NoError(t, err)
	return user
}

func TestDispatcher_NotifyPersistsThenPushes(t *testing.T) {
	repo := new(mockNotifRepo)
	push := &recordingPush{}
	d := NewDispatcher(repo, nil, push, zap.NewNop())

	userID := uuid.New()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil)

	err := d.Notify(context.Background(), userID, notification.TypeSuccess, "Request approved", "Your request was approved", "/requests")
	require.NoError(t, err)

	repo.AssertExpectations(t)
	require.Len(t, push.sent, 1)
	assert.Equal(t, userID, push.sent[0])
}

func TestDispatcher_PushFailureDoesNotFailNotify(t *testing.T) {
	repo := new(mockNotifRepo)
	d := NewDispatcher(repo, nil, &recordingPush{failed: true}, zap.NewNop())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := d.Notify(context.Background(), uuid.New(), notification.TypeAlert, "Stock shortage", "Bond Paper A4 is short", "/inventory")
	assert.NoError(t, err)
}

func TestDispatcher_PersistFailureFailsNotify(t *testing.T) {
	repo := new(mockNotifRepo)
	push := &recordingPush{}
	d := NewDispatcher(repo, nil, push, zap.NewNop())

	dbErr := errors.New("db down")
	repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	err := d.Notify(context.Background(), uuid.New(), notification.TypeInfo, "t", "m", "")
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, push.sent)
}

func TestDispatcher_NotifyAdminsFansOut(t *testing.T) {
	repo := new(mockNotifRepo)
	users := new(mockUserRepo)
	push := &recordingPush{}
	d := NewDispatcher(repo, users, push, zap.NewNop())

	admins := []*identity.User{
		testAdmin(t, "Admin One", "one@college.edu"),
		testAdmin(t, "Admin Two", "two@college.edu"),
	}
	users.On("FindByRole", mock.Anything, identity.RoleAdmin).Return(admins, nil)
	repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(notifs []*notification.Notification) bool {
		return len(notifs) == 2
	})).Return(nil)

	err := d.NotifyAdmins(context.Background(), notification.TypeInfo, "New request", "Maria Santos submitted a request", "/requests")
	require.NoError(t, err)

	repo.AssertExpectations(t)
	assert.Len(t, push.sent, 2)
}

func TestDispatcher_MarkRead(t *testing.T) {
	repo := new(mockNotifRepo)
	d := NewDispatcher(repo, nil, nil, zap.NewNop())

	userID := uuid.New()
	notif, err := notification.NewNotification(userID, notification.TypeInfo, "t", "m", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, notif.ID).Return(notif, nil)
	repo.On("Save", mock.Anything, notif).Return(nil)

	require.NoError(t, d.MarkRead(context.Background(), userID, notif.ID))
	assert.True(t, notif.Read)

	// someone else's notification is forbidden
	err = d.MarkRead(context.Background(), uuid.New(), notif.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
