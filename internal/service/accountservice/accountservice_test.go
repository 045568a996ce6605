package accountservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/farmops/internal/cache"
	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/outbox"
	"github.com/GlebRadaev/farmops/internal/pg"
	"github.com/GlebRadaev/farmops/internal/testutil/memstore"
)

var t0 = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

type recordingDispatcher struct {
	mu     sync.Mutex
	events []outbox.Event
}

func (d *recordingDispatcher) Flush(events []outbox.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
}

type delivery struct {
	Recipient int
	Severity  outbox.Severity
}

func (d *recordingDispatcher) notifications() []delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []delivery{}
	for _, ev := range d.events {
		if ev.Kind == outbox.KindNotify {
			out = append(out, delivery{Recipient: ev.RecipientID, Severity: ev.Severity})
		}
	}
	return out
}

func newTestService(t *testing.T) (*Service, *memstore.Store, *recordingDispatcher) {
	t.Helper()
	store := memstore.New()
	dispatcher := &recordingDispatcher{}
	svc := New(store, store, store, store, cache.NewLRU(128, time.Minute), dispatcher)
	return svc, store, dispatcher
}

func seedAccount(store *memstore.Store, status domain.Status) domain.Account {
	acc := domain.Account{
		ID:              1,
		Name:            "fb-001",
		Status:          status,
		StatusChangedAt: t0,
		ManagerID:       intp(10),
		SupplierID:      intp(20),
		Credential:      "session-cookie",
		CreatedAt:       t0,
	}
	store.AddAccount(acc)
	store.AddLog(domain.AccountLog{AccountID: acc.ID, LogType: domain.LogTypeStatus, StartAt: t0, Status: status})
	return acc
}

func TestChangeStatus_SideEffects(t *testing.T) {
	manager := &domain.Actor{ID: 10, Role: domain.RoleManager}
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}
	teamlead := &domain.Actor{ID: 2, Role: domain.RoleTeamLead}

	tests := []struct {
		name               string
		to                 domain.Status
		actor              *domain.Actor
		expected           []delivery
		expectedCredential string
	}{
		{
			name:               "ON_VERIFY alerts the manager",
			to:                 domain.StatusOnVerify,
			actor:              manager,
			expected:           []delivery{{Recipient: 10, Severity: outbox.SeverityCritical}},
			expectedCredential: "session-cookie",
		},
		{
			name:  "System LOGOUT alerts supplier and manager",
			to:    domain.StatusLogout,
			actor: nil,
			expected: []delivery{
				{Recipient: 20, Severity: outbox.SeverityCritical},
				{Recipient: 10, Severity: outbox.SeverityInfo},
			},
		},
		{
			name:     "Manual LOGOUT alerts the supplier only",
			to:       domain.StatusLogout,
			actor:    admin,
			expected: []delivery{{Recipient: 20, Severity: outbox.SeverityCritical}},
		},
		{
			name:  "BANNED alerts supplier and financiers",
			to:    domain.StatusBanned,
			actor: teamlead,
			expected: []delivery{
				{Recipient: 20, Severity: outbox.SeverityWarning},
				{Recipient: 30, Severity: outbox.SeverityWarning},
				{Recipient: 31, Severity: outbox.SeverityWarning},
			},
			expectedCredential: "session-cookie",
		},
		{
			name:               "Manager is not told about own change",
			to:                 domain.StatusSetup,
			actor:              manager,
			expected:           []delivery{},
			expectedCredential: "session-cookie",
		},
		{
			name:               "Manager is told about someone else's change",
			to:                 domain.StatusInactive,
			actor:              admin,
			expected:           []delivery{{Recipient: 10, Severity: outbox.SeverityInfo}},
			expectedCredential: "session-cookie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, dispatcher := newTestService(t)
			seedAccount(store, domain.StatusActive)
			store.AddUser(domain.User{ID: 30, Role: domain.RoleFinancier})
			store.AddUser(domain.User{ID: 31, Role: domain.RoleFinancier})
			store.AddUser(domain.User{ID: 32, Role: domain.RoleManager})

			now := t0.Add(time.Hour)
			acc, err := svc.ChangeStatus(context.Background(), 1, tt.to, "checkpoint", tt.actor, now)
			require.NoError(t, err)
			assert.Equal(t, tt.to, acc.Status)

			stored := store.Account(1)
			assert.Equal(t, tt.to, stored.Status)
			assert.Equal(t, "checkpoint", stored.StatusComment)
			assert.Equal(t, now, stored.StatusChangedAt)
			assert.Equal(t, tt.expectedCredential, stored.Credential)
			assert.Equal(t, tt.expected, dispatcher.notifications())
		})
	}
}

func TestChangeStatus_Refusals(t *testing.T) {
	manager := &domain.Actor{ID: 10, Role: domain.RoleManager}

	tests := []struct {
		name      string
		from      domain.Status
		to        domain.Status
		accountID int
		actor     *domain.Actor
		expectErr error
	}{
		{name: "Same status is a no-op", from: domain.StatusActive, to: domain.StatusActive, accountID: 1, actor: manager},
		{name: "Not in the transition table", from: domain.StatusNew, to: domain.StatusActive, accountID: 1, actor: manager, expectErr: ErrIllegalTransition},
		{name: "Manager cannot lift a ban", from: domain.StatusBanned, to: domain.StatusActive, accountID: 1, actor: manager, expectErr: ErrIllegalTransition},
		{name: "Unknown account", from: domain.StatusActive, to: domain.StatusSetup, accountID: 99, actor: manager, expectErr: ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, dispatcher := newTestService(t)
			seedAccount(store, tt.from)

			_, err := svc.ChangeStatus(context.Background(), tt.accountID, tt.to, "", tt.actor, t0.Add(time.Hour))
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Zero(t, store.Writes())
			assert.Empty(t, dispatcher.events)
			assert.Equal(t, tt.from, store.Account(1).Status)
			assert.Len(t, store.Logs(1, domain.LogTypeStatus), 1)
		})
	}
}

func TestChangeStatus_TimelineHasNoGaps(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusActive)
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}

	path := []domain.Status{
		domain.StatusSetup, domain.StatusReady, domain.StatusActive, domain.StatusLogout,
		domain.StatusLogout, domain.StatusNew, domain.StatusSurfing, domain.StatusBanned, domain.StatusSetup,
	}
	now := t0
	for _, status := range path {
		now = now.Add(90 * time.Minute)
		_, err := svc.ChangeStatus(context.Background(), 1, status, "", admin, now)
		require.NoError(t, err, "moving to %s", status)
	}

	logs := store.Logs(1, domain.LogTypeStatus)
	require.Len(t, logs, len(path))
	open := 0
	for i, l := range logs {
		if l.Open() {
			open++
			continue
		}
		require.Less(t, i+1, len(logs))
		assert.Equal(t, logs[i+1].StartAt, *l.EndAt)
	}
	assert.Equal(t, 1, open)
	assert.True(t, logs[len(logs)-1].Open())
	assert.Equal(t, domain.StatusSetup, logs[len(logs)-1].Status)
}

func TestChangeStatus_ConcurrentTransitionsSerialize(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusSurfing)
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}

	targets := []domain.Status{domain.StatusNew, domain.StatusWarming}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.Status) {
			defer wg.Done()
			_, errs[i] = svc.ChangeStatus(context.Background(), 1, target, "", admin, t0.Add(time.Hour))
		}(i, target)
	}
	wg.Wait()

	succeeded, refused := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrIllegalTransition):
			refused++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, refused)

	open := 0
	for _, l := range store.Logs(1, domain.LogTypeStatus) {
		if l.Open() {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestChangeStatus_CumulativeStatusesKeepFirstEntry(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusNew)
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}
	ctx := context.Background()

	_, err := svc.ChangeStatus(ctx, 1, domain.StatusSurfing, "", admin, t0.Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, 1, domain.StatusWarming, "", admin, t0.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, 1, domain.StatusOnVerify, "", admin, t0.Add(3*time.Hour))
	require.NoError(t, err)
	acc, err := svc.ChangeStatus(ctx, 1, domain.StatusSurfing, "", admin, t0.Add(4*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, t0.Add(time.Hour), acc.StatusChangedAt)
	assert.Equal(t, t0.Add(time.Hour), store.Account(1).StatusChangedAt)

	d, err := svc.StatusDuration(ctx, 1, t0.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, d)
}

func TestStatusDuration_LatestIntervalOnly(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusActive)
	manager := &domain.Actor{ID: 10, Role: domain.RoleManager}
	ctx := context.Background()

	_, err := svc.ChangeStatus(ctx, 1, domain.StatusInactive, "", manager, t0.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, 1, domain.StatusActive, "", manager, t0.Add(14*time.Hour))
	require.NoError(t, err)

	d, err := svc.StatusDuration(ctx, 1, t0.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)
}

func TestStatusDuration_StatusChangeDropsCachedValue(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusActive)
	manager := &domain.Actor{ID: 10, Role: domain.RoleManager}
	ctx := context.Background()

	d, err := svc.StatusDuration(ctx, 1, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)

	d, err = svc.StatusDuration(ctx, 1, t0.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d, "second read is served from the cache")

	_, err = svc.ChangeStatus(ctx, 1, domain.StatusInactive, "", manager, t0.Add(3*time.Hour))
	require.NoError(t, err)

	d, err = svc.StatusDuration(ctx, 1, t0.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)
}

func TestPreviousStatus(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusActive)
	manager := &domain.Actor{ID: 10, Role: domain.RoleManager}
	ctx := context.Background()

	_, ok, err := svc.PreviousStatus(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.ChangeStatus(ctx, 1, domain.StatusInactive, "", manager, t0.Add(time.Hour))
	require.NoError(t, err)
	prev, ok, err := svc.PreviousStatus(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusActive, prev)

	_, err = svc.ChangeStatus(ctx, 1, domain.StatusActive, "", manager, t0.Add(2*time.Hour))
	require.NoError(t, err)
	prev, ok, err = svc.PreviousStatus(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInactive, prev)
}

func TestChangeStatus_FailedWriteDeliversNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := NewMockAccountRepo(ctrl)
	logs := NewMockLogRepo(ctrl)
	users := NewMockUserRepo(ctrl)
	dispatcher := NewMockDispatcher(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	svc := New(accounts, logs, users, txManager, cache.NewLRU(16, time.Minute), dispatcher)

	now := t0.Add(time.Hour)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) })
	accounts.EXPECT().GetAccountForUpdate(gomock.Any(), 1).
		Return(&domain.Account{ID: 1, Status: domain.StatusActive, ManagerID: intp(10)}, nil)
	logs.EXPECT().LogChange(gomock.Any(), gomock.Any(), now).Return(nil)
	accounts.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
	dispatcher.EXPECT().Flush(gomock.Any()).Times(0)

	_, err := svc.ChangeStatus(context.Background(), 1, domain.StatusSetup, "", nil, now)
	assert.EqualError(t, err, "db error")
}

func TestChangeStatus_LockFailureRollsBack(t *testing.T) {
	svc, store, dispatcher := newTestService(t)
	seedAccount(store, domain.StatusActive)
	store.FailLock(1, pg.ErrConcurrentModification)

	_, err := svc.ChangeStatus(context.Background(), 1, domain.StatusSetup, "", nil, t0.Add(time.Hour))
	assert.ErrorIs(t, err, pg.ErrConcurrentModification)
	assert.Zero(t, store.Writes())
	assert.Empty(t, dispatcher.events)
}

func TestChangeManager(t *testing.T) {
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}

	tests := []struct {
		name             string
		status           domain.Status
		currentManager   *int
		newManager       *int
		expectedStatus   domain.Status
		expectedEvents   []outbox.Kind
		expectedLogs     int
		expectedCampaign int
		expectNoWrites   bool
	}{
		{
			name:             "Assigning a NEW account starts surfing",
			status:           domain.StatusNew,
			newManager:       intp(11),
			expectedStatus:   domain.StatusSurfing,
			expectedEvents:   []outbox.Kind{outbox.KindNotify, outbox.KindShareProfile, outbox.KindNotify},
			expectedLogs:     1,
			expectedCampaign: 0,
		},
		{
			name:             "Reassigning an active account",
			status:           domain.StatusActive,
			currentManager:   intp(10),
			newManager:       intp(11),
			expectedStatus:   domain.StatusActive,
			expectedEvents:   []outbox.Kind{outbox.KindShareProfile, outbox.KindNotify},
			expectedLogs:     1,
			expectedCampaign: 0,
		},
		{
			name:             "Unassigning keeps the status",
			status:           domain.StatusActive,
			currentManager:   intp(10),
			newManager:       nil,
			expectedStatus:   domain.StatusActive,
			expectedEvents:   nil,
			expectedLogs:     1,
			expectedCampaign: 0,
		},
		{
			name:             "Same manager is a no-op",
			status:           domain.StatusActive,
			currentManager:   intp(10),
			newManager:       intp(10),
			expectedStatus:   domain.StatusActive,
			expectedEvents:   nil,
			expectedLogs:     0,
			expectedCampaign: 1,
			expectNoWrites:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, dispatcher := newTestService(t)
			acc := seedAccount(store, tt.status)
			acc.ManagerID = tt.currentManager
			store.AddAccount(acc)
			store.AddCampaign(acc.ID, t0)

			updated, err := svc.ChangeManager(context.Background(), acc.ID, tt.newManager, admin, t0.Add(time.Hour))
			require.NoError(t, err)
			assert.Equal(t, tt.newManager, updated.ManagerID)
			assert.Equal(t, tt.expectedStatus, store.Account(acc.ID).Status)
			assert.Len(t, store.Logs(acc.ID, domain.LogTypeManager), tt.expectedLogs)
			assert.Equal(t, tt.expectedCampaign, store.LinkedCampaigns(acc.ID))
			if tt.expectNoWrites {
				assert.Zero(t, store.Writes())
			}

			var kinds []outbox.Kind
			for _, ev := range dispatcher.events {
				kinds = append(kinds, ev.Kind)
				assert.Equal(t, 11, ev.RecipientID)
			}
			assert.Equal(t, tt.expectedEvents, kinds)
		})
	}
}

func TestChangeCard(t *testing.T) {
	tests := []struct {
		name         string
		card         string
		current      string
		expectErr    error
		expectedCard string
		expectedLogs int
	}{
		{name: "Valid card is recorded", card: "4111111111111111", expectedCard: "4111111111111111", expectedLogs: 1},
		{name: "Separators are stripped", card: "4111 1111-1111 1111", expectedCard: "4111111111111111", expectedLogs: 1},
		{name: "Luhn failure", card: "4111111111111112", expectErr: ErrInvalidCardNumber},
		{name: "Same card is a no-op", card: "4111111111111111", current: "4111111111111111", expectedCard: "4111111111111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			acc := seedAccount(store, domain.StatusActive)
			acc.CardNumber = tt.current
			store.AddAccount(acc)

			_, err := svc.ChangeCard(context.Background(), acc.ID, tt.card, nil, t0.Add(time.Hour))
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCard, store.Account(acc.ID).CardNumber)
			assert.Len(t, store.Logs(acc.ID, domain.LogTypeCard), tt.expectedLogs)
		})
	}
}

func TestAvailableStatuses(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedAccount(store, domain.StatusReady)
	manager := &domain.Actor{ID: 10, Role: domain.RoleManager}

	statuses, err := svc.AvailableStatuses(context.Background(), 1, manager)
	require.NoError(t, err)
	assert.NotContains(t, statuses, domain.StatusReady)
	assert.Contains(t, statuses, domain.StatusActive)

	_, err = svc.AvailableStatuses(context.Background(), 2, manager)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
