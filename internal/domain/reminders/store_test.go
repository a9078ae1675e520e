package reminders_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/woolinator/bot/internal/domain/reminders"
)

var errStoreDown = errors.New("connection refused")

// memoryRepository is an in-process reminders.Repository for scheduler and
// service tests that need real timing.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]reminders.Reminder
	failList bool
	failDel  bool
	deletes  map[int64]int
}

func newMemoryRepository(rows ...reminders.Reminder) *memoryRepository {
	repo := &memoryRepository{
		rows:    make(map[int64]reminders.Reminder),
		deletes: make(map[int64]int),
	}
	for _, r := range rows {
		repo.rows[r.ID] = r
		repo.nextID = max(repo.nextID, r.ID)
	}
	return repo
}

func (m *memoryRepository) setFailList(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failList = fail
}

func (m *memoryRepository) setFailDelete(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDel = fail
}

func (m *memoryRepository) has(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok
}

func (m *memoryRepository) deleteCalls(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes[id]
}

func (m *memoryRepository) Create(_ context.Context, reminder reminders.Reminder) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	reminder.ID = m.nextID
	m.rows[reminder.ID] = reminder
	return reminder.ID, nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes[id]++
	if m.failDel {
		return false, errStoreDown
	}
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memoryRepository) ListDueBefore(_ context.Context, deadline time.Time) ([]reminders.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errStoreDown
	}
	var out []reminders.Reminder
	for _, r := range m.rows {
		if r.ExpiresAt.Before(deadline) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

func (m *memoryRepository) ListForOwner(_ context.Context, ownerID snowflake.ID) ([]reminders.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []reminders.Reminder
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepository) GetByIDs(_ context.Context, ids []int64) ([]reminders.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []reminders.Reminder
	for _, id := range ids {
		if r, ok := m.rows[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepository) CountForOwner(_ context.Context, ownerID snowflake.ID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// recordingNotifier counts deliveries per reminder and can be made to block.
type recordingNotifier struct {
	mu        sync.Mutex
	delivered map[int64]int
	payloads  []string
	gate      chan struct{}
	started   chan int64
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		delivered: make(map[int64]int),
		started:   make(chan int64, 16),
	}
}

func (n *recordingNotifier) Deliver(_ context.Context, reminder reminders.Reminder) reminders.Outcome {
	n.started <- reminder.ID
	if n.gate != nil {
		<-n.gate
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered[reminder.ID]++
	n.payloads = append(n.payloads, reminder.Payload)
	return reminders.DeliveredChannel
}

func (n *recordingNotifier) count(id int64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.delivered[id]
}
