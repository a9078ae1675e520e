package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/woolinator/bot/woolinator/logger"
	"golang.org/x/sync/semaphore"
)

const (
	deliveryTimeout = 30 * time.Second
	resyncTimeout   = time.Minute
)

type armedTimer struct {
	reminder Reminder
	timer    *time.Timer
	seq      uint64
}

// tombstone keeps an id from being armed again by a resync whose read may
// predate the id's deletion.
type tombstone struct {
	at      time.Time
	fired   bool
	pending bool
	deleted bool
}

// Scheduler holds a live timer for every reminder due within the window and
// rebuilds that set from the store on every resync.
type Scheduler struct {
	repo     Repository
	notifier Notifier
	window   time.Duration
	sem      *semaphore.Weighted
	cron     *cron.Cron
	now      func() time.Time

	// resyncMu keeps resyncs from overlapping so an older read can never be
	// applied after a newer one pruned its tombstones.
	resyncMu sync.Mutex

	mu      sync.Mutex
	timers  map[int64]*armedTimer
	firing  map[int64]struct{}
	settled map[int64]tombstone
	armSeq  uint64
	stopped bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

type SchedulerOption func(*Scheduler)

// WithClock replaces time.Now. Timers still run on the wall clock, only the
// delays are computed from the given clock.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(repo Repository, notifier Notifier, settings Settings, opts ...SchedulerOption) *Scheduler {
	concurrency := settings.DeliveryConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		repo:     repo,
		notifier: notifier,
		window:   settings.Window,
		sem:      semaphore.NewWeighted(concurrency),
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger{}))),
		now:      time.Now,
		timers:   make(map[int64]*armedTimer),
		firing:   make(map[int64]struct{}),
		settled:  make(map[int64]tombstone),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Window() time.Duration {
	return s.window
}

// Start runs a resync right away and then one every window.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Resync(ctx); err != nil {
		slog.Error("Initial reminder resync failed",
			slog.String("type", "rem"),
			slog.Any("error", err),
		)
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.window), s.tick); err != nil {
		return fmt.Errorf("failed to schedule resync: %w", err)
	}
	s.cron.Start()

	logger.LogReminder("Reminder scheduler started",
		slog.Duration("window", s.window),
	)
	return nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(s.ctx, resyncTimeout)
	defer cancel()
	if err := s.Resync(ctx); errors.Is(err, ErrSchedulerStopped) {
		slog.Debug("Skipping resync, scheduler stopped", slog.String("type", "rem"))
	}
}

// Stop cancels every live timer and waits for deliveries already in flight
// until ctx is done. Rows are left untouched so the next start picks them up.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	for id, at := range s.timers {
		at.timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	cronDone := s.cron.Stop()
	defer s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-cronDone.Done()
		close(done)
	}()

	select {
	case <-done:
		logger.LogReminder("Reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for reminder deliveries: %w", ctx.Err())
	}
}

// Arm starts a timer for the reminder if it is due within the window.
func (s *Scheduler) Arm(reminder Reminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armLocked(reminder, s.now())
}

func (s *Scheduler) armLocked(reminder Reminder, now time.Time) bool {
	if s.stopped || reminder.ExpiresAt.After(now.Add(s.window)) {
		return false
	}
	if _, ok := s.timers[reminder.ID]; ok {
		return false
	}
	if _, ok := s.firing[reminder.ID]; ok {
		return false
	}
	if _, ok := s.settled[reminder.ID]; ok {
		return false
	}

	delay := max(reminder.ExpiresAt.Sub(now), 0)
	s.armSeq++
	at := &armedTimer{reminder: reminder, seq: s.armSeq}
	at.timer = time.AfterFunc(delay, func() { s.fire(at) })
	s.timers[reminder.ID] = at
	return true
}

// Cancel drops the timer for id and keeps resyncs from arming it until
// FinishCancel is called. It reports whether the timer was stopped before it
// fired. When it was not, the delivery already under way is let through.
func (s *Scheduler) Cancel(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.settled[id]
	t.pending = true
	s.settled[id] = t

	at, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	if at.timer.Stop() {
		return true
	}
	s.firing[id] = struct{}{}
	return false
}

// FinishCancel records the result of deleting a cancelled reminder's row.
// If the delete failed the row still exists and a later resync may arm it.
func (s *Scheduler) FinishCancel(id int64, deleteErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.settled[id]
	if !ok {
		return
	}
	t.pending = false
	switch {
	case deleteErr == nil:
		t.deleted = true
		t.at = s.now()
	case !t.fired:
		delete(s.settled, id)
		return
	}
	s.settled[id] = t
}

func (s *Scheduler) IsArmed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// ArmedIDs lists the ids with a live timer, in ascending order.
func (s *Scheduler) ArmedIDs() []int64 {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Armed returns a copy of the reminders currently holding a timer.
func (s *Scheduler) Armed() []Reminder {
	s.mu.Lock()
	out := make([]Reminder, 0, len(s.timers))
	for _, at := range s.timers {
		out = append(out, at.reminder)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out
}

// Resync fetches everything due within the window and, only if that worked,
// replaces the live timer set with it. Timers armed while the fetch was
// running are kept since the fetch may not include their rows.
func (s *Scheduler) Resync(ctx context.Context) error {
	s.resyncMu.Lock()
	defer s.resyncMu.Unlock()

	s.retryDeletes(ctx)

	s.mu.Lock()
	fetchSeq := s.armSeq
	s.mu.Unlock()

	started := s.now()
	due, err := s.repo.ListDueBefore(ctx, started.Add(s.window))
	if err != nil {
		slog.Warn("Reminder resync failed, keeping current timers",
			slog.String("type", "rem"),
			slog.Any("error", err),
		)
		return storeError("list due reminders", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSchedulerStopped
	}

	for id, at := range s.timers {
		if at.seq > fetchSeq {
			continue
		}
		if !at.timer.Stop() {
			s.firing[id] = struct{}{}
		}
		delete(s.timers, id)
	}
	for id, t := range s.settled {
		if t.deleted && !t.pending && !t.at.After(started) {
			delete(s.settled, id)
		}
	}

	now := s.now()
	armed := 0
	for _, reminder := range due {
		if s.armLocked(reminder, now) {
			armed++
		}
	}

	slog.Debug("Reminders resynced",
		slog.String("type", "rem"),
		slog.Int("due", len(due)),
		slog.Int("armed", armed),
		slog.Int("in_flight", len(s.firing)),
	)
	return nil
}

// retryDeletes removes rows of reminders that were delivered but whose
// delete failed at the time.
func (s *Scheduler) retryDeletes(ctx context.Context) {
	s.mu.Lock()
	var ids []int64
	for id, t := range s.settled {
		if t.fired && !t.deleted && !t.pending {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	for _, id := range ids {
		if _, err := s.repo.Delete(ctx, id); err != nil {
			slog.Warn("Retrying delete of delivered reminder failed",
				slog.String("type", "rem"),
				slog.Int64("reminder_id", id),
				slog.Any("error", err),
			)
			continue
		}

		s.mu.Lock()
		if t, ok := s.settled[id]; ok {
			t.deleted = true
			t.at = s.now()
			s.settled[id] = t
		}
		s.mu.Unlock()
	}
}

func (s *Scheduler) fire(at *armedTimer) {
	reminder := at.reminder

	s.mu.Lock()
	if s.timers[reminder.ID] == at {
		delete(s.timers, reminder.ID)
	}
	if s.stopped {
		delete(s.firing, reminder.ID)
		s.mu.Unlock()
		return
	}
	s.firing[reminder.ID] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	attempted, deleted := false, false
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Reminder delivery panicked",
				slog.String("type", "rem"),
				slog.Int64("reminder_id", reminder.ID),
				slog.Any("panic", r),
			)
		}
		s.settle(reminder.ID, attempted, deleted)
	}()

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		return
	}
	attempted = true
	ctx, cancel := context.WithTimeout(s.ctx, deliveryTimeout)
	outcome := s.notifier.Deliver(ctx, reminder)
	s.sem.Release(1)
	cancel()

	ctx, cancel = context.WithTimeout(s.ctx, deliveryTimeout)
	defer cancel()
	removed, err := s.repo.Delete(ctx, reminder.ID)
	if err != nil {
		slog.Error("Failed to delete fired reminder",
			slog.String("type", "rem"),
			slog.Int64("reminder_id", reminder.ID),
			slog.Any("error", err),
		)
		return
	}
	deleted = true

	logger.LogReminder("Reminder fired",
		slog.Int64("reminder_id", reminder.ID),
		slog.String("outcome", outcome.String()),
		slog.Bool("row_removed", removed),
	)
}

// settle ends a fire. A fire that never reached delivery leaves no tombstone
// so the row is armed again by the next resync.
func (s *Scheduler) settle(id int64, attempted, deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.firing, id)
	if !attempted {
		return
	}
	t := s.settled[id]
	t.fired = true
	t.deleted = t.deleted || deleted
	t.at = s.now()
	s.settled[id] = t
}

// cronLogger routes cron's own messages, including recovered panics, to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, append([]any{slog.String("type", "rem")}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append([]any{slog.String("type", "error"), slog.Any("error", err)}, keysAndValues...)...)
}
