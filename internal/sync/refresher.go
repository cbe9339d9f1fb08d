package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
)

// RefreshState represents the current state of the refresher.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// RefreshStatus describes the outcome of the most recent pass.
type RefreshStatus struct {
	State     RefreshState
	LastRun   time.Time
	Error     error
	LastCount int
}

// NotificationsMsg is a tea.Msg carrying the result of one derivation pass.
// Entries may be non-empty when Err is set: an invalid date only drops the
// rule it belongs to.
type NotificationsMsg struct {
	Entries   []model.Notification
	Err       error
	DerivedAt time.Time
}

// ProjectLister supplies the project snapshot each pass derives from.
type ProjectLister interface {
	GetProjects(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error)
}

// fetchTimeout bounds a single snapshot read.
const fetchTimeout = 10 * time.Second

const defaultInterval = 60 * time.Second

// Refresher re-derives notifications in the background on a fixed interval
// and on demand.
type Refresher struct {
	lister    ProjectLister
	interval  time.Duration
	now       func() time.Time
	log       logrus.FieldLogger
	resultCh  chan NotificationsMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	status    RefreshStatus
}

// Option customises a Refresher.
type Option func(*Refresher)

// WithClock overrides the time source used as "now" for each pass.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// WithLogger sets the logger pass failures are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Refresher) { r.log = log }
}

// New creates a Refresher reading from lister every interval.
func New(lister ProjectLister, interval time.Duration, opts ...Option) *Refresher {
	if interval <= 0 {
		interval = defaultInterval
	}
	r := &Refresher{
		lister:    lister,
		interval:  interval,
		now:       time.Now,
		log:       logrus.StandardLogger(),
		resultCh:  make(chan NotificationsMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the refresh loop and returns a tea.Cmd that delivers the
// first NotificationsMsg. Calling Start on a running refresher returns nil.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()

	return r.waitForResult()
}

// Stop halts the refresh loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	close(r.stopCh)
	r.running = false
}

// Trigger requests an immediate pass. Requests made while one is already
// pending are coalesced.
func (r *Refresher) Trigger() tea.Cmd {
	select {
	case r.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the outcome of the most recent pass.
func (r *Refresher) Status() RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// RefreshNow runs one pass synchronously and returns its result without
// publishing it to the background subscribers.
func (r *Refresher) RefreshNow(ctx context.Context) NotificationsMsg {
	return r.derive(ctx)
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.publish()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.publish()
		case <-r.triggerCh:
			r.publish()
		}
	}
}

func (r *Refresher) publish() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	r.sendResult(r.derive(ctx))
}

// derive reads a snapshot and builds the notification list from it.
func (r *Refresher) derive(ctx context.Context) NotificationsMsg {
	r.setStatus(RefreshRunning, nil, 0)

	now := r.now()
	projects, err := r.lister.GetProjects(ctx, store.ProjectFilter{})
	if err != nil {
		err = fmt.Errorf("loading projects: %w", err)
		r.log.WithError(err).Error("notification refresh failed")
		r.setStatus(RefreshError, err, 0)
		return NotificationsMsg{Err: err, DerivedAt: now}
	}

	entries, err := notify.Derive(projects, now)
	if err != nil {
		for _, bad := range notify.InvalidDates(err) {
			r.log.WithFields(logrus.Fields{
				"project": bad.ProjectID,
				"field":   bad.Field,
				"value":   bad.Value,
			}).Warn("skipping unparseable date")
		}
	}

	r.setStatus(RefreshIdle, err, len(entries))
	return NotificationsMsg{Entries: entries, Err: err, DerivedAt: now}
}

func (r *Refresher) setStatus(state RefreshState, err error, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.State = state
	r.status.Error = err
	if state != RefreshRunning {
		r.status.LastRun = time.Now()
		r.status.LastCount = count
	}
}

// sendResult sends a NotificationsMsg without blocking.
func (r *Refresher) sendResult(msg NotificationsMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if channel is full; a newer pass will follow.
	}
}

func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next pass.
// Call it after handling a NotificationsMsg to keep listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}
