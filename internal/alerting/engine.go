// Package alerting raises synthetic security alerts and retires them after
// a severity-dependent lifetime.
package alerting

import (
	"sync"
	"time"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"
	"ZeroTrustDashboard/internal/random"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type Config struct {
	TriggerProbability float64
	HighTTL            time.Duration
	DefaultTTL         time.Duration
}

func DefaultConfig() Config {
	return Config{
		TriggerProbability: 0.03,
		HighTTL:            60 * time.Second,
		DefaultTTL:         30 * time.Second,
	}
}

// Listener receives alert lifecycle events. It is called without the engine
// lock held and may run on a timer goroutine.
type Listener func(evt models.AlertEvent)

// Engine owns the active-alerts collection, kept newest first. Every removal
// path looks alerts up by id, so expiries racing dismissals are harmless.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	catalog   []models.AlertTemplate
	rnd       random.Source
	clock     clockwork.Clock
	log       *logger.Logger
	active    []models.Alert
	expiries  map[string]*expiry
	suspended bool
	listener  Listener
	newID     func() string
}

// expiry tracks one scheduled removal. While the engine is suspended timer
// is nil and remaining holds the lifetime left at suspension.
type expiry struct {
	timer     clockwork.Timer
	due       time.Time
	remaining time.Duration
}

func NewEngine(cfg Config, catalog []models.AlertTemplate, rnd random.Source, clk clockwork.Clock, log *logger.Logger) *Engine {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	return &Engine{
		cfg:      cfg,
		catalog:  catalog,
		rnd:      rnd,
		clock:    clk,
		log:      log,
		expiries: make(map[string]*expiry),
		newID:    newAlertID,
	}
}

func newAlertID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SetListener installs the callback notified on every lifecycle event.
func (e *Engine) SetListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// MaybeTrigger draws once and raises a random catalog alert with the
// configured probability.
func (e *Engine) MaybeTrigger() (models.Alert, bool) {
	if e.rnd.Float64() >= e.cfg.TriggerProbability {
		return models.Alert{}, false
	}
	return e.RaiseRandom(), true
}

// RaiseRandom raises a uniformly chosen catalog alert unconditionally.
func (e *Engine) RaiseRandom() models.Alert {
	tmpl := e.catalog[e.rnd.IntN(len(e.catalog))]
	return e.Raise(tmpl)
}

// Raise instantiates tmpl, puts it at the front of the collection and
// schedules its expiry.
func (e *Engine) Raise(tmpl models.AlertTemplate) models.Alert {
	now := e.clock.Now()
	ttl := e.TTL(tmpl.Severity)
	alert := models.Alert{
		ID:        e.newID(),
		Title:     tmpl.Title,
		Message:   tmpl.Message,
		Severity:  tmpl.Severity,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
	}

	e.mu.Lock()
	e.active = append([]models.Alert{alert}, e.active...)
	e.expiries[alert.ID] = e.schedule(alert.ID, alert.ExpiresAt, ttl)
	listener := e.listener
	e.mu.Unlock()

	if e.log != nil {
		e.log.Info("Alert raised: [%s] %s (id=%s, ttl=%s)", alert.Severity, alert.Title, alert.ID, ttl)
	}
	notify(listener, models.AlertEvent{Type: models.AlertRaised, AlertID: alert.ID, Alert: &alert})

	return alert
}

// TTL is the lifetime of an alert of the given severity.
func (e *Engine) TTL(sev models.Severity) time.Duration {
	if sev == models.SeverityHigh {
		return e.cfg.HighTTL
	}
	return e.cfg.DefaultTTL
}

// Dismiss removes the alert with id. Unknown ids are a no-op.
func (e *Engine) Dismiss(id string) bool {
	e.mu.Lock()
	alert, ok := e.remove(id)
	listener := e.listener
	e.mu.Unlock()

	if !ok {
		return false
	}

	if e.log != nil {
		e.log.Debug("Alert dismissed: %s", id)
	}
	notify(listener, models.AlertEvent{Type: models.AlertDismissed, AlertID: id, Alert: &alert})
	return true
}

// ClearAll empties the collection and cancels outstanding expiries.
func (e *Engine) ClearAll() int {
	e.mu.Lock()
	n := len(e.active)
	e.active = nil
	for id, exp := range e.expiries {
		exp.stop()
		delete(e.expiries, id)
	}
	listener := e.listener
	e.mu.Unlock()

	if e.log != nil && n > 0 {
		e.log.Info("Cleared %d active alerts", n)
	}
	notify(listener, models.AlertEvent{Type: models.AlertCleared, Count: n})
	return n
}

// Active returns a copy of the collection, newest first.
func (e *Engine) Active() []models.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Alert, len(e.active))
	copy(out, e.active)
	return out
}

// Suspend stops every expiry clock. Alerts raised while suspended wait with
// their full lifetime until Resume.
func (e *Engine) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.suspended {
		return
	}
	e.suspended = true

	now := e.clock.Now()
	for _, exp := range e.expiries {
		exp.stop()
		exp.remaining = max(exp.due.Sub(now), 0)
	}
	if e.log != nil && len(e.expiries) > 0 {
		e.log.Debug("Suspended %d alert expiries", len(e.expiries))
	}
}

// Resume restarts suspended expiries with the lifetime they had left. Each
// alert's ExpiresAt moves forward by the time spent suspended.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.suspended {
		return
	}
	e.suspended = false

	now := e.clock.Now()
	for i, a := range e.active {
		exp, ok := e.expiries[a.ID]
		if !ok {
			continue
		}
		due := now.Add(exp.remaining)
		e.active[i].ExpiresAt = due
		e.expiries[a.ID] = e.schedule(a.ID, due, exp.remaining)
	}
	if e.log != nil && len(e.expiries) > 0 {
		e.log.Debug("Resumed %d alert expiries", len(e.expiries))
	}
}

// Suspended reports whether expiries are currently stopped.
func (e *Engine) Suspended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suspended
}

// PendingExpiries is the number of removals not yet fired or cancelled,
// suspended ones included.
func (e *Engine) PendingExpiries() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.expiries)
}

// schedule arms the removal of id after d. Caller holds e.mu.
func (e *Engine) schedule(id string, due time.Time, d time.Duration) *expiry {
	exp := &expiry{due: due, remaining: d}
	if !e.suspended {
		exp.timer = e.clock.AfterFunc(d, func() { e.expire(id, exp) })
	}
	return exp
}

// expire runs on a timer goroutine. A callback whose expiry was replaced or
// suspended after it fired is dropped.
func (e *Engine) expire(id string, exp *expiry) {
	e.mu.Lock()
	if e.suspended || e.expiries[id] != exp {
		e.mu.Unlock()
		return
	}
	alert, ok := e.remove(id)
	listener := e.listener
	e.mu.Unlock()

	if !ok {
		return
	}

	if e.log != nil {
		e.log.Debug("Alert expired: %s", id)
	}
	notify(listener, models.AlertEvent{Type: models.AlertExpired, AlertID: id, Alert: &alert})
}

// remove deletes id from the collection and cancels its expiry. Caller holds e.mu.
func (e *Engine) remove(id string) (models.Alert, bool) {
	if exp, ok := e.expiries[id]; ok {
		exp.stop()
		delete(e.expiries, id)
	}

	for i, a := range e.active {
		if a.ID == id {
			e.active = append(e.active[:i], e.active[i+1:]...)
			return a, true
		}
	}
	return models.Alert{}, false
}

func (x *expiry) stop() {
	if x.timer != nil {
		x.timer.Stop()
		x.timer = nil
	}
}

func notify(l Listener, evt models.AlertEvent) {
	if l != nil {
		l(evt)
	}
}
