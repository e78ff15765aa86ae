package alerting

import (
	"sync"
	"testing"
	"time"

	"ZeroTrustDashboard/internal/models"
	"ZeroTrustDashboard/internal/random"
	"ZeroTrustDashboard/internal/random/randomtest"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	highTmpl   = models.AlertTemplate{Title: "High", Message: "high message", Severity: models.SeverityHigh}
	mediumTmpl = models.AlertTemplate{Title: "Medium", Message: "medium message", Severity: models.SeverityMedium}
	lowTmpl    = models.AlertTemplate{Title: "Low", Message: "low message", Severity: models.SeverityLow}
)

type recorder struct {
	mu     sync.Mutex
	events []models.AlertEvent
}

func (r *recorder) listen(evt models.AlertEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) types() []models.AlertEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AlertEventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// expiry callbacks run on their own goroutines under the fake clock
const (
	waitFor = time.Second
	pollAt  = 5 * time.Millisecond
)

func newTestEngine(rnd random.Source) (*Engine, *clockwork.FakeClock, *recorder) {
	clk := clockwork.NewFakeClockAt(epoch)
	rec := &recorder{}
	e := NewEngine(DefaultConfig(), DefaultCatalog(), rnd, clk, nil)
	e.SetListener(rec.listen)
	return e, clk, rec
}

func assertActive(t *testing.T, e *Engine, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, ids(e.Active()))
	}, waitFor, pollAt, "want active %v, have %v", want, ids(e.Active()))
}

func assertEvents(t *testing.T, rec *recorder, want ...models.AlertEventType) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, rec.types())
	}, waitFor, pollAt, "want events %v, have %v", want, rec.types())
}

func ids(alerts []models.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func TestMaybeTrigger_Probability(t *testing.T) {
	tests := []struct {
		name  string
		draw  float64
		fires bool
	}{
		{"below threshold", 0.01, true},
		{"just below", 0.0299, true},
		{"at threshold", 0.03, false},
		{"above threshold", 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(randomtest.NewSequence([]float64{tt.draw}, []int{0}))

			_, fired := e.MaybeTrigger()
			assert.Equal(t, tt.fires, fired)
			if tt.fires {
				assert.Len(t, e.Active(), 1)
			} else {
				assert.Empty(t, e.Active())
			}
		})
	}
}

func TestMaybeTrigger_RateConverges(t *testing.T) {
	e, _, _ := newTestEngine(random.New(8))

	const n = 20000
	fired := 0
	for i := 0; i < n; i++ {
		if _, ok := e.MaybeTrigger(); ok {
			fired++
		}
	}
	assert.InDelta(t, 0.03, float64(fired)/n, 0.006)
}

func TestRaiseRandom_CopiesTemplateVerbatim(t *testing.T) {
	catalog := DefaultCatalog()
	for idx, tmpl := range catalog {
		e, _, _ := newTestEngine(randomtest.NewSequence(nil, []int{idx}))

		alert := e.RaiseRandom()
		assert.Equal(t, tmpl.Title, alert.Title)
		assert.Equal(t, tmpl.Message, alert.Message)
		assert.Equal(t, tmpl.Severity, alert.Severity)
		assert.Equal(t, epoch, alert.Timestamp)
		assert.NotEmpty(t, alert.ID)
	}
}

func TestRaise_NewestFirst(t *testing.T) {
	e, clk, _ := newTestEngine(random.New(1))

	first := e.Raise(lowTmpl)
	clk.Advance(time.Second)
	second := e.Raise(mediumTmpl)
	clk.Advance(time.Second)
	third := e.Raise(highTmpl)

	assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(e.Active()))
}

func TestRaise_UniqueIDs(t *testing.T) {
	e, _, _ := newTestEngine(random.New(1))

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		a := e.Raise(lowTmpl)
		require.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestExpiry_BySeverity(t *testing.T) {
	tests := []struct {
		tmpl models.AlertTemplate
		ttl  time.Duration
	}{
		{highTmpl, 60 * time.Second},
		{mediumTmpl, 30 * time.Second},
		{lowTmpl, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(string(tt.tmpl.Severity), func(t *testing.T) {
			e, clk, rec := newTestEngine(random.New(1))
			alert := e.Raise(tt.tmpl)
			assert.Equal(t, alert.Timestamp.Add(tt.ttl), alert.ExpiresAt)

			clk.Advance(tt.ttl - time.Second)
			assert.Equal(t, []string{alert.ID}, ids(e.Active()), "still active one second before expiry")

			clk.Advance(2 * time.Second)
			assertActive(t, e)
			assert.Equal(t, 0, e.PendingExpiries())
			assertEvents(t, rec, models.AlertRaised, models.AlertExpired)
		})
	}
}

func TestExpiry_RemovesByIDAfterShifts(t *testing.T) {
	e, clk, _ := newTestEngine(random.New(1))

	high := e.Raise(highTmpl)
	clk.Advance(10 * time.Second)
	medium := e.Raise(mediumTmpl)
	clk.Advance(5 * time.Second)
	low := e.Raise(lowTmpl)

	// medium expires at 40s, low at 45s, high at 60s
	clk.Advance(26 * time.Second)
	assertActive(t, e, low.ID, high.ID)
	assert.NotContains(t, ids(e.Active()), medium.ID)

	clk.Advance(5 * time.Second)
	assertActive(t, e, high.ID)

	clk.Advance(15 * time.Second)
	assertActive(t, e)
}

func TestDismiss_Idempotent(t *testing.T) {
	e, _, rec := newTestEngine(random.New(1))
	keep := e.Raise(lowTmpl)
	target := e.Raise(highTmpl)

	assert.True(t, e.Dismiss(target.ID))
	before := e.Active()

	assert.False(t, e.Dismiss(target.ID))
	assert.False(t, e.Dismiss("does-not-exist"))
	assert.Equal(t, before, e.Active())
	assert.Equal(t, []string{keep.ID}, ids(e.Active()))
	assert.Equal(t, []models.AlertEventType{models.AlertRaised, models.AlertRaised, models.AlertDismissed}, rec.types())
}

func TestDismiss_CancelsExpiry(t *testing.T) {
	e, clk, rec := newTestEngine(random.New(1))
	alert := e.Raise(highTmpl)
	require.Equal(t, 1, e.PendingExpiries())

	e.Dismiss(alert.ID)
	assert.Equal(t, 0, e.PendingExpiries())

	clk.Advance(2 * time.Minute)
	assert.Never(t, func() bool { return len(rec.types()) > 2 }, 50*time.Millisecond, pollAt)
	assert.Equal(t, []models.AlertEventType{models.AlertRaised, models.AlertDismissed}, rec.types())
}

func TestExpire_AfterManualRemovalIsNoop(t *testing.T) {
	e, _, rec := newTestEngine(random.New(1))
	alert := e.Raise(mediumTmpl)
	e.Dismiss(alert.ID)

	assert.NotPanics(t, func() {
		e.expire(alert.ID, nil)
		e.expire(alert.ID, nil)
	})
	assert.Empty(t, e.Active())
	assert.Len(t, rec.types(), 2)
}

func TestClearAll(t *testing.T) {
	e, clk, rec := newTestEngine(random.New(1))
	a := e.Raise(highTmpl)
	e.Raise(mediumTmpl)
	e.Raise(lowTmpl)

	assert.Equal(t, 3, e.ClearAll())
	assert.Empty(t, e.Active())
	assert.Equal(t, 0, e.PendingExpiries())

	assert.False(t, e.Dismiss(a.ID), "dismiss after clear is a no-op")
	assert.NotPanics(t, func() { clk.Advance(2 * time.Minute) })
	assert.Never(t, func() bool { return len(rec.types()) > 4 }, 50*time.Millisecond, pollAt)
	assert.Empty(t, e.Active())

	evts := rec.types()
	assert.Equal(t, models.AlertCleared, evts[len(evts)-1])
	assert.NotContains(t, evts, models.AlertExpired)
}

func TestClearAll_NewAlertsStillExpire(t *testing.T) {
	e, clk, _ := newTestEngine(random.New(1))
	e.Raise(highTmpl)
	e.ClearAll()

	fresh := e.Raise(lowTmpl)
	clk.Advance(29 * time.Second)
	assert.Equal(t, []string{fresh.ID}, ids(e.Active()))
	clk.Advance(2 * time.Second)
	assertActive(t, e)
}

func TestActive_ReturnsCopy(t *testing.T) {
	e, _, _ := newTestEngine(random.New(1))
	e.Raise(lowTmpl)

	active := e.Active()
	active[0].Title = "changed"

	assert.Equal(t, "Low", e.Active()[0].Title)
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.GreaterOrEqual(t, len(catalog), 8)

	severities := map[models.Severity]bool{}
	for _, tmpl := range catalog {
		assert.NotEmpty(t, tmpl.Title)
		assert.NotEmpty(t, tmpl.Message)
		severities[tmpl.Severity] = true
	}
	assert.True(t, severities[models.SeverityLow])
	assert.True(t, severities[models.SeverityMedium])
	assert.True(t, severities[models.SeverityHigh])
}

func TestNewEngine_EmptyCatalogFallsBack(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, random.New(1), clockwork.NewFakeClockAt(epoch), nil)
	alert := e.RaiseRandom()
	assert.NotEmpty(t, alert.Title)
}

func TestSuspend_HoldsExpiriesUntilResume(t *testing.T) {
	e, clk, rec := newTestEngine(random.New(1))
	high := e.Raise(highTmpl)

	clk.Advance(20 * time.Second)
	e.Suspend()
	require.True(t, e.Suspended())

	clk.Advance(5 * time.Minute)
	assert.Never(t, func() bool { return len(e.Active()) == 0 }, 50*time.Millisecond, pollAt)
	assert.Equal(t, 1, e.PendingExpiries())

	e.Resume()
	assert.False(t, e.Suspended())
	resumed := e.Active()[0]
	assert.Equal(t, clk.Now().Add(40*time.Second), resumed.ExpiresAt, "forty seconds were left at suspension")
	assert.Equal(t, high.Timestamp, resumed.Timestamp)

	clk.Advance(39 * time.Second)
	assert.Equal(t, []string{high.ID}, ids(e.Active()))

	clk.Advance(2 * time.Second)
	assertActive(t, e)
	assertEvents(t, rec, models.AlertRaised, models.AlertExpired)
}

func TestSuspend_RaisedWhileSuspendedKeepsFullLifetime(t *testing.T) {
	e, clk, _ := newTestEngine(random.New(1))
	e.Suspend()

	low := e.Raise(lowTmpl)
	clk.Advance(time.Hour)
	assert.Equal(t, []string{low.ID}, ids(e.Active()))

	e.Resume()
	clk.Advance(29 * time.Second)
	assert.Equal(t, []string{low.ID}, ids(e.Active()))
	clk.Advance(2 * time.Second)
	assertActive(t, e)
}

func TestSuspend_DismissAndClearStillWork(t *testing.T) {
	e, _, _ := newTestEngine(random.New(1))
	a := e.Raise(highTmpl)
	e.Raise(lowTmpl)
	e.Suspend()

	assert.True(t, e.Dismiss(a.ID))
	assert.Equal(t, 1, e.PendingExpiries())
	assert.Equal(t, 1, e.ClearAll())
	assert.Equal(t, 0, e.PendingExpiries())

	assert.NotPanics(t, e.Resume)
	assert.Empty(t, e.Active())
}

func TestSuspend_Idempotent(t *testing.T) {
	e, clk, _ := newTestEngine(random.New(1))
	e.Raise(mediumTmpl)

	e.Suspend()
	clk.Advance(10 * time.Second)
	e.Suspend()
	e.Resume()
	e.Resume()

	assert.Equal(t, clk.Now().Add(30*time.Second), e.Active()[0].ExpiresAt)
	assert.Equal(t, 1, e.PendingExpiries())
}

func TestExpire_StaleCallbackIgnored(t *testing.T) {
	e, _, _ := newTestEngine(random.New(1))
	alert := e.Raise(highTmpl)

	e.expire(alert.ID, &expiry{})
	assert.Equal(t, []string{alert.ID}, ids(e.Active()), "callback for a replaced expiry is dropped")
}
