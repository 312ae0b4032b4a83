package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/calendar"
	"github.com/example/booking-screen/internal/navigation"
	"github.com/example/booking-screen/internal/persistence"
)

type screenStoreStub struct {
	mu      sync.Mutex
	records map[string]ScreenRecord
	saves   int

	getErr  error
	saveErr error
}

func newScreenStoreStub() *screenStoreStub {
	return &screenStoreStub{records: make(map[string]ScreenRecord)}
}

func (s *screenStoreStub) SaveScreen(ctx context.Context, record ScreenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records[record.ID] = record
	return nil
}

func (s *screenStoreStub) GetScreen(ctx context.Context, id string) (ScreenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return ScreenRecord{}, s.getErr
	}
	record, ok := s.records[id]
	if !ok {
		return ScreenRecord{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *screenStoreStub) DeleteScreen(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *screenStoreStub) CountScreens(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

type metricsRecorder struct {
	mu            sync.Mutex
	transitions   map[string]int
	confirmations int
	navigations   []string
	active        int
}

func (m *metricsRecorder) ObserveTransition(operation string, applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitions == nil {
		m.transitions = make(map[string]int)
	}
	m.transitions[fmt.Sprintf("%s/%t", operation, applied)]++
}

func (m *metricsRecorder) ObserveConfirmation() {
	m.mu.Lock()
	m.confirmations++
	m.mu.Unlock()
}

func (m *metricsRecorder) ObserveNavigation(target string) {
	m.mu.Lock()
	m.navigations = append(m.navigations, target)
	m.mu.Unlock()
}

func (m *metricsRecorder) SetActiveScreens(count int) {
	m.mu.Lock()
	m.active = count
	m.mu.Unlock()
}

type diagnosticsRecorder struct {
	mu       sync.Mutex
	screen   string
	messages []string
}

func (d *diagnosticsRecorder) SetScreen(name string) {
	d.mu.Lock()
	d.screen = name
	d.mu.Unlock()
}

func (d *diagnosticsRecorder) Info(message string, payload any) {
	d.mu.Lock()
	d.messages = append(d.messages, "info:"+message)
	d.mu.Unlock()
}

func (d *diagnosticsRecorder) Warn(message string, payload any) {
	d.mu.Lock()
	d.messages = append(d.messages, "warn:"+message)
	d.mu.Unlock()
}

func (d *diagnosticsRecorder) has(message string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.messages {
		if m == message {
			return true
		}
	}
	return false
}

type serviceHarness struct {
	svc         *ScreenService
	store       *screenStoreStub
	metrics     *metricsRecorder
	diagnostics *diagnosticsRecorder
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()
	now := func() time.Time { return time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC) }
	counter := 0
	h := &serviceHarness{
		store:       newScreenStoreStub(),
		metrics:     &metricsRecorder{},
		diagnostics: &diagnosticsRecorder{},
	}
	h.svc = NewScreenService(ScreenServiceDeps{
		Store:     h.store,
		Validator: calendar.NewValidator(now, time.UTC),
		Catalog:   booking.DefaultCatalog(),
		IDGenerator: func() string {
			counter++
			return fmt.Sprintf("screen-%d", counter)
		},
		Now:         now,
		Metrics:     h.metrics,
		Diagnostics: h.diagnostics,
	})
	return h
}

func (h *serviceHarness) enter(t *testing.T) string {
	t.Helper()
	result, err := h.svc.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter returned error: %v", err)
	}
	return result.ID
}

func TestScreenService_Enter(t *testing.T) {
	h := newServiceHarness(t)

	result, err := h.svc.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter returned error: %v", err)
	}
	if result.ID != "screen-1" {
		t.Fatalf("expected generated id screen-1, got %q", result.ID)
	}
	if result.View.MonthLabel != "January 2024" {
		t.Fatalf("expected current month, got %q", result.View.MonthLabel)
	}
	if result.View.Summary != nil || result.View.Button.Enabled {
		t.Fatalf("fresh screen should have nothing selected: %+v", result.View)
	}
	if h.metrics.active != 1 {
		t.Fatalf("expected active gauge 1, got %d", h.metrics.active)
	}
	if h.diagnostics.screen != BookingScreenName || !h.diagnostics.has("info:Screen opened") {
		t.Fatalf("expected bridge to report screen opening, got %+v", h.diagnostics)
	}

	t.Run("requires an id", func(t *testing.T) {
		svc := NewScreenService(ScreenServiceDeps{Store: newScreenStoreStub()})
		if _, err := svc.Enter(context.Background()); err == nil {
			t.Fatalf("expected error for empty id")
		}
	})

	t.Run("requires a store", func(t *testing.T) {
		svc := NewScreenService(ScreenServiceDeps{})
		if _, err := svc.Enter(context.Background()); err == nil {
			t.Fatalf("expected error without store")
		}
	})
}

func TestScreenService_BookingJourney(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	id := h.enter(t)

	past, err := h.svc.SelectDate(ctx, id, 5)
	if err != nil {
		t.Fatalf("SelectDate returned error: %v", err)
	}
	if past.Applied {
		t.Fatalf("past day should not be selectable")
	}
	if !h.diagnostics.has("warn:Date selection ignored") {
		t.Fatalf("expected ignored selection to be reported")
	}

	picked, err := h.svc.SelectDate(ctx, id, 15)
	if err != nil || !picked.Applied {
		t.Fatalf("SelectDate(15) = %+v, %v", picked, err)
	}

	timed, err := h.svc.SelectTime(ctx, id, "10:00 AM")
	if err != nil || !timed.Applied {
		t.Fatalf("SelectTime = %+v, %v", timed, err)
	}
	if timed.View.Summary == nil || timed.View.Summary.LongDate != "Monday, January 15, 2024" {
		t.Fatalf("expected summary for complete selection, got %+v", timed.View.Summary)
	}

	confirmed, err := h.svc.Confirm(ctx, id)
	if err != nil || !confirmed.Applied {
		t.Fatalf("Confirm = %+v, %v", confirmed, err)
	}
	if confirmed.View.Acknowledgement == nil || confirmed.View.Acknowledgement.Title != "Success" {
		t.Fatalf("expected pending acknowledgement, got %+v", confirmed.View.Acknowledgement)
	}
	if confirmed.Navigated() {
		t.Fatalf("confirmation must wait for acknowledgement before navigating")
	}

	again, err := h.svc.Confirm(ctx, id)
	if err != nil || again.Applied {
		t.Fatalf("second Confirm = %+v, %v", again, err)
	}
	locked, err := h.svc.SelectDate(ctx, id, 20)
	if err != nil || locked.Applied {
		t.Fatalf("SelectDate after confirm = %+v, %v", locked, err)
	}

	stored, err := h.store.GetScreen(ctx, id)
	if err != nil {
		t.Fatalf("GetScreen returned error: %v", err)
	}
	if stored.Snapshot.SelectedDate != "2024-01-15" || !stored.Snapshot.Confirmed {
		t.Fatalf("unexpected stored snapshot %+v", stored.Snapshot)
	}

	dismissed, err := h.svc.Dismiss(ctx, id)
	if err != nil {
		t.Fatalf("Dismiss returned error: %v", err)
	}
	if !dismissed.Applied || dismissed.NavigateTo != navigation.HomeScreen {
		t.Fatalf("expected hand-off to HomeScreen, got %+v", dismissed)
	}
	if dismissed.View.Stage != booking.StageFinished {
		t.Fatalf("expected finished stage, got %s", dismissed.View.Stage)
	}

	if _, err := h.svc.View(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected screen to be discarded, got %v", err)
	}
	if h.metrics.confirmations != 1 {
		t.Fatalf("expected one confirmation, got %d", h.metrics.confirmations)
	}
	if len(h.metrics.navigations) != 1 || h.metrics.navigations[0] != "HomeScreen" {
		t.Fatalf("expected one navigation to HomeScreen, got %v", h.metrics.navigations)
	}
	if h.metrics.active != 0 {
		t.Fatalf("expected active gauge 0, got %d", h.metrics.active)
	}
	if h.metrics.transitions["Confirm/false"] != 1 || h.metrics.transitions["Confirm/true"] != 1 {
		t.Fatalf("unexpected transition counts %v", h.metrics.transitions)
	}
}

func TestScreenService_MonthNavigation(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	id := h.enter(t)

	prev, err := h.svc.PrevMonth(ctx, id)
	if err != nil {
		t.Fatalf("PrevMonth returned error: %v", err)
	}
	if prev.View.MonthLabel != "December 2023" {
		t.Fatalf("expected December 2023, got %q", prev.View.MonthLabel)
	}

	if _, err := h.svc.NextMonth(ctx, id); err != nil {
		t.Fatalf("NextMonth returned error: %v", err)
	}
	next, err := h.svc.NextMonth(ctx, id)
	if err != nil {
		t.Fatalf("NextMonth returned error: %v", err)
	}
	if next.View.MonthLabel != "February 2024" {
		t.Fatalf("expected February 2024, got %q", next.View.MonthLabel)
	}

	view, err := h.svc.View(ctx, id)
	if err != nil || view.View.MonthLabel != "February 2024" {
		t.Fatalf("expected displayed month to be persisted, got %+v, %v", view.View.MonthLabel, err)
	}
}

func TestScreenService_Validation(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	id := h.enter(t)
	saves := h.store.saves

	t.Run("unknown slot", func(t *testing.T) {
		_, err := h.svc.SelectTime(ctx, id, "01:00 PM")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["slot"]; !ok {
			t.Fatalf("expected slot field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("day out of range", func(t *testing.T) {
		for _, day := range []int{0, 32, -1} {
			var vErr *ValidationError
			if _, err := h.svc.SelectDate(ctx, id, day); !errors.As(err, &vErr) {
				t.Fatalf("SelectDate(%d): expected ValidationError, got %v", day, err)
			}
		}
	})

	t.Run("day missing from month", func(t *testing.T) {
		if _, err := h.svc.NextMonth(ctx, id); err != nil {
			t.Fatalf("NextMonth returned error: %v", err)
		}
		result, err := h.svc.SelectDate(ctx, id, 30)
		if err != nil || result.Applied {
			t.Fatalf("February 30 should be ignored, got %+v, %v", result, err)
		}
	})

	t.Run("unknown tab", func(t *testing.T) {
		var vErr *ValidationError
		if _, err := h.svc.PressTab(ctx, id, "Settings"); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	if h.store.saves != saves+1 {
		t.Fatalf("only the month change should have been saved, saves went %d -> %d", saves, h.store.saves)
	}
}

func TestScreenService_PressTab(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	id := h.enter(t)

	stay, err := h.svc.PressTab(ctx, id, "bookings")
	if err != nil {
		t.Fatalf("PressTab(bookings) returned error: %v", err)
	}
	if stay.Navigated() {
		t.Fatalf("Bookings tab should stay, got %+v", stay)
	}

	leave, err := h.svc.PressTab(ctx, id, "Account")
	if err != nil {
		t.Fatalf("PressTab(Account) returned error: %v", err)
	}
	if leave.NavigateTo != navigation.MenuScreen {
		t.Fatalf("expected MenuScreen, got %q", leave.NavigateTo)
	}
	if _, err := h.svc.View(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected screen to be discarded after navigation, got %v", err)
	}
}

func TestScreenService_Leave(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	id := h.enter(t)

	if err := h.svc.Leave(ctx, id); err != nil {
		t.Fatalf("Leave returned error: %v", err)
	}
	if err := h.svc.Leave(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound leaving twice, got %v", err)
	}
}

func TestScreenService_StoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown screen", func(t *testing.T) {
		h := newServiceHarness(t)
		for name, call := range map[string]func() error{
			"View":    func() error { _, err := h.svc.View(ctx, "missing"); return err },
			"Confirm": func() error { _, err := h.svc.Confirm(ctx, "missing"); return err },
			"Dismiss": func() error { _, err := h.svc.Dismiss(ctx, "missing"); return err },
			"Empty":   func() error { _, err := h.svc.NextMonth(ctx, " "); return err },
		} {
			if err := call(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
			}
		}
	})

	t.Run("unexpected failures are wrapped", func(t *testing.T) {
		h := newServiceHarness(t)
		id := h.enter(t)
		boom := errors.New("connection reset")
		h.store.getErr = boom

		_, err := h.svc.SelectDate(ctx, id, 15)
		if !errors.Is(err, boom) || ErrorKind(err) != "unexpected" {
			t.Fatalf("expected wrapped store error, got %v (%s)", err, ErrorKind(err))
		}
	})

	t.Run("corrupt snapshot", func(t *testing.T) {
		h := newServiceHarness(t)
		id := h.enter(t)
		record := h.store.records[id]
		record.Snapshot.Stage = "finished"
		h.store.records[id] = record

		if _, err := h.svc.View(ctx, id); !errors.Is(err, booking.ErrInvalidSnapshot) {
			t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
		}
	})
}

func TestScreenService_ConcurrentActionsOnOneScreen(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	id := h.enter(t)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = h.svc.NextMonth(ctx, id)
				return
			}
			_, _ = h.svc.PrevMonth(ctx, id)
		}(i)
	}
	wg.Wait()

	view, err := h.svc.View(ctx, id)
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if view.View.MonthLabel != "January 2024" {
		t.Fatalf("balanced moves should return to January 2024, got %q", view.View.MonthLabel)
	}
	if size := h.svc.locks.size(); size != 0 {
		t.Fatalf("expected lock table to drain, got %d entries", size)
	}
}
