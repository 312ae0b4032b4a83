package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/calendar"
	"github.com/example/booking-screen/internal/navigation"
	"github.com/example/booking-screen/internal/persistence"
)

// BookingScreenName is reported to the diagnostics bridge while a booking
// screen is handled.
const BookingScreenName = string(navigation.BookingScreen)

var screenTracer = otel.Tracer("booking-screen.internal.application")

// ScreenStore captures the persistence operations needed by the service.
type ScreenStore interface {
	SaveScreen(ctx context.Context, record ScreenRecord) error
	GetScreen(ctx context.Context, id string) (ScreenRecord, error)
	DeleteScreen(ctx context.Context, id string) error
	CountScreens(ctx context.Context) (int, error)
}

// ScreenMetrics receives counters for screen activity.
type ScreenMetrics interface {
	ObserveTransition(operation string, applied bool)
	ObserveConfirmation()
	ObserveNavigation(target string)
	SetActiveScreens(count int)
}

// DiagnosticsLogger is the slice of the diagnostics bridge used by the service.
type DiagnosticsLogger interface {
	SetScreen(name string)
	Info(message string, payload any)
	Warn(message string, payload any)
}

// ScreenServiceDeps captures dependencies for constructing a screen service.
type ScreenServiceDeps struct {
	Store       ScreenStore
	Validator   *calendar.Validator
	Catalog     *booking.Catalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
	Metrics     ScreenMetrics
	Diagnostics DiagnosticsLogger
}

// ScreenService opens booking screens and applies user actions to them. Each
// screen is loaded, changed and saved under a per-screen lock so concurrent
// requests for one screen apply in arrival order.
type ScreenService struct {
	store       ScreenStore
	validator   *calendar.Validator
	catalog     *booking.Catalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	metrics     ScreenMetrics
	diagnostics DiagnosticsLogger
	locks       *keyedLock
}

// NewScreenService constructs a screen service with the provided dependencies.
func NewScreenService(deps ScreenServiceDeps) *ScreenService {
	svc := &ScreenService{
		store:       deps.Store,
		validator:   deps.Validator,
		catalog:     deps.Catalog,
		idGenerator: deps.IDGenerator,
		now:         deps.Now,
		logger:      defaultLogger(deps.Logger),
		metrics:     deps.Metrics,
		diagnostics: deps.Diagnostics,
		locks:       newKeyedLock(),
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.validator == nil {
		svc.validator = calendar.NewValidator(svc.now, nil)
	}
	if svc.catalog == nil {
		svc.catalog = booking.DefaultCatalog()
	}
	if svc.idGenerator == nil {
		svc.idGenerator = func() string { return "" }
	}
	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
	if svc.diagnostics == nil {
		svc.diagnostics = noopDiagnostics{}
	}
	return svc
}

// Catalog returns the slots offered by every screen.
func (s *ScreenService) Catalog() *booking.Catalog {
	return s.catalog
}

func (s *ScreenService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScreenService", operation, attrs...)
}

func startSpan(ctx context.Context, operation, screenID string) (context.Context, trace.Span) {
	ctx, span := screenTracer.Start(ctx, "ScreenService."+operation)
	if screenID != "" {
		span.SetAttributes(attribute.String("booking.screen_id", screenID))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
	}
	span.End()
}

// Enter opens a new booking screen showing the current month with nothing selected.
func (s *ScreenService) Enter(ctx context.Context) (result ScreenResult, err error) {
	if s == nil {
		err = fmt.Errorf("ScreenService is nil")
		return
	}
	if s.store == nil {
		err = fmt.Errorf("screen store not configured")
		return
	}

	ctx, span := startSpan(ctx, "Enter", "")
	logger := s.loggerWith(ctx, "Enter")
	defer func() {
		endSpan(span, err)
		if err != nil {
			logger.ErrorContext(ctx, "failed to open screen", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("screen_id", result.ID).InfoContext(ctx, "screen opened")
	}()

	screen := booking.NewScreen(s.validator, s.catalog)
	now := s.now()
	record := ScreenRecord{
		ID:        strings.TrimSpace(s.idGenerator()),
		Snapshot:  screen.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if record.ID == "" {
		err = fmt.Errorf("screen id generator returned an empty id")
		return
	}

	if err = s.store.SaveScreen(ctx, record); err != nil {
		err = mapStoreError(err)
		return
	}

	s.diagnostics.SetScreen(BookingScreenName)
	s.diagnostics.Info("Screen opened", map[string]string{"screen_id": record.ID, "month": screen.Machine().Month().Key()})
	s.refreshActive(ctx, logger)

	result = ScreenResult{ID: record.ID, View: screen.View()}
	return
}

// View returns the current render model of a screen.
func (s *ScreenService) View(ctx context.Context, id string) (result ScreenResult, err error) {
	if s == nil {
		err = fmt.Errorf("ScreenService is nil")
		return
	}

	ctx, span := startSpan(ctx, "View", id)
	defer func() { endSpan(span, err) }()

	var screen *booking.Screen
	if screen, _, err = s.load(ctx, id); err != nil {
		s.loggerWith(ctx, "View", "screen_id", id).
			WarnContext(ctx, "failed to load screen", "error", err, "error_kind", ErrorKind(err))
		return
	}
	result = ScreenResult{ID: id, View: screen.View()}
	return
}

// NextMonth moves the screen one month forward.
func (s *ScreenService) NextMonth(ctx context.Context, id string) (ScreenResult, error) {
	return s.moveMonth(ctx, "NextMonth", id, (*booking.Screen).NextMonth)
}

// PrevMonth moves the screen one month back.
func (s *ScreenService) PrevMonth(ctx context.Context, id string) (ScreenResult, error) {
	return s.moveMonth(ctx, "PrevMonth", id, (*booking.Screen).PrevMonth)
}

func (s *ScreenService) moveMonth(ctx context.Context, operation, id string, move func(*booking.Screen) calendar.Month) (result ScreenResult, err error) {
	var transition TransitionResult
	transition, err = s.transition(ctx, operation, id, func(screen *booking.Screen, _ navigation.Host) (bool, error) {
		month := move(screen)
		s.diagnostics.Info("Month changed", map[string]string{"month": month.Key()})
		return true, nil
	})
	if err != nil {
		return
	}
	result = ScreenResult{ID: transition.ID, View: transition.View}
	return
}

// SelectDate picks a day of the displayed month. Days outside 1..31 are
// rejected; days that are past, outside the month or blocked by a
// confirmation leave the screen untouched and report Applied false.
func (s *ScreenService) SelectDate(ctx context.Context, id string, day int) (TransitionResult, error) {
	if day < 1 || day > 31 {
		return TransitionResult{}, newValidationError("day", "day must be between 1 and 31")
	}
	return s.transition(ctx, "SelectDate", id, func(screen *booking.Screen, _ navigation.Host) (bool, error) {
		applied := screen.SelectDate(day)
		month := screen.Machine().Month()
		payload := map[string]any{"year": month.Year, "month_index": month.Index, "day": day}
		if applied {
			s.diagnostics.Info("Date selected", payload)
		} else {
			s.diagnostics.Warn("Date selection ignored", payload)
		}
		return applied, nil
	})
}

// SelectTime picks a slot from the catalog. Slots the catalog does not offer
// are rejected with a ValidationError.
func (s *ScreenService) SelectTime(ctx context.Context, id, slot string) (TransitionResult, error) {
	if s == nil {
		return TransitionResult{}, fmt.Errorf("ScreenService is nil")
	}
	timeSlot, ok := s.catalog.Lookup(slot)
	if !ok {
		return TransitionResult{}, newValidationError("slot", fmt.Sprintf("%q is not an offered time slot", slot))
	}
	return s.transition(ctx, "SelectTime", id, func(screen *booking.Screen, _ navigation.Host) (bool, error) {
		applied := screen.SelectTime(timeSlot)
		payload := map[string]string{"time": string(timeSlot)}
		if applied {
			s.diagnostics.Info("Time selected", payload)
		} else {
			s.diagnostics.Warn("Time selection ignored", payload)
		}
		return applied, nil
	})
}

// Confirm books the current selection and raises the acknowledgement.
func (s *ScreenService) Confirm(ctx context.Context, id string) (TransitionResult, error) {
	return s.transition(ctx, "Confirm", id, func(screen *booking.Screen, _ navigation.Host) (bool, error) {
		applied := screen.Confirm()
		if !applied {
			s.diagnostics.Warn("Confirmation ignored", map[string]string{"phase": screen.Machine().State().Phase().String()})
			return false, nil
		}
		snap := screen.Snapshot()
		s.metrics.ObserveConfirmation()
		s.diagnostics.Info("Booking confirmed", map[string]string{"date": snap.SelectedDate, "time": snap.SelectedTime})
		return true, nil
	})
}

// Dismiss acknowledges the confirmation. The screen hands off to the home
// screen and is discarded.
func (s *ScreenService) Dismiss(ctx context.Context, id string) (TransitionResult, error) {
	return s.transition(ctx, "Dismiss", id, func(screen *booking.Screen, host navigation.Host) (bool, error) {
		applied := screen.Dismiss(host)
		if applied {
			s.diagnostics.Info("Acknowledgement dismissed", nil)
		}
		return applied, nil
	})
}

// PressTab activates a bottom tab. Tabs that lead elsewhere discard the screen.
func (s *ScreenService) PressTab(ctx context.Context, id, tab string) (TransitionResult, error) {
	parsed, ok := navigation.ParseTab(tab)
	if !ok {
		return TransitionResult{}, newValidationError("tab", fmt.Sprintf("%q is not a tab", tab))
	}
	return s.transition(ctx, "PressTab", id, func(screen *booking.Screen, host navigation.Host) (bool, error) {
		_, navigated := screen.PressTab(parsed, host)
		s.diagnostics.Info("Tab pressed", map[string]string{"tab": string(parsed)})
		return navigated, nil
	})
}

// Leave discards a screen without navigating.
func (s *ScreenService) Leave(ctx context.Context, id string) (err error) {
	if s == nil {
		return fmt.Errorf("ScreenService is nil")
	}
	if s.store == nil {
		return fmt.Errorf("screen store not configured")
	}

	ctx, span := startSpan(ctx, "Leave", id)
	logger := s.loggerWith(ctx, "Leave", "screen_id", id)
	defer func() {
		endSpan(span, err)
		if err != nil {
			logger.ErrorContext(ctx, "failed to leave screen", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "screen left")
	}()

	unlock := s.locks.lock(id)
	defer unlock()

	if err = s.store.DeleteScreen(ctx, id); err != nil {
		err = mapStoreError(err)
		return
	}
	s.diagnostics.Info("Screen left", map[string]string{"screen_id": id})
	s.refreshActive(ctx, logger)
	return
}

type actionFunc func(screen *booking.Screen, host navigation.Host) (bool, error)

// transition loads the screen, applies action under the screen lock and
// either saves the screen or discards it when action navigated away.
func (s *ScreenService) transition(ctx context.Context, operation, id string, action actionFunc) (result TransitionResult, err error) {
	if s == nil {
		err = fmt.Errorf("ScreenService is nil")
		return
	}
	if s.store == nil {
		err = fmt.Errorf("screen store not configured")
		return
	}

	ctx, span := startSpan(ctx, operation, id)
	logger := s.loggerWith(ctx, operation, "screen_id", id)
	defer func() {
		span.SetAttributes(attribute.Bool("booking.applied", result.Applied))
		endSpan(span, err)
		if err != nil {
			logger.ErrorContext(ctx, "screen action failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.metrics.ObserveTransition(operation, result.Applied)
		entry := logger.With("applied", result.Applied, "stage", result.View.Stage.String())
		if result.Navigated() {
			entry = entry.With("navigate_to", string(result.NavigateTo))
		}
		entry.InfoContext(ctx, "screen action handled")
	}()

	unlock := s.locks.lock(id)
	defer unlock()

	screen, record, err := s.load(ctx, id)
	if err != nil {
		return
	}

	host := &navigation.Recorder{}
	s.diagnostics.SetScreen(BookingScreenName)
	applied, err := action(screen, host)
	if err != nil {
		return
	}

	result = TransitionResult{ID: id, Applied: applied, View: screen.View()}
	if dest, ok := host.Last(); ok {
		result.NavigateTo = dest
		if err = s.store.DeleteScreen(ctx, id); err != nil && !errors.Is(err, persistence.ErrNotFound) {
			err = mapStoreError(err)
			return
		}
		err = nil
		s.metrics.ObserveNavigation(string(dest))
		s.diagnostics.Info("Navigating", map[string]string{"to": string(dest)})
		s.refreshActive(ctx, logger)
		return
	}

	if !applied {
		return
	}
	record.Snapshot = screen.Snapshot()
	record.UpdatedAt = s.now()
	if err = s.store.SaveScreen(ctx, record); err != nil {
		err = mapStoreError(err)
	}
	return
}

func (s *ScreenService) load(ctx context.Context, id string) (*booking.Screen, ScreenRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ScreenRecord{}, ErrNotFound
	}
	if s.store == nil {
		return nil, ScreenRecord{}, fmt.Errorf("screen store not configured")
	}
	record, err := s.store.GetScreen(ctx, id)
	if err != nil {
		return nil, ScreenRecord{}, mapStoreError(err)
	}
	screen, err := booking.RestoreScreen(record.Snapshot, s.validator, s.catalog)
	if err != nil {
		return nil, ScreenRecord{}, fmt.Errorf("restore screen %s: %w", id, err)
	}
	return screen, record, nil
}

func (s *ScreenService) refreshActive(ctx context.Context, logger *slog.Logger) {
	count, err := s.store.CountScreens(ctx)
	if err != nil {
		logger.DebugContext(ctx, "failed to count screens", "error", err)
		return
	}
	s.metrics.SetActiveScreens(count)
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return newValidationError("screen_id", "screen id is required")
	}
	return fmt.Errorf("screen store: %w", err)
}

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(string, bool) {}
func (noopMetrics) ObserveConfirmation() {}
func (noopMetrics) ObserveNavigation(string) {}
func (noopMetrics) SetActiveScreens(int) {}

type noopDiagnostics struct{}

func (noopDiagnostics) SetScreen(string) {}
func (noopDiagnostics) Info(string, any) {}
func (noopDiagnostics) Warn(string, any) {}
