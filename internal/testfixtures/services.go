package testfixtures

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/booking-screen/internal/application"
	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/calendar"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("screen"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("screen")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// Validator returns a calendar validator driven by the factory clock in UTC.
func (f *ServiceFactory) Validator() *calendar.Validator {
	return calendar.NewValidator(f.Clock.NowFunc(), time.UTC)
}

// ScreenServiceDeps captures dependencies for constructing a screen service.
// A nil Store is replaced by a fresh ScreenStore.
type ScreenServiceDeps struct {
	Store       application.ScreenStore
	Catalog     *booking.Catalog
	Metrics     application.ScreenMetrics
	Diagnostics application.DiagnosticsLogger
	Logger      *slog.Logger
}

// NewScreenService builds a screen service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewScreenService(deps ScreenServiceDeps) *application.ScreenService {
	store := deps.Store
	if store == nil {
		store = NewScreenStore()
	}
	return application.NewScreenService(application.ScreenServiceDeps{
		Store:       store,
		Validator:   f.Validator(),
		Catalog:     deps.Catalog,
		IDGenerator: f.IDGenerator.NextFunc(),
		Now:         f.Clock.NowFunc(),
		Logger:      deps.Logger,
		Metrics:     deps.Metrics,
		Diagnostics: deps.Diagnostics,
	})
}

// ScreenStore is a map backed application.ScreenStore.
type ScreenStore struct {
	mu      sync.Mutex
	records map[string]application.ScreenRecord
}

// NewScreenStore returns an empty store.
func NewScreenStore() *ScreenStore {
	return &ScreenStore{records: make(map[string]application.ScreenRecord)}
}

func (s *ScreenStore) SaveScreen(ctx context.Context, record application.ScreenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *ScreenStore) GetScreen(ctx context.Context, id string) (application.ScreenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return application.ScreenRecord{}, application.ErrNotFound
	}
	return record, nil
}

func (s *ScreenStore) DeleteScreen(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return application.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *ScreenStore) CountScreens(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

// Put stores fixture directly, bypassing the service.
func (s *ScreenStore) Put(fixture ScreenFixture) {
	s.mu.Lock()
	s.records[fixture.ID] = fixture.Record()
	s.mu.Unlock()
}
