package testfixtures

import (
	"log/slog"
	"testing"
	"time"

	"github.com/example/calendar-core/internal/application"
	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/store"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Location    *time.Location
	WeekStart   time.Weekday
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with UTC days and Sunday weeks.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(""),
		Location:    time.UTC,
		WeekStart:   time.Sunday,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("")
	}
	if factory.Location == nil {
		factory.Location = time.UTC
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

// WithLocation overrides the display location.
func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Location = loc
	}
}

// WithWeekStart overrides the first day of the week.
func WithWeekStart(day time.Weekday) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.WeekStart = day
	}
}

// Services bundles a store with the services built on top of it.
type Services struct {
	Store  *store.Store
	Events *application.EventService
	Views  *application.ViewService
}

// NewServices builds a store seeded with events plus event and view services
// sharing the factory clock, ID generator and location. The view service is
// closed when tb finishes.
func (f *ServiceFactory) NewServices(tb testing.TB, events ...calendar.Event) Services {
	tb.Helper()

	st := store.New(events...)
	eventSvc := application.NewEventService(st, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), application.EventServiceOptions{
		Location: f.Location,
		Logger:   f.Logger,
	})
	viewSvc, err := application.NewViewService(st, f.Clock.NowFunc(), application.ViewServiceOptions{
		Location:  f.Location,
		WeekStart: f.WeekStart,
		Logger:    f.Logger,
	})
	if err != nil {
		tb.Fatalf("NewViewService returned error: %v", err)
	}
	tb.Cleanup(viewSvc.Close)

	return Services{Store: st, Events: eventSvc, Views: viewSvc}
}
