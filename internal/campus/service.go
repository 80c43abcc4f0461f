package campus

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrLineRequired is returned when a bus lookup has no line.
var ErrLineRequired = errors.New("bus line is required")

const (
	menuTTL = 6 * time.Hour
	busTTL  = 24 * time.Hour
)

// Store is the slice of the cache layer the service needs.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service serves the campus feeds cache-aside: Redis first, upstream on a
// miss. Cache failures degrade to a direct fetch instead of erroring.
type Service struct {
	menu  MenuProvider
	bus   BusProvider
	store Store
}

// NewService creates a campus Service.
func NewService(menu MenuProvider, bus BusProvider, store Store) *Service {
	return &Service{menu: menu, bus: bus, store: store}
}

// Menu returns the canteen menu for a date (today when empty).
func (s *Service) Menu(ctx context.Context, date string) (*Menu, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	key := "menu:" + date

	var cached Menu
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("campus: menu cache read failed: %v", err)
	}
	if hit {
		return &cached, nil
	}

	menu, err := s.menu.FetchMenu(ctx, date)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetWithTTL(ctx, key, menu, menuTTL); err != nil {
		log.Printf("campus: menu cache write failed: %v", err)
	}
	return menu, nil
}

// BusDepartures returns the timetable for a bus line.
func (s *Service) BusDepartures(ctx context.Context, line string) ([]Departure, error) {
	if line == "" {
		return nil, ErrLineRequired
	}
	key := "bus:" + line

	var cached []Departure
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("campus: bus cache read failed: %v", err)
	}
	if hit {
		return cached, nil
	}

	departures, err := s.bus.FetchDepartures(ctx, line)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetWithTTL(ctx, key, departures, busTTL); err != nil {
		log.Printf("campus: bus cache write failed: %v", err)
	}
	return departures, nil
}
