package campus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type memStore struct {
	data    map[string]interface{}
	failing bool
	sets    int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]interface{})}
}

func (s *memStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.failing {
		return false, errors.New("redis down")
	}
	v, ok := s.data[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *Menu:
		*d = *v.(*Menu)
	case *[]Departure:
		*d = v.([]Departure)
	}
	return true, nil
}

func (s *memStore) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.failing {
		return errors.New("redis down")
	}
	s.data[key] = value
	s.sets++
	return nil
}

type countingMenuProvider struct {
	calls int
	err   error
}

func (p *countingMenuProvider) FetchMenu(ctx context.Context, date string) (*Menu, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &Menu{Date: date, Meals: []Meal{{Name: "Pasta", Station: "Main", Price: "3.50"}}}, nil
}

type countingBusProvider struct {
	calls int
}

func (p *countingBusProvider) FetchDepartures(ctx context.Context, line string) ([]Departure, error) {
	p.calls++
	return []Departure{{Line: line, Destination: "Main Station", Time: "08:15"}}, nil
}

func TestMenuCacheAside(t *testing.T) {
	menu := &countingMenuProvider{}
	store := newMemStore()
	svc := NewService(menu, &countingBusProvider{}, store)
	ctx := context.Background()

	first, err := svc.Menu(ctx, "2026-08-27")
	if err != nil {
		t.Fatalf("Menu() error: %v", err)
	}
	second, err := svc.Menu(ctx, "2026-08-27")
	if err != nil {
		t.Fatalf("Menu() error: %v", err)
	}

	if menu.calls != 1 {
		t.Errorf("upstream fetched %d times, want 1", menu.calls)
	}
	if store.sets != 1 {
		t.Errorf("cache written %d times, want 1", store.sets)
	}
	if first.Date != second.Date || len(second.Meals) != 1 {
		t.Errorf("cached menu differs from fetched one: %+v vs %+v", first, second)
	}

	// A different date is a separate cache entry.
	if _, err := svc.Menu(ctx, "2026-08-28"); err != nil {
		t.Fatalf("Menu() error: %v", err)
	}
	if menu.calls != 2 {
		t.Errorf("upstream fetched %d times after second date, want 2", menu.calls)
	}
}

func TestMenuCacheFailureDegradesToFetch(t *testing.T) {
	menu := &countingMenuProvider{}
	store := newMemStore()
	store.failing = true
	svc := NewService(menu, &countingBusProvider{}, store)

	got, err := svc.Menu(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("Menu() error with broken cache: %v", err)
	}
	if len(got.Meals) != 1 {
		t.Errorf("Meals = %v, want the fetched menu", got.Meals)
	}
	if menu.calls != 1 {
		t.Errorf("upstream fetched %d times, want 1", menu.calls)
	}
}

func TestMenuUpstreamErrorPropagates(t *testing.T) {
	menu := &countingMenuProvider{err: errors.New("feed gone")}
	svc := NewService(menu, &countingBusProvider{}, newMemStore())

	if _, err := svc.Menu(context.Background(), "2026-08-27"); err == nil {
		t.Fatal("expected upstream error")
	}
}

func TestBusDepartures(t *testing.T) {
	bus := &countingBusProvider{}
	svc := NewService(&countingMenuProvider{}, bus, newMemStore())
	ctx := context.Background()

	if _, err := svc.BusDepartures(ctx, ""); !errors.Is(err, ErrLineRequired) {
		t.Errorf("empty line error = %v, want ErrLineRequired", err)
	}

	first, err := svc.BusDepartures(ctx, "31")
	if err != nil {
		t.Fatalf("BusDepartures() error: %v", err)
	}
	if _, err := svc.BusDepartures(ctx, "31"); err != nil {
		t.Fatalf("BusDepartures() error: %v", err)
	}
	if bus.calls != 1 {
		t.Errorf("upstream fetched %d times, want 1", bus.calls)
	}
	if len(first) != 1 || first[0].Line != "31" {
		t.Errorf("departures = %+v, want one for line 31", first)
	}
}

func TestHTTPMenuProviderParsesXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date"); got != "2026-08-27" {
			t.Errorf("date query = %q, want 2026-08-27", got)
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<menu date="2026-08-27">
  <meal><name>Pasta</name><station>Main</station><price>3.50</price></meal>
  <meal><name>Soup</name><station>Green</station><price>2.20</price></meal>
</menu>`))
	}))
	defer srv.Close()

	menu, err := NewHTTPMenuProvider(srv.URL).FetchMenu(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("FetchMenu() error: %v", err)
	}
	if menu.Date != "2026-08-27" {
		t.Errorf("Date = %q, want 2026-08-27", menu.Date)
	}
	if len(menu.Meals) != 2 || menu.Meals[0].Name != "Pasta" || menu.Meals[1].Station != "Green" {
		t.Errorf("Meals = %+v, want parsed Pasta and Soup", menu.Meals)
	}
}

func TestHTTPMenuProviderUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewHTTPMenuProvider(srv.URL).FetchMenu(context.Background(), "2026-08-27"); err == nil {
		t.Fatal("expected error for non-200 upstream")
	}
}

func TestHTTPBusProviderParsesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"line":"31","destination":"Main Station","time":"08:15"}]`))
	}))
	defer srv.Close()

	departures, err := NewHTTPBusProvider(srv.URL).FetchDepartures(context.Background(), "31")
	if err != nil {
		t.Fatalf("FetchDepartures() error: %v", err)
	}
	if len(departures) != 1 || departures[0].Destination != "Main Station" {
		t.Errorf("departures = %+v, want one to Main Station", departures)
	}
}
