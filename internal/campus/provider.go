// Package campus proxies the university's public feeds (canteen menu, bus
// timetable) behind a Redis cache so the upstreams only see a handful of
// requests per day.
package campus

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Meal is one canteen offering.
type Meal struct {
	Name    string `xml:"name" json:"name"`
	Station string `xml:"station" json:"station"`
	Price   string `xml:"price" json:"price"`
}

// Menu is the canteen menu for one day.
type Menu struct {
	XMLName xml.Name `xml:"menu" json:"-"`
	Date    string   `xml:"date,attr" json:"date"`
	Meals   []Meal   `xml:"meal" json:"meals"`
}

// Departure is one scheduled bus departure.
type Departure struct {
	Line        string `json:"line"`
	Destination string `json:"destination"`
	Time        string `json:"time"`
}

// MenuProvider fetches the canteen menu for a date.
type MenuProvider interface {
	FetchMenu(ctx context.Context, date string) (*Menu, error)
}

// BusProvider fetches the departure timetable for a bus line.
type BusProvider interface {
	FetchDepartures(ctx context.Context, line string) ([]Departure, error)
}

// HTTPMenuProvider reads the canteen's XML feed.
type HTTPMenuProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPMenuProvider creates a provider for the XML feed at baseURL.
func NewHTTPMenuProvider(baseURL string) *HTTPMenuProvider {
	return &HTTPMenuProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPMenuProvider) FetchMenu(ctx context.Context, date string) (*Menu, error) {
	u := fmt.Sprintf("%s?date=%s", p.baseURL, url.QueryEscape(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu feed unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu feed returned status %d", resp.StatusCode)
	}

	var menu Menu
	if err := xml.NewDecoder(resp.Body).Decode(&menu); err != nil {
		return nil, fmt.Errorf("malformed menu feed: %w", err)
	}
	if menu.Date == "" {
		menu.Date = date
	}
	return &menu, nil
}

// HTTPBusProvider reads the transit authority's JSON timetable feed.
type HTTPBusProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBusProvider creates a provider for the JSON feed at baseURL.
func NewHTTPBusProvider(baseURL string) *HTTPBusProvider {
	return &HTTPBusProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPBusProvider) FetchDepartures(ctx context.Context, line string) ([]Departure, error) {
	u := fmt.Sprintf("%s?line=%s", p.baseURL, url.QueryEscape(line))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bus feed unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bus feed returned status %d", resp.StatusCode)
	}

	var departures []Departure
	if err := json.NewDecoder(resp.Body).Decode(&departures); err != nil {
		return nil, fmt.Errorf("malformed bus feed: %w", err)
	}
	return departures, nil
}
