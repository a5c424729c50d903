package grunnbelop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/benefit-engine/generic"
)

// DefaultURL is NAV's public grunnbeløp endpoint.
const DefaultURL = "https://g.nav.no/api/v1/grunnbel%C3%B8p"

// =============================================================================
// HTTP SOURCE - NAV grunnbeløp API
// =============================================================================

// HTTPSource reads G from the NAV API. The response looks like:
//
//	{"dato": "2024-05-01", "grunnbeløp": 124028, "grunnbeløpPerMåned": 10336, ...}
type HTTPSource struct {
	URL    string
	Client *http.Client

	// Date asks for the G in force on that day instead of today.
	Date *time.Time
}

// NewHTTPSource uses a client bounded by timeout; the fetch would otherwise
// block for as long as the remote end keeps the connection open.
func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	return &HTTPSource{URL: rawURL, Client: &http.Client{Timeout: timeout}}
}

type apiResponse struct {
	Date   string           `json:"dato"`
	Amount *decimal.Decimal `json:"grunnbeløp"`
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) (generic.Amount, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return generic.Amount{}, fmt.Errorf("parse url: %w", err)
	}
	if s.Date != nil {
		q := u.Query()
		q.Set("dato", s.Date.Format("2006-01-02"))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return generic.Amount{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return generic.Amount{}, fmt.Errorf("fetch grunnbeløp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return generic.Amount{}, fmt.Errorf("fetch grunnbeløp: unexpected status %d: %s", resp.StatusCode, body)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return generic.Amount{}, fmt.Errorf("decode grunnbeløp response: %w", err)
	}
	if payload.Amount == nil {
		return generic.Amount{}, fmt.Errorf("decode grunnbeløp response: missing grunnbeløp field")
	}
	return generic.Amount{Value: *payload.Amount, Unit: generic.UnitNOK}, nil
}

// =============================================================================
// STORE SOURCE - Grunnbeløp history table
// =============================================================================

// StoreSource reads G from a BaselineStore: the record in force on Date, or
// on today's date when Date is nil. Records dated in the future are never
// picked up early.
type StoreSource struct {
	Store generic.BaselineStore
	Date  *time.Time

	// Now is the clock used when Date is nil.
	Now func() time.Time
}

func (s *StoreSource) Name() string { return "store" }

func (s *StoreSource) Fetch(ctx context.Context) (generic.Amount, error) {
	date := s.now()
	if s.Date != nil {
		date = *s.Date
	}
	rec, err := s.Store.At(ctx, date)
	if err != nil {
		return generic.Amount{}, err
	}
	return rec.Amount, nil
}

func (s *StoreSource) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// =============================================================================
// STATIC SOURCE
// =============================================================================

// StaticSource always returns the same G.
type StaticSource struct {
	Amount generic.Amount
}

func NewStaticSource(amount float64) StaticSource {
	return StaticSource{Amount: generic.NOK(amount)}
}

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Fetch(context.Context) (generic.Amount, error) {
	return s.Amount, nil
}
