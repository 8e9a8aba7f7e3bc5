package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/umahmood/haversine"
	"golang.org/x/sync/singleflight"
)

var ukPostcode = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

const defaultTimeout = 10 * time.Second

// Config geocoder endpoint and the business base location
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Base       Coordinates
	RoadFactor float64 // crow-flies distance is multiplied by this to approximate driving miles
	CacheTTL   time.Duration
}

// Client postcode -> driving miles from the business base.
// Geocodes with a postcodes.io compatible API and applies haversine x road factor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	base       Coordinates
	roadFactor float64
	cache      *gocache.Cache
	group      singleflight.Group
	log        Logger
}

// NewClient creates a distance client
func NewClient(cfg Config, log Logger) *Client {
	roadFactor := cfg.RoadFactor
	if roadFactor < 1 {
		roadFactor = 1
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout:    timeout,
		base:       cfg.Base,
		roadFactor: roadFactor,
		cache:      gocache.New(ttl, 2*ttl),
		log:        log,
	}
}

// NormalizePostcode upper-cases and puts a single space before the inward code
func NormalizePostcode(postcode string) (string, error) {
	compact := strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
	if len(compact) < 5 || len(compact) > 7 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPostcode, postcode)
	}
	normalized := compact[:len(compact)-3] + " " + compact[len(compact)-3:]
	if !ukPostcode.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPostcode, postcode)
	}
	return normalized, nil
}

// GetCoordinates geocodes a postcode
func (c *Client) GetCoordinates(ctx context.Context, postcode string) (*Coordinates, error) {
	endpoint := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(postcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrPostcodeNotFound
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPostcode, postcode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var body postcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// terminated or offshore postcodes come back without coordinates
	if body.Result == nil || body.Result.Latitude == nil || body.Result.Longitude == nil {
		return nil, ErrPostcodeNotFound
	}

	return &Coordinates{Lat: *body.Result.Latitude, Lng: *body.Result.Longitude}, nil
}

// Miles driving-distance estimate from the base to the postcode, rounded to 0.1 mile.
// Results are memoised per postcode; concurrent lookups of one postcode share a request.
// The shared request is bounded by the client timeout, not by any one caller's ctx:
// a caller giving up returns early while the others keep waiting for the result.
func (c *Client) Miles(ctx context.Context, postcode string) (float64, error) {
	normalized, err := NormalizePostcode(postcode)
	if err != nil {
		return 0, err
	}

	if v, ok := c.cache.Get(normalized); ok {
		return v.(float64), nil
	}

	ch := c.group.DoChan(normalized, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		coords, err := c.GetCoordinates(lookupCtx, normalized)
		if err != nil {
			return nil, err
		}
		miles := c.milesTo(*coords)
		c.cache.SetDefault(normalized, miles)
		return miles, nil
	})

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: lookup abandoned: %w", ErrInternal, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(float64), nil
	}
}

// MilesWithGracefulDegradation same as Miles, but geocoder outages come back as
// ErrServiceDegraded so callers can price with an unknown distance
func (c *Client) MilesWithGracefulDegradation(ctx context.Context, postcode string) (float64, error) {
	miles, err := c.Miles(ctx, postcode)
	if err == nil {
		c.log.Info("Distance to %s: %.1f miles", postcode, miles)
		return miles, nil
	}

	if errors.Is(err, ErrInvalidPostcode) || errors.Is(err, ErrPostcodeNotFound) {
		c.log.Warn("Distance lookup for %q: %v", postcode, err)
		return 0, err
	}

	c.log.Error("Geocoder unavailable, distance unknown for %q: %v", postcode, err)
	return 0, fmt.Errorf("%w: postcode=%s, error=%v", ErrServiceDegraded, postcode, err)
}

func (c *Client) milesTo(p Coordinates) float64 {
	mi, _ := haversine.Distance(
		haversine.Coord{Lat: c.base.Lat, Lon: c.base.Lng},
		haversine.Coord{Lat: p.Lat, Lon: p.Lng},
	)
	return math.Round(mi*c.roadFactor*10) / 10
}
