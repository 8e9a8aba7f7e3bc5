package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
)

// ManagerTokenHeader header carrying the manager token
const ManagerTokenHeader = "X-Manager-Token"

// Config API endpoint and credentials
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ManagerToken string // optional; sent on every request when set
}

// Client HTTP client for the public booking API
type Client struct {
	baseURL      string
	managerToken string
	httpClient   *http.Client
	log          Logger
}

// NewClient creates a booking API client
func NewClient(cfg Config, log Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		managerToken: cfg.ManagerToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// ListServices bookable services with their capacity rules and price tables
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var resp serviceListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/services", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Services, nil
}

// GetAvailability day state and verdicts for a date. serviceKey may be empty.
func (c *Client) GetAvailability(ctx context.Context, date time.Time, serviceKey string) (*Availability, error) {
	query := url.Values{}
	query.Set("date", date.Format(domain.DateFormat))
	if serviceKey != "" {
		query.Set("service", serviceKey)
	}

	var resp Availability
	if err := c.do(ctx, http.MethodGet, "/api/v1/availability", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateQuote server-side quote, with the postcode distance lookup
func (c *Client) CalculateQuote(ctx context.Context, req *QuoteRequest) (*QuoteResult, error) {
	var resp QuoteResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/quotes", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBooking submits a booking. A rejected slot comes back as *SlotUnavailableError.
func (c *Client) CreateBooking(ctx context.Context, req *BookingRequest) (*BookingCreated, error) {
	var resp BookingCreated
	if err := c.do(ctx, http.MethodPost, "/api/v1/bookings", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		return nil, fmt.Errorf("%w: booking missing from response", ErrInvalidResponse)
	}
	c.log.Info("Booking created: reference=%s, date=%s, slot=%s", resp.Booking.Reference, req.Date, resp.Booking.SlotLabel)
	return &resp, nil
}

// GetBooking booking by reference; email is ignored when a manager token is configured
func (c *Client) GetBooking(ctx context.Context, reference, email string) (*Booking, error) {
	query := url.Values{}
	if email != "" {
		query.Set("email", email)
	}

	var resp Booking
	if err := c.do(ctx, http.MethodGet, "/api/v1/bookings/"+url.PathEscape(reference), query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelBooking cancels a booking by reference
func (c *Client) CancelBooking(ctx context.Context, reference, email string, reason *string) (*Booking, error) {
	body := &cancelRequest{Email: email, CancellationReason: reason}

	var resp Booking
	path := "/api/v1/bookings/" + url.PathEscape(reference) + "/cancel"
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.managerToken != "" {
		req.Header.Set(ManagerTokenHeader, c.managerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := statusError(resp.StatusCode, raw)
	if errors.Is(apiErr, ErrServiceUnavailable) || errors.Is(apiErr, ErrInvalidResponse) {
		c.log.Error("%s %s failed: %v", method, path, apiErr)
	} else {
		c.log.Warn("%s %s rejected: %v", method, path, apiErr)
	}
	return apiErr
}

// statusError maps a non-2xx response to a sentinel error
func statusError(status int, raw []byte) error {
	var body errorResponse
	_ = json.Unmarshal(raw, &body)
	message := body.Message
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case status == http.StatusConflict:
		var slot slotUnavailableResponse
		if err := json.Unmarshal(raw, &slot); err == nil && slot.Reason != "" {
			e := &SlotUnavailableError{
				Reason:       availability.Reason(slot.Reason),
				Message:      slot.ReasonMessage,
				Alternatives: make([]int, 0, len(slot.Alternatives)),
			}
			for _, a := range slot.Alternatives {
				e.Alternatives = append(e.Alternatives, a.Slot)
			}
			return e
		}
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, message)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, status, message)
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, status, message)
	}
}
