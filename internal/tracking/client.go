package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// Shipment is the reshaped carrier response returned to clients.
type Shipment struct {
	Reference   string       `json:"reference"`
	Status      string       `json:"status"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

type Checkpoint struct {
	Date     string `json:"date"`
	Location string `json:"location"`
	Activity string `json:"activity"`
}

// carrierResponse mirrors the carrier's own tracking payload.
type carrierResponse struct {
	DocketNo      string `json:"docket_no"`
	CurrentStatus string `json:"current_status"`
	FromStation   string `json:"from_station"`
	ToStation     string `json:"to_station"`
	Events        []struct {
		Date     string `json:"date"`
		Location string `json:"location"`
		Activity string `json:"activity"`
	} `json:"events"`
}

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP: &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		},
	}
}

// Track performs the single outbound carrier call and remaps the response.
func (c *Client) Track(ctx context.Context, ref string) (*Shipment, error) {
	if ref == "" {
		return nil, fmt.Errorf("tracking: empty reference")
	}

	u := fmt.Sprintf("%s/track/%s", c.BaseURL, url.PathEscape(ref))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("tracking: build request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking: carrier call: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrShipmentNotFound, ref)
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("tracking: carrier returned %s", res.Status)
	}

	var raw carrierResponse
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tracking: decode carrier response: %w", err)
	}

	s := &Shipment{
		Reference:   raw.DocketNo,
		Status:      raw.CurrentStatus,
		From:        raw.FromStation,
		To:          raw.ToStation,
		Checkpoints: make([]Checkpoint, 0, len(raw.Events)),
	}
	if s.Reference == "" {
		s.Reference = ref
	}
	for _, e := range raw.Events {
		s.Checkpoints = append(s.Checkpoints, Checkpoint{
			Date:     e.Date,
			Location: e.Location,
			Activity: e.Activity,
		})
	}
	return s, nil
}
