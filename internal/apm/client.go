// Package apm talks to the SAP Asset Performance Management API: OAuth2
// client-credentials token exchange, measurement upload and alert creation.
// It is a thin adapter around the detection core; retry policy is left to the
// platform.
package apm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Config identifies the APM tenant and technical object.
type Config struct {
	TokenURL           string
	ClientID           string
	ClientSecret       string
	APIKey             string
	AlertEndpoint      string
	TimeseriesEndpoint string
	AlertType          string
	EqNumber           string
	EqSSID             string
	EqType             string
	CategoryName       string
	PositionID         string
	// UploadPerMinute throttles measurement posts; the source system paced
	// one point per 15 seconds to simulate live streaming.
	UploadPerMinute int
}

// Client is an authenticated, throttled APM API client.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient wires the OAuth2 client-credentials flow into the HTTP client, so
// token refresh and caching are transparent to callers.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.TokenURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("apm: token url, client id and client secret are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	perMinute := cfg.UploadPerMinute
	if perMinute <= 0 {
		perMinute = 4
	}
	hc := cc.Client(ctx)
	hc.Timeout = 30 * time.Second
	return &Client{
		cfg:     cfg,
		http:    hc,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:  logger,
	}, nil
}

// technicalObject is the object triple APM uses to address equipment.
type technicalObject struct {
	Number string `json:"Number"`
	SSID   string `json:"SSID"`
	Type   string `json:"Type"`
}

// Alert is the payload for APM alert creation.
type Alert struct {
	AlertType       string            `json:"AlertType"`
	TriggeredOn     string            `json:"TriggeredOn"`
	TechnicalObject []technicalObject `json:"TechnicalObject"`
	Source          string            `json:"Source"`
}

// CreateAlert raises an alert against the configured technical object.
func (c *Client) CreateAlert(ctx context.Context, triggeredOn time.Time, source string) error {
	if c.cfg.AlertEndpoint == "" {
		return fmt.Errorf("apm: alert endpoint not configured")
	}
	payload := Alert{
		AlertType:   c.cfg.AlertType,
		TriggeredOn: triggeredOn.UTC().Format(time.RFC3339),
		TechnicalObject: []technicalObject{{
			Number: c.cfg.EqNumber,
			SSID:   c.cfg.EqSSID,
			Type:   c.cfg.EqType,
		}},
		Source: source,
	}
	if err := c.post(ctx, c.cfg.AlertEndpoint, payload); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	c.logger.Info("apm alert created",
		zap.String("alert_type", c.cfg.AlertType),
		zap.String("source", source))
	return nil
}

// measurementValue is one characteristic reading inside a timeseries post.
type measurementValue struct {
	CharacteristicsInternalID string `json:"characteristicsInternalId"`
	Value                     string `json:"value"`
	Time                      string `json:"time"`
}

// measurementPost is the timeseries upload payload.
type measurementPost struct {
	SSID                  string             `json:"SSID"`
	TechnicalObjectType   string             `json:"technicalObjectType"`
	TechnicalObjectNumber string             `json:"technicalObjectNumber"`
	CategoryName          string             `json:"categoryName"`
	PositionID            string             `json:"positionID"`
	Values                []measurementValue `json:"values"`
}

// Measurement is one upload unit: characteristic readings sharing a timestamp.
type Measurement struct {
	Time   time.Time
	Values map[string]float64 // keyed by characteristic internal id
}

// UploadMeasurements posts measurements one by one, paced by the configured
// throttle. It returns the number sent and failed; a context cancellation
// aborts the remainder.
func (c *Client) UploadMeasurements(ctx context.Context, measurements []Measurement) (sent, failed int, err error) {
	if c.cfg.TimeseriesEndpoint == "" {
		return 0, 0, fmt.Errorf("apm: timeseries endpoint not configured")
	}
	for i, m := range measurements {
		if err := c.limiter.Wait(ctx); err != nil {
			return sent, failed, fmt.Errorf("upload aborted after %d of %d: %w", i, len(measurements), err)
		}
		payload := measurementPost{
			SSID:                  c.cfg.EqSSID,
			TechnicalObjectType:   c.cfg.EqType,
			TechnicalObjectNumber: c.cfg.EqNumber,
			CategoryName:          c.cfg.CategoryName,
			PositionID:            c.cfg.PositionID,
		}
		for id, v := range m.Values {
			payload.Values = append(payload.Values, measurementValue{
				CharacteristicsInternalID: id,
				Value:                     fmt.Sprintf("%g", v),
				Time:                      m.Time.UTC().Format("2006-01-02T15:04:05.000Z"),
			})
		}
		if len(payload.Values) == 0 {
			continue
		}
		if err := c.post(ctx, c.cfg.TimeseriesEndpoint, payload); err != nil {
			failed++
			c.logger.Warn("measurement upload failed", zap.Int("row", i), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, string(b))
	}
	return nil
}
