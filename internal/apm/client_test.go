package apm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeAPM stands in for the APM tenant: token endpoint plus the two posting
// endpoints, recording every authenticated request body.
type fakeAPM struct {
	mu         sync.Mutex
	alerts     []Alert
	timeseries []measurementPost
	badAuth    int
	server     *httptest.Server
}

func newFakeAPM(t *testing.T) *fakeAPM {
	t.Helper()
	f := &fakeAPM{}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)
	})
	authed := func(next func(body []byte)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" ||
				r.Header.Get("x-api-key") != "key-123" {
				f.mu.Lock()
				f.badAuth++
				f.mu.Unlock()
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			next(body)
			f.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
		}
	}
	mux.Handle("/alerts", authed(func(body []byte) {
		var a Alert
		if err := json.Unmarshal(body, &a); err == nil {
			f.alerts = append(f.alerts, a)
		}
	}))
	mux.Handle("/timeseries", authed(func(body []byte) {
		var p measurementPost
		if err := json.Unmarshal(body, &p); err == nil {
			f.timeseries = append(f.timeseries, p)
		}
	}))
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPM) config() Config {
	return Config{
		TokenURL:           f.server.URL + "/oauth/token",
		ClientID:           "client",
		ClientSecret:       "secret",
		APIKey:             "key-123",
		AlertEndpoint:      f.server.URL + "/alerts",
		TimeseriesEndpoint: f.server.URL + "/timeseries",
		AlertType:          "903",
		EqNumber:           "10001234",
		EqSSID:             "QM7_910",
		EqType:             "EQUI",
		CategoryName:       "M",
		PositionID:         "POS-1",
		UploadPerMinute:    600000,
	}
}

func TestCreateAlert(t *testing.T) {
	fake := newFakeAPM(t)
	c, err := NewClient(context.Background(), fake.config(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if err := c.CreateAlert(context.Background(), at, "uscan/run-1"); err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.badAuth != 0 {
		t.Fatalf("%d requests arrived without credentials", fake.badAuth)
	}
	if len(fake.alerts) != 1 {
		t.Fatalf("alerts received = %d, want 1", len(fake.alerts))
	}
	a := fake.alerts[0]
	if a.AlertType != "903" || a.Source != "uscan/run-1" {
		t.Fatalf("alert = %+v", a)
	}
	if a.TriggeredOn != "2026-03-14T09:30:00Z" {
		t.Fatalf("triggered on = %q", a.TriggeredOn)
	}
	if len(a.TechnicalObject) != 1 || a.TechnicalObject[0].Number != "10001234" ||
		a.TechnicalObject[0].SSID != "QM7_910" || a.TechnicalObject[0].Type != "EQUI" {
		t.Fatalf("technical object = %+v", a.TechnicalObject)
	}
}

func TestUploadMeasurements(t *testing.T) {
	fake := newFakeAPM(t)
	c, err := NewClient(context.Background(), fake.config(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	measurements := []Measurement{
		{Time: base, Values: map[string]float64{"CH-A": 82.5}},
		{Time: base.Add(time.Second), Values: map[string]float64{"CH-A": 61}},
		{Time: base.Add(2 * time.Second), Values: nil}, // nothing to send
	}
	sent, failed, err := c.UploadMeasurements(context.Background(), measurements)
	if err != nil {
		t.Fatalf("UploadMeasurements: %v", err)
	}
	if sent != 2 || failed != 0 {
		t.Fatalf("sent %d failed %d, want 2/0", sent, failed)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.timeseries) != 2 {
		t.Fatalf("timeseries posts = %d, want 2", len(fake.timeseries))
	}
	p := fake.timeseries[0]
	if p.SSID != "QM7_910" || p.CategoryName != "M" || p.PositionID != "POS-1" {
		t.Fatalf("post envelope = %+v", p)
	}
	if len(p.Values) != 1 || p.Values[0].CharacteristicsInternalID != "CH-A" || p.Values[0].Value != "82.5" {
		t.Fatalf("post values = %+v", p.Values)
	}
	if !strings.HasSuffix(p.Values[0].Time, ".000Z") {
		t.Fatalf("time = %q, want millisecond-precision UTC", p.Values[0].Time)
	}
}

func TestUploadAbortsOnCancel(t *testing.T) {
	fake := newFakeAPM(t)
	cfg := fake.config()
	cfg.UploadPerMinute = 1 // one token, then a long wait
	c, err := NewClient(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()
	measurements := []Measurement{
		{Time: time.Now(), Values: map[string]float64{"CH-A": 1}},
		{Time: time.Now(), Values: map[string]float64{"CH-A": 2}},
	}
	sent, _, err := c.UploadMeasurements(ctx, measurements)
	if err == nil {
		t.Fatalf("expected cancellation error after %d sends", sent)
	}
	if sent != 1 {
		t.Fatalf("sent = %d before cancellation, want 1", sent)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{TokenURL: "http://localhost/t"}, zap.NewNop())
	if err == nil {
		t.Fatalf("expected error for missing client credentials")
	}
}
