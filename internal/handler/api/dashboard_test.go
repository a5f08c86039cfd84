package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"PortfolioPulse/internal/baseline"
	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/internal/store"
	"PortfolioPulse/internal/usecase"
	"PortfolioPulse/pkg/logger"
)

type fakeSelector struct {
	model    string
	selected []string
	err      error
}

func (f *fakeSelector) SelectModel(_ context.Context, model string) error {
	if f.err != nil {
		return f.err
	}
	f.selected = append(f.selected, model)
	f.model = model
	return nil
}

func (f *fakeSelector) Model() string             { return f.model }
func (f *fakeSelector) State() models.SourceState { return models.SourceLive }
func (f *fakeSelector) Models() []string          { return []string{"tech", "energy"} }

func newTestHandler(t *testing.T) (*echo.Echo, *store.SnapshotStore, *fakeSelector, *Hub) {
	t.Helper()
	st := store.New()
	st.Replace(models.Snapshot{
		Dataset:   baseline.Dataset("tech"),
		Model:     "tech",
		Source:    models.SourceLive,
		UpdatedAt: time.Now().UTC(),
	})
	sel := &fakeSelector{model: "tech"}
	hub := NewHub(logger.Nop())
	h := NewDashboardHandler(st, sel, hub, logger.Nop())

	e := echo.New()
	h.RegisterRoutes(e)
	return e, st, sel, hub
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestPerformanceEndpoint(t *testing.T) {
	e, _, _, _ := newTestHandler(t)
	rec := doRequest(e, http.MethodGet, "/api/performance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp performanceResponse
	decodeData(t, rec, &resp)
	if resp.Source != models.SourceLive {
		t.Errorf("source = %s, want LIVE", resp.Source)
	}
	if resp.Performance.PortfolioValue == 0 {
		t.Error("performance metrics are empty")
	}
	if len(resp.EquityCurve) == 0 {
		t.Error("equity curve is empty")
	}
}

func TestTradesLimit(t *testing.T) {
	e, _, _, _ := newTestHandler(t)
	rec := doRequest(e, http.MethodGet, "/api/trades?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var trades []models.Trade
	decodeData(t, rec, &trades)
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
}

func TestTradesLimitOutOfRange(t *testing.T) {
	e, _, _, _ := newTestHandler(t)
	for _, target := range []string{"/api/trades?limit=-1", "/api/trades?limit=10000"} {
		rec := doRequest(e, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 envelope", rec.Code)
		}
		var envelope struct {
			Status int `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if envelope.Status != http.StatusBadRequest {
			t.Errorf("%s: envelope status = %d, want 400", target, envelope.Status)
		}
	}
}

func TestSelectModelEndpoint(t *testing.T) {
	e, _, sel, _ := newTestHandler(t)
	rec := doRequest(e, http.MethodPost, "/api/model", `{"model":"energy"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(sel.selected) != 1 || sel.selected[0] != "energy" {
		t.Errorf("selector received %v, want [energy]", sel.selected)
	}
}

func TestSelectModelUnknown(t *testing.T) {
	e, _, sel, _ := newTestHandler(t)
	sel.err = usecase.ErrUnknownModel

	rec := doRequest(e, http.MethodPost, "/api/model", `{"model":"crypto"}`)
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400", envelope.Status)
	}
}

func TestSelectModelMissingField(t *testing.T) {
	e, _, sel, _ := newTestHandler(t)
	rec := doRequest(e, http.MethodPost, "/api/model", `{}`)
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400", envelope.Status)
	}
	if len(sel.selected) != 0 {
		t.Error("selector called despite invalid request")
	}
}

func TestStatusEndpoint(t *testing.T) {
	e, _, _, _ := newTestHandler(t)
	rec := doRequest(e, http.MethodGet, "/api/status", "")

	var resp statusResponse
	decodeData(t, rec, &resp)
	if resp.Model != "tech" {
		t.Errorf("model = %q, want tech", resp.Model)
	}
	if len(resp.Models) != 2 {
		t.Errorf("models = %v, want [tech energy]", resp.Models)
	}
	if _, ok := resp.Groups["tech"]; !ok {
		t.Error("groups missing tech entry")
	}
}

func TestWebsocketReceivesBroadcast(t *testing.T) {
	e, st, _, hub := newTestHandler(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	sub, cancel := st.Subscribe()
	defer cancel()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go hub.Run(ctx, sub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	st.Replace(models.Snapshot{
		Dataset:   baseline.Dataset("energy"),
		Model:     "energy",
		Source:    models.SourceLive,
		UpdatedAt: time.Now().UTC(),
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap models.Snapshot
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := json.Unmarshal(msg, &snap); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if snap.Model == "energy" {
			return
		}
	}
}
