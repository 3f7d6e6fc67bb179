package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"jobboard_backend/database"
	"jobboard_backend/internal/app"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/gateway"

	"gorm.io/gorm"
)

// TestServer bundles the httptest server, the database handle and the
// stub payment gateway the router was built with.
type TestServer struct {
	Server  *httptest.Server
	DB      *gorm.DB
	Gateway *StubGateway
}

// StubGateway stands in for the payment processor. Tests script the
// status each intent reports on retrieval.
type StubGateway struct {
	mu       sync.Mutex
	seq      int
	statuses map[string]gateway.IntentStatus
	amounts  map[string]float64
}

func NewStubGateway() *StubGateway {
	return &StubGateway{
		statuses: make(map[string]gateway.IntentStatus),
		amounts:  make(map[string]float64),
	}
}

// SetStatus scripts what RetrieveIntent will report for intentID.
func (g *StubGateway) SetStatus(intentID string, status gateway.IntentStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[intentID] = status
}

func (g *StubGateway) CreateIntent(_ context.Context, amount float64, _ string, _ map[string]string) (*gateway.CreatedIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("pi_stub_%d", g.seq)
	g.statuses[id] = gateway.IntentStatusProcessing
	g.amounts[id] = amount
	return &gateway.CreatedIntent{IntentID: id, ClientSecret: id + "_secret"}, nil
}

func (g *StubGateway) RetrieveIntent(_ context.Context, intentID string) (*gateway.RetrievedIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status, ok := g.statuses[intentID]
	if !ok {
		return nil, fmt.Errorf("stub gateway: unknown intent %s", intentID)
	}
	return &gateway.RetrievedIntent{
		IntentID: intentID,
		Status:   status,
		Amount:   g.amounts[intentID],
		Currency: "usd",
	}, nil
}

// NewTestServer connects to the test database, migrates the schema and
// starts the full router with a stub gateway.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	config.LoadConfig()
	cfg := config.GetConfig()

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", cfg.Database.DSN, err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	gw := NewStubGateway()
	router, _ := app.SetupRouter(cfg, db, gw)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:  server,
		DB:      db,
		Gateway: gw,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// ClearTables truncates everything between test groups.
func (ts *TestServer) ClearTables() error {
	return ts.DB.Exec("TRUNCATE TABLE users, jobs, applications, payment_records RESTART IDENTITY CASCADE").Error
}

// SendRequest performs an HTTP request against the test server and
// returns the response together with its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return res, string(resBody)
}
