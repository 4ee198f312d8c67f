package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ongfinanzas/internal/core"
	ports "ongfinanzas/internal/sheets"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "  "})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	clearCredentialEnv(t)
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestServiceAccountCredentials_File(t *testing.T) {
	clearCredentialEnv(t)
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

	data, err := serviceAccountCredentials(context.Background())
	if err != nil || !strings.Contains(string(data), "service_account") {
		t.Fatalf("credentials = %q, %v", data, err)
	}

	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", filepath.Join(t.TempDir(), "missing.json"))
	if _, err := serviceAccountCredentials(context.Background()); err == nil {
		t.Fatal("expected read error for missing file")
	}
}

func TestWriteBalances_NotInitialized(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if err := c.WriteBalances(context.Background(), ports.Snapshot{}); err == nil {
		t.Fatal("expected error with nil service")
	}
}

// sheetsAPI records the calls the client makes against a fake Sheets endpoint.
type sheetsAPI struct {
	mu      sync.Mutex
	paths   []string
	updated [][]any
}

func (a *sheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paths = append(a.paths, r.Method+" "+r.URL.Path)

	if r.Method == http.MethodPut {
		body, _ := io.ReadAll(r.Body)
		var vr struct {
			Values [][]any `json:"values"`
		}
		_ = json.Unmarshal(body, &vr)
		a.updated = vr.Values
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{}`))
}

func TestWriteBalances_ClearsThenUpdates(t *testing.T) {
	api := &sheetsAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithoutAuthentication(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	c := newClient(svc, "sheet-id", Options{Formatter: ports.NewFormatter("en", "Q")})

	snap := ports.Snapshot{
		GeneratedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Rows: []core.RubroBalance{{
			Balance:     core.Balance{TotalDonations: core.Money{Cents: 10000}, TotalPurchaseOrders: core.Money{Cents: 4000}}.Settle(),
			RubroCode:   "R-0001",
			ProjectCode: "P-0001",
		}},
	}
	if err := c.WriteBalances(context.Background(), snap); err != nil {
		t.Fatalf("WriteBalances() error = %v", err)
	}

	if len(api.paths) != 2 {
		t.Fatalf("expected clear + update, got %v", api.paths)
	}
	if !strings.HasPrefix(api.paths[0], "POST") || !strings.Contains(api.paths[0], ":clear") {
		t.Errorf("first call = %s, want clear", api.paths[0])
	}
	if !strings.HasPrefix(api.paths[1], "PUT") || !strings.Contains(api.paths[1], "Balances!A1:G4") {
		t.Errorf("second call = %s, want update of Balances!A1:G4", api.paths[1])
	}
	if len(api.updated) != 4 || api.updated[1][6] != "Q 60.00" {
		t.Errorf("updated values = %v", api.updated)
	}
}
