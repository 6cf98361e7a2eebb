package roblox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bloxtools/bloxsync/internal/remote"
)

func TestCreateDevProduct(t *testing.T) {
	var gotPath, gotKey, gotName, gotPrice string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		gotName = r.FormValue("name")
		gotPrice = r.FormValue("price")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"productId": 555}`))
	}))
	defer server.Close()

	c := New("test-key", WithBaseURL(server.URL))
	id, err := c.CreateDevProduct(context.Background(), 42, remote.CreateRequest{
		Name:        "100 Coins",
		Price:       50,
		Description: "A pile of coins",
	})
	if err != nil {
		t.Fatalf("CreateDevProduct failed: %v", err)
	}

	if id != 555 {
		t.Errorf("id = %d, want 555", id)
	}
	if gotPath != "/developer-products/v2/universes/42/developer-products" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotName != "100 Coins" || gotPrice != "50" {
		t.Errorf("form fields name=%q price=%q", gotName, gotPrice)
	}
}

func TestCreateGamePass_SendsSaleState(t *testing.T) {
	var gotForSale string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		gotForSale = r.FormValue("isForSale")
		w.Write([]byte(`{"gamePassId": 777}`))
	}))
	defer server.Close()

	c := New("test-key", WithBaseURL(server.URL))
	id, err := c.CreateGamePass(context.Background(), 42, remote.CreateRequest{
		Name:    "VIP",
		Price:   500,
		Offsale: true,
	})
	if err != nil {
		t.Fatalf("CreateGamePass failed: %v", err)
	}

	if id != 777 {
		t.Errorf("id = %d, want 777", id)
	}
	if gotForSale != "false" {
		t.Errorf("isForSale = %q, want false for an offsale pass", gotForSale)
	}
}

func TestUpdateDevProduct_PartialFields(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		form = r.MultipartForm.Value
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	price := int64(75)
	c := New("test-key", WithBaseURL(server.URL))
	err := c.UpdateDevProduct(context.Background(), 42, 555, remote.UpdateRequest{Price: &price})
	if err != nil {
		t.Fatalf("UpdateDevProduct failed: %v", err)
	}

	if got := form["price"]; len(got) != 1 || got[0] != "75" {
		t.Errorf("price field = %v, want [75]", got)
	}
	if _, ok := form["name"]; ok {
		t.Error("nil name should be omitted from the form")
	}
	if _, ok := form["description"]; ok {
		t.Error("nil description should be omitted from the form")
	}
}

func TestCreate_UploadsImage(t *testing.T) {
	iconPath := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(iconPath, []byte("png bytes"), 0o600); err != nil {
		t.Fatalf("failed to write icon: %v", err)
	}

	var gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		if files := r.MultipartForm.File["imageFile"]; len(files) == 1 {
			gotFile = files[0].Filename
		}
		w.Write([]byte(`{"productId": 1}`))
	}))
	defer server.Close()

	c := New("test-key", WithBaseURL(server.URL))
	_, err := c.CreateDevProduct(context.Background(), 42, remote.CreateRequest{
		Name:      "Coins",
		Price:     10,
		ImagePath: iconPath,
	})
	if err != nil {
		t.Fatalf("CreateDevProduct failed: %v", err)
	}

	if gotFile != "icon.png" {
		t.Errorf("uploaded file name = %q, want icon.png", gotFile)
	}
}

func TestUpdate_OmitsImageWhenUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		if len(r.MultipartForm.File) != 0 {
			t.Error("no file part expected when ImagePath is empty")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	name := "VIP"
	c := New("test-key", WithBaseURL(server.URL))
	if err := c.UpdateGamePass(context.Background(), 42, 7, remote.UpdateRequest{Name: &name}); err != nil {
		t.Fatalf("UpdateGamePass failed: %v", err)
	}
}

func TestRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New("test-key", WithBaseURL(server.URL))
	_, err := c.CreateDevProduct(context.Background(), 42, remote.CreateRequest{Name: "Coins", Price: 10})
	if !errors.Is(err, remote.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if !IsRateLimited(err) {
		t.Error("IsRateLimited should report true")
	}
}

func TestRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("name already taken"))
	}))
	defer server.Close()

	c := New("test-key", WithBaseURL(server.URL))
	err := c.UpdateDevProduct(context.Background(), 42, 555, remote.UpdateRequest{})

	var rejected *remote.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rejected.Status)
	}
	if rejected.Body != "name already taken" {
		t.Errorf("body = %q", rejected.Body)
	}
	if errors.Is(err, remote.ErrRateLimited) {
		t.Error("a 400 must not look like a rate limit")
	}
}

type countingTransport struct {
	requests int
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests++
	return http.DefaultTransport.RoundTrip(req)
}

func TestWithHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"productId": 1}`))
	}))
	defer server.Close()

	transport := &countingTransport{}
	c := New("test-key",
		WithBaseURL(server.URL),
		WithHTTPClient(&http.Client{Transport: transport}),
	)

	if _, err := c.CreateDevProduct(context.Background(), 42, remote.CreateRequest{Name: "Coins", Price: 10}); err != nil {
		t.Fatalf("CreateDevProduct failed: %v", err)
	}
	if transport.requests != 1 {
		t.Errorf("injected client saw %d requests, want 1", transport.requests)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	if _, err := NewFromEnv(); err == nil {
		t.Error("expected error when API key env is unset")
	}

	t.Setenv(APIKeyEnv, "some-key")
	c, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv failed: %v", err)
	}
	if c.apiKey != "some-key" {
		t.Errorf("apiKey = %q", c.apiKey)
	}
}
