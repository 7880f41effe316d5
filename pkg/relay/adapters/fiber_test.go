package adapters

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/toyz/relay/pkg/relay"
)

func TestFiberAdapter_BasicFunctionality(t *testing.T) {
	adapter := NewDefaultFiberAdapter(testKernel())

	if adapter.Name() != "Fiber" {
		t.Errorf("Expected adapter name 'Fiber', got '%s'", adapter.Name())
	}

	adapter.Mount()

	req, _ := http.NewRequest("GET", "/users/42", nil)
	resp, err := adapter.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	body := strings.TrimSpace(buf.String())

	expectedBody := `{"id":42}`
	if body != expectedBody {
		t.Errorf("Expected body '%s', got '%s'", expectedBody, body)
	}
}

func TestFiberAdapter_BodyBinding(t *testing.T) {
	k := testKernel()
	k.MustRegister(relay.Route{
		Method:    "POST",
		Path:      "/users",
		Status:    201,
		Arguments: []relay.ArgumentMetadata{{Name: "payload", Type: relay.TypeBody}},
		Handler: func(req *relay.Request, args []any) (any, error) {
			payload := args[0].(map[string]any)
			return map[string]any{"created": payload["name"]}, nil
		},
	})

	adapter := NewDefaultFiberAdapter(k)
	adapter.Mount()

	req, _ := http.NewRequest("POST", "/users", strings.NewReader(`{"name":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := adapter.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if body := strings.TrimSpace(buf.String()); body != `{"created":"alice"}` {
		t.Errorf("Unexpected body '%s'", body)
	}
}

func TestFiberAdapter_ErrorTranslation(t *testing.T) {
	adapter := NewDefaultFiberAdapter(testKernel())
	adapter.Mount()

	req, _ := http.NewRequest("GET", "/missing", nil)
	resp, err := adapter.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}
