package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Handle(t *testing.T) {
	handler := NewHealthHandler("1.2.3", nil)

	rr := httptest.NewRecorder()
	handler.Handle(rr, httptest.NewRequest("GET", "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected ok, got %q", response.Status)
	}
	if response.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", response.Version)
	}
}

func TestHealthHandler_Detailed_Healthy(t *testing.T) {
	handler := NewHealthHandler("1.2.3", func(ctx context.Context) error { return nil })

	rr := httptest.NewRecorder()
	handler.HandleDetailed(rr, httptest.NewRequest("GET", "/health/detailed", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response DetailedHealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("expected healthy, got %q", response.Status)
	}
	if response.Components["database"].Status != "healthy" {
		t.Errorf("expected healthy database, got %+v", response.Components["database"])
	}
}

func TestHealthHandler_Detailed_DatabaseDown(t *testing.T) {
	handler := NewHealthHandler("1.2.3", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	rr := httptest.NewRecorder()
	handler.HandleDetailed(rr, httptest.NewRequest("GET", "/health/detailed", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}

	var response DetailedHealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %q", response.Status)
	}
	if response.Components["database"].Error == "" {
		t.Error("expected database error message")
	}
}

func TestHealthHandler_Detailed_NoStore(t *testing.T) {
	handler := NewHealthHandler("1.2.3", nil)

	rr := httptest.NewRecorder()
	handler.HandleDetailed(rr, httptest.NewRequest("GET", "/health/detailed", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 without a store, got %d", rr.Code)
	}

	var response DetailedHealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := response.Components["database"]; ok {
		t.Error("expected no database component without a store")
	}
}
