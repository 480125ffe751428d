package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/coach-backend/internal/service"
	"github.com/dafibh/fortuna/coach-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func TestGetDetected(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	repo.AddTransaction(testTransaction("2024-01-15", "Netflix", "Netflix", "-15.99", "Subscriptions"))
	repo.AddTransaction(testTransaction("2024-02-15", "Netflix", "Netflix", "-15.99", "Subscriptions"))
	repo.AddTransaction(testTransaction("2024-03-15", "Netflix", "Netflix", "-15.99", "Subscriptions"))
	repo.AddTransaction(testTransaction("2024-03-20", "ATM service fee", "", "-2.50", "Bills"))
	handler := NewSubscriptionHandler(service.NewSubscriptionService(repo))

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/subscriptions/detected", "")

	if err := handler.GetDetected(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response DetectedChargesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.DetectedSubscriptions) != 1 {
		t.Fatalf("Expected 1 detected subscription, got %d", len(response.DetectedSubscriptions))
	}
	sub := response.DetectedSubscriptions[0]
	if sub.Merchant != "Netflix" || sub.Amount != "15.99" || sub.Count != 3 || sub.Confidence != "high" {
		t.Errorf("Unexpected subscription %+v", sub)
	}
	if len(response.GrayCharges) != 1 {
		t.Fatalf("Expected 1 gray charge, got %d", len(response.GrayCharges))
	}
	if gray := response.GrayCharges[0]; gray.Merchant != "Unknown" || gray.Amount != "2.50" || gray.Confidence != "medium" {
		t.Errorf("Unexpected gray charge %+v", gray)
	}
}

func TestGetDetected_EmptyArrays(t *testing.T) {
	e := echo.New()
	handler := NewSubscriptionHandler(service.NewSubscriptionService(testutil.NewMockTransactionRepository()))

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/subscriptions/detected", "")

	if err := handler.GetDetected(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if body := rec.Body.String(); body != "{\"detectedSubscriptions\":[],\"grayCharges\":[]}\n" {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestMarkNotSubscription(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	flagged := testTransaction("2024-01-15", "Gym", "Gym", "-30", "Health & Fitness")
	flagged.IsSubscription = true
	repo.AddTransaction(flagged)
	handler := NewSubscriptionHandler(service.NewSubscriptionService(repo))

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/subscriptions/mark-not", `{"merchant":"Gym","amount":30}`)

	if err := handler.MarkNotSubscription(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response MarkNotSubscriptionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Updated != 1 {
		t.Errorf("Expected 1 updated transaction, got %d", response.Updated)
	}
	if flagged.IsSubscription {
		t.Error("Expected subscription flag to be cleared")
	}
}

func TestMarkNotSubscription_Validation(t *testing.T) {
	e := echo.New()
	handler := NewSubscriptionHandler(service.NewSubscriptionService(testutil.NewMockTransactionRepository()))

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/subscriptions/mark-not", `{"merchant":"Gym","amount":0}`)

	if err := handler.MarkNotSubscription(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
