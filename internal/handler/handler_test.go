package handler

import (
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testTransaction(date string, description, merchant, amount, category string) *domain.Transaction {
	d, _ := time.Parse(dateLayout, date)
	t := &domain.Transaction{
		ID:          uuid.New(),
		Date:        d,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		CreatedAt:   time.Now(),
	}
	if merchant != "" {
		t.Merchant = &merchant
	}
	return t
}
