package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	componentsvc "github.com/buildforge/buildforge-backend/internal/components"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
)

type stubComponentService struct {
	lastInput componentsvc.ListComponentsInput
	result    *componentsvc.ComponentListResult
}

func (s *stubComponentService) ListComponents(_ context.Context, input componentsvc.ListComponentsInput) (*componentsvc.ComponentListResult, error) {
	s.lastInput = input
	if s.result != nil {
		return s.result, nil
	}
	return &componentsvc.ComponentListResult{}, nil
}

func (s *stubComponentService) GetComponent(context.Context, uuid.UUID) (*componentsvc.ComponentDTO, error) {
	return &componentsvc.ComponentDTO{}, nil
}

func (s *stubComponentService) ListCategories(context.Context) []string {
	return []string{"cpu", "gpu"}
}

func TestComponentListParsesFilters(t *testing.T) {
	svc := &stubComponentService{}
	handler := ComponentList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/components?category=gpu&manufacturer=NVIDIA&price_min=100&price_max=500&q=rtx&limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	input := svc.lastInput
	if input.Filters.Category == nil || *input.Filters.Category != enums.ComponentCategoryGPU {
		t.Fatalf("expected gpu category filter, got %v", input.Filters.Category)
	}
	if input.Filters.Manufacturer == nil || *input.Filters.Manufacturer != "NVIDIA" {
		t.Fatalf("expected manufacturer filter, got %v", input.Filters.Manufacturer)
	}
	if input.Filters.PriceMin == nil || !input.Filters.PriceMin.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected price_min 100, got %v", input.Filters.PriceMin)
	}
	if input.Filters.Query != "rtx" {
		t.Fatalf("expected query rtx, got %q", input.Filters.Query)
	}
	if input.Pagination.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", input.Pagination.Limit)
	}
}

func TestComponentListRejectsBadCategory(t *testing.T) {
	handler := ComponentList(&stubComponentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/components?category=flux_capacitor", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %s", code)
	}
}

func TestComponentListRejectsNegativePrice(t *testing.T) {
	handler := ComponentList(&stubComponentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/components?price_min=-5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestComponentDetailRejectsBadID(t *testing.T) {
	handler := ComponentDetail(&stubComponentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/components/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
