package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildforge/buildforge-backend/api/responses"
	"github.com/buildforge/buildforge-backend/api/validators"
	componentsvc "github.com/buildforge/buildforge-backend/internal/components"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

const maxSearchQueryLen = 120

// ComponentList serves the filterable catalog listing.
func ComponentList(svc componentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "component service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseComponentFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListComponents(r.Context(), componentsvc.ListComponentsInput{
			Pagination: params,
			Filters:    filters,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ComponentDetail serves a single catalog row by id.
func ComponentDetail(svc componentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "component service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "componentId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component id"))
			return
		}

		component, err := svc.GetComponent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, component)
	}
}

// ComponentCategories serves the fixed category vocabulary.
func ComponentCategories(svc componentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "component service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": svc.ListCategories(r.Context())})
	}
}

func parseComponentFilters(r *http.Request) (componentsvc.ComponentListFilters, error) {
	filters := componentsvc.ComponentListFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), maxSearchQueryLen),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseComponentCategory(raw)
		if err != nil {
			return componentsvc.ComponentListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		filters.Category = &category
	}

	if raw := validators.SanitizeString(r.URL.Query().Get("manufacturer"), maxSearchQueryLen); raw != "" {
		filters.Manufacturer = &raw
	}

	priceMin, err := parsePriceParam(r, "price_min")
	if err != nil {
		return componentsvc.ComponentListFilters{}, err
	}
	filters.PriceMin = priceMin

	priceMax, err := parsePriceParam(r, "price_max")
	if err != nil {
		return componentsvc.ComponentListFilters{}, err
	}
	filters.PriceMax = priceMax

	return filters, nil
}

func parsePriceParam(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price filter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price filter cannot be negative").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
