package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildforge/buildforge-backend/api/responses"
	"github.com/buildforge/buildforge-backend/api/validators"
	buildsvc "github.com/buildforge/buildforge-backend/internal/builds"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

type createBuildRequest struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,max=120"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	ComponentIDs []string `json:"component_ids" validate:"required,min=1,dive,required"`
}

// BuildCreate assembles a custom build from catalog components.
func BuildCreate(svc buildsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "build service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBuildRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		componentIDs, err := parseComponentIDs(payload.ComponentIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateBuild(r.Context(), userID, buildsvc.CreateBuildInput{
			Name:         strings.TrimSpace(payload.Name),
			Description:  strings.TrimSpace(payload.Description),
			ComponentIDs: componentIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// BuildList serves the public build listing.
func BuildList(svc buildsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "build service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListBuilds(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BuildDetail serves one build with its component breakdown.
func BuildDetail(svc buildsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "build service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "buildId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid build id"))
			return
		}

		found, err := svc.GetBuild(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, found)
	}
}

// UserBuildList serves the authenticated user's saved builds.
func UserBuildList(svc buildsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "build service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListUserBuilds(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseComponentIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, raw := range values {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
