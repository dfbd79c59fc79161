package controllers

import (
	"net/http"

	"github.com/buildforge/buildforge-backend/api/middleware"
	"github.com/buildforge/buildforge-backend/api/responses"
	"github.com/buildforge/buildforge-backend/api/validators"
	recommendsvc "github.com/buildforge/buildforge-backend/internal/recommend"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

// Recommend runs the LLM build pipeline. Anonymous callers are allowed; a
// bearer token additionally links the saved build to the account.
func Recommend(svc recommendsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendation service unavailable"))
			return
		}

		var payload recommendsvc.RecommendRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())

		result, err := svc.Recommend(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
