package controllers

import (
	"net/http"
	"strings"

	"github.com/snackstand/snackstand-backend/api/middleware"
	"github.com/snackstand/snackstand-backend/api/responses"
	"github.com/snackstand/snackstand-backend/api/validators"
	internalauth "github.com/snackstand/snackstand-backend/internal/auth"
	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/config"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,len=10,numeric"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginPayload struct {
	Identifier string `json:"identifier" validate:"required"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password" validate:"required"`
}

type refreshPayload struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthRegister creates a new customer account.
func AuthRegister(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		customer, err := svc.Register(ctx, internalauth.RegisterInput{
			Name:     payload.Name,
			Email:    payload.Email,
			Mobile:   payload.Mobile,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"customer_id": customer.ID,
			"name":        customer.Name,
			"email":       customer.Email,
		})
	}
}

// AuthLogin exchanges credentials for an access/refresh token pair.
func AuthLogin(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		identifier := payload.Identifier
		if identifier == "" {
			identifier = payload.Email
		}

		session, err := svc.Login(ctx, identifier, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// AuthRefresh rotates a refresh token into a new token pair.
func AuthRefresh(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload refreshPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pair, err := svc.Refresh(ctx, payload.AccessToken, payload.RefreshToken)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, pair)
	}
}

// AuthLogout revokes the current session.
func AuthLogout(svc internalauth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accessID, err := accessIDFromRequest(r, jwtCfg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Logout(ctx, accessID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AccountDelete removes the authenticated customer while preserving order history.
func AccountDelete(svc internalauth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principal := middleware.PrincipalFromContext(ctx)

		accessID, err := accessIDFromRequest(r, jwtCfg)
		if err != nil {
			accessID = ""
		}

		if err := svc.DeleteAccount(ctx, principal, accessID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// accessIDFromRequest extracts the session identifier (jti) from the bearer
// token, tolerating expired tokens so logout always works.
func accessIDFromRequest(r *http.Request, jwtCfg config.JWTConfig) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessTokenAllowExpired(jwtCfg, raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	return claims.ID, nil
}
