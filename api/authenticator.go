package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
)

// authenticator middleware validates the JWT token found by the Verifier and
// loads the user it identifies into the request context. Requests without a
// valid token are rejected.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if token == nil || jwt.Validate(token, jwt.WithRequiredClaim("userId")) != nil {
			errors.ErrUnauthorized.Withf("userId claim not found in JWT token").Write(w)
			return
		}
		email, ok := claims["userId"].(string)
		if !ok {
			errors.ErrUnauthorized.Withf("invalid userId claim").Write(w)
			return
		}
		user, err := a.db.UserByEmail(email)
		if err != nil {
			errors.ErrUnauthorized.Withf("user not found").Write(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// optionalUserFromRequest resolves the authenticated user from the request
// token when one is present. A missing or invalid token yields nil, it never
// rejects the request. Used by endpoints that accept anonymous callers.
func (a *API) optionalUserFromRequest(r *http.Request) *db.User {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return nil
	}
	if jwt.Validate(token, jwt.WithRequiredClaim("userId")) != nil {
		return nil
	}
	email, ok := claims["userId"].(string)
	if !ok {
		return nil
	}
	user, err := a.db.UserByEmail(email)
	if err != nil {
		return nil
	}
	return user
}
