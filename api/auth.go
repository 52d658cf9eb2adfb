package api

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
	"github.com/helpinghub/volunteer-backend/internal"
)

// authLoginHandler authenticates a user by email and password and returns a
// JWT token.
func (a *API) authLoginHandler(w http.ResponseWriter, r *http.Request) {
	loginInfo := &UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(loginInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	// get the user information from the database by email
	user, err := a.db.UserByEmail(loginInfo.Email)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrInvalidCredentials.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// check the password
	if pass := internal.HexHashPassword(passwordSalt, loginInfo.Password); pass != user.Password {
		errors.ErrInvalidCredentials.Write(w)
		return
	}
	res, err := a.buildLoginResponse(user.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, res)
}

// refreshTokenHandler issues a fresh JWT token for the authenticated user.
func (a *API) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	res, err := a.buildLoginResponse(user.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, res)
}
