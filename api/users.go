package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
	"github.com/helpinghub/volunteer-backend/internal"
	"github.com/helpinghub/volunteer-backend/notifications/mailtemplates"
	"go.vocdoni.io/dvote/log"
)

// passwordMinLength is the minimum length of an account password.
const passwordMinLength = 8

// registerHandler creates a new user account. The email must be unique and
// the phone number, when provided, is normalized to E.164.
func (a *API) registerHandler(w http.ResponseWriter, r *http.Request) {
	userInfo := &UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if !internal.ValidEmail(userInfo.Email) {
		errors.ErrEmailMalformed.Write(w)
		return
	}
	if len(userInfo.Password) < passwordMinLength {
		errors.ErrPasswordTooShort.Write(w)
		return
	}
	if userInfo.FirstName == "" || userInfo.LastName == "" {
		errors.ErrInvalidUserData.With("first and last name are required").Write(w)
		return
	}
	user := &db.User{
		Email:     userInfo.Email,
		Password:  internal.HexHashPassword(passwordSalt, userInfo.Password),
		FirstName: userInfo.FirstName,
		LastName:  userInfo.LastName,
	}
	if userInfo.Phone != "" {
		phone, err := internal.SanitizeAndVerifyPhoneNumber(userInfo.Phone)
		if err != nil {
			errors.ErrInvalidUserData.Withf("invalid phone number: %v", err).Write(w)
			return
		}
		user.Phone = phone
	}
	if _, err := a.db.SetUser(user); err != nil {
		if err == db.ErrInvalidData {
			errors.ErrDuplicateConflict.With("email already registered").Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	a.sendWelcomeEmail(user)
	httpWriteOK(w)
}

// sendWelcomeEmail sends the registration welcome message. Best effort.
func (a *API) sendWelcomeEmail(user *db.User) {
	if a.mail == nil {
		return
	}
	notification, err := mailtemplates.WelcomeNotification.ExecTemplate(struct {
		Name string
		Link string
	}{
		Name: user.FirstName,
		Link: a.webAppURL + "/login",
	})
	if err != nil {
		log.Warnw("could not compose welcome email", "error", err)
		return
	}
	notification.ToAddress = user.Email
	notification.ToName = user.FirstName + " " + user.LastName
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.mail.SendNotification(ctx, notification); err != nil {
		log.Warnw("could not send welcome email", "error", err, "email", user.Email)
	}
}

// userInfoHandler returns the authenticated user's account.
func (a *API) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	httpWriteJSON(w, user)
}

// updateUserInfoHandler updates the authenticated user's profile. Email and
// role cannot be changed through this endpoint.
func (a *API) updateUserInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	userInfo := &UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if userInfo.FirstName != "" {
		user.FirstName = userInfo.FirstName
	}
	if userInfo.LastName != "" {
		user.LastName = userInfo.LastName
	}
	if userInfo.Phone != "" {
		phone, err := internal.SanitizeAndVerifyPhoneNumber(userInfo.Phone)
		if err != nil {
			errors.ErrInvalidUserData.Withf("invalid phone number: %v", err).Write(w)
			return
		}
		user.Phone = phone
	}
	if userInfo.Password != "" {
		if len(userInfo.Password) < passwordMinLength {
			errors.ErrPasswordTooShort.Write(w)
			return
		}
		user.Password = internal.HexHashPassword(passwordSalt, userInfo.Password)
	}
	if _, err := a.db.SetUser(user); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, user)
}

// usersHandler lists registered users. Admin only.
func (a *API) usersHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	page, pageSize := paginationFromRequest(r)
	users, total, err := a.db.Users(page, pageSize)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, &UsersResponse{Users: users, Total: total, Page: page})
}

// userHandler returns a single user by ID. Admin only.
func (a *API) userHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	userID, ok := urlParamUint64(r, "userID")
	if !ok {
		errors.ErrMalformedURLParam.With("userID is required").Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, user)
}

// updateUserHandler updates a user account, including its role. Admin only.
func (a *API) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	userID, ok := urlParamUint64(r, "userID")
	if !ok {
		errors.ErrMalformedURLParam.With("userID is required").Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	update := &struct {
		UserInfo
		Role string `json:"role,omitempty"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Role != "" {
		role := db.UserRole(update.Role)
		if role != db.AdminRole && role != db.MemberRole {
			errors.ErrInvalidUserData.Withf("unknown role %q", update.Role).Write(w)
			return
		}
		user.Role = role
	}
	if _, err := a.db.SetUser(user); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, user)
}

// deleteUserHandler removes a user account. Admin only.
func (a *API) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	userID, ok := urlParamUint64(r, "userID")
	if !ok {
		errors.ErrMalformedURLParam.With("userID is required").Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if err := a.db.DelUser(user); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteOK(w)
}

// requireAdmin writes an unauthorized error and returns false unless the
// request is authenticated as an admin.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	user, ok := userFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return false
	}
	if user.Role != db.AdminRole {
		errors.ErrUnauthorized.Withf("admin role required").Write(w)
		return false
	}
	return true
}
