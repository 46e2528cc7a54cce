package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/billyrestey/golfstrategy/internal/domain"
	"github.com/billyrestey/golfstrategy/internal/ghin"
	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/middleware"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

const minPasswordLength = 8

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerGHINRequest struct {
	registerRequest
	GHINNumber string `json:"ghin_number"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userProfileDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GHINNumber string `json:"ghin_number,omitempty"`
	Tier       string `json:"tier"`
	Credits    int    `json:"credits"`
}

func profileDTO(u domain.User) userProfileDTO {
	return userProfileDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		GHINNumber: u.GHINNumber,
		Tier:       string(u.Tier),
		Credits:    u.Credits,
	}
}

type authResponse struct {
	Token string         `json:"token"`
	User  userProfileDTO `json:"user"`
}

type authGHINResponse struct {
	authResponse
	GHINProfile *ghin.Profile `json:"ghin_profile"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	resp, status, code, msg := a.register(r.Context(), req, "")
	if code != "" {
		a.error(w, status, code, msg)
		return
	}
	a.json(w, http.StatusCreated, resp)
}

// RegisterWithGHIN registers an account and, when the handicap service
// answers, returns the golfer profile for pre-filling the wizard. A GHIN
// failure never fails the registration.
func (a *App) RegisterWithGHIN(w http.ResponseWriter, r *http.Request) {
	var req registerGHINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.GHINNumber) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "ghin_number required")
		return
	}
	resp, status, code, msg := a.register(r.Context(), req.registerRequest, req.GHINNumber)
	if code != "" {
		a.error(w, status, code, msg)
		return
	}
	out := authGHINResponse{authResponse: *resp}
	if a.GHIN != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		profile, err := a.GHIN.Lookup(ctx, req.GHINNumber)
		if err != nil {
			a.Logger.Warn().Err(err).Str("ghin", req.GHINNumber).Msg("ghin lookup failed")
		} else {
			out.GHINProfile = profile
		}
	}
	a.json(w, http.StatusCreated, out)
}

func (a *App) register(ctx context.Context, req registerRequest, ghinNumber string) (*authResponse, int, string, string) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, http.StatusBadRequest, "bad_request", "valid email required"
	}
	if len(req.Password) < minPasswordLength {
		return nil, http.StatusBadRequest, "weak_password", "password must be at least 8 characters"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, "internal", "failed to hash password"
	}
	row := a.SQL.QueryRow(ctx, sqlinline.QInsertUser, email, strings.TrimSpace(req.Name), string(hash), strings.TrimSpace(ghinNumber))
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.GHINNumber, &user.Role, &user.Tier, &user.Credits, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, http.StatusConflict, "email_taken", "an account with this email already exists"
		}
		a.Logger.Error().Err(err).Msg("insert user failed")
		return nil, http.StatusInternalServerError, "internal", "failed to create account"
	}
	token, err := a.issueToken(user.ID, string(user.Tier))
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		return nil, http.StatusInternalServerError, "internal", "failed to sign token"
	}
	return &authResponse{Token: token, User: profileDTO(user)}, 0, "", ""
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, email)
	var user domain.User
	var passwordHash string
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &passwordHash, &user.GHINNumber, &user.Role, &user.Tier, &user.Credits, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
			return
		}
		a.Logger.Error().Err(err).Msg("select user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load account")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		return
	}
	token, err := a.issueToken(user.ID, string(user.Tier))
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, authResponse{Token: token, User: profileDTO(user)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByID, userID)
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.GHINNumber, &user.Role, &user.Tier, &user.Credits, &user.CreatedAt, &user.UpdatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}

func (a *App) issueToken(userID, tier string) (string, error) {
	return middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      userID,
		Tier:     tier,
		Exp:      time.Now().Add(24 * time.Hour).Unix(),
		Issuer:   "golfstrategy",
		Audience: "golfstrategy-clients",
	})
}
