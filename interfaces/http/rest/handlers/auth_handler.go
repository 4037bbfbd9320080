// Package handlers implements the companion backend's HTTP endpoints. Every
// response uses the {success, ...} envelope the board client expects.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"nexusboard/infrastructure/persistence/sqlite"
	"nexusboard/pkg/auth"
	"nexusboard/pkg/common"
	apperrors "nexusboard/pkg/errors"
	"nexusboard/pkg/utils"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	users  *sqlite.UserRepository
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthHandler(users *sqlite.UserRepository, tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup creates an account and returns it with a fresh token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	user := &sqlite.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := h.users.Create(user); err != nil {
		common.RespondAppError(w, err)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.String("user_id", user.ID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.logger.Info("user signed up", zap.String("user_id", user.ID))
	common.RespondSuccess(w, http.StatusCreated, common.Payload{
		"message": "account created",
		"user":    userPayload(user, token),
	})
}

// Login verifies credentials and returns the account with a fresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			common.RespondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		common.RespondAppError(w, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		common.RespondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.String("user_id", user.ID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"message": "login successful",
		"user":    userPayload(user, token),
	})
}

func userPayload(user *sqlite.User, token string) common.Payload {
	return common.Payload{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"token": token,
	}
}
