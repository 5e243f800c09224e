package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/service"
	"github.com/mkhiriev/go-todo-vault/internal/store"
	"github.com/mkhiriev/go-todo-vault/internal/utils"
	"github.com/mkhiriev/go-todo-vault/models"
)

// maxAvatarBytes caps the accepted avatar upload size.
const maxAvatarBytes = 1 << 20

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrEmailAlreadyExists):
			log.Err(err).Msg("email already exists")
			http.Error(w, "email already exists", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	token, err := h.services.AuthService.Issue(ctx, registeredUser.UserID)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.AuthResponse{User: registeredUser, Token: token.SignedString}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		// Bad credentials and malformed input both come back as a plain 400
		// with no hint of which check failed.
		case errors.Is(err, service.ErrInvalidDataProvided) || errors.Is(err, service.ErrAuthenticationFailed):
			log.Err(err).Msg("login rejected")
			http.Error(w, "invalid email/password", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	token, err := h.services.AuthService.Issue(ctx, foundUser.UserID)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.AuthResponse{User: foundUser, Token: token.SignedString}, http.StatusOK)
}

// logout revokes exactly the presented session. Other sessions of the same
// user stay valid.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	tokenString, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		log.Error().Msg("no token in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.services.AuthService.Revoke(ctx, tokenString); err != nil {
		log.Err(err).Msg("session revocation failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// Explicit allow-list: any key outside {name, email, password} rejects
	// the whole update.
	var update models.UserUpdate
	for key, value := range body {
		var dst **string
		switch key {
		case "name":
			dst = &update.Name
		case "email":
			dst = &update.Email
		case "password":
			dst = &update.Password
		default:
			log.Error().Str("key", key).Msg("update key outside allow-list")
			utils.WriteJSON(w, models.ErrorResponse{Error: invalidUserUpdateMessage}, http.StatusBadRequest)
			return
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			log.Err(err).Str("key", key).Msg("update value is not a string")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}
		*dst = &s
	}

	updatedUser, err := h.services.UserService.UpdateProfile(ctx, user.UserID, update)
	if err != nil {
		log.Err(err).Msg("profile update failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, updatedUser, http.StatusOK)
}

// deleteMe removes the account; owned todos and active sessions go with it.
func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.services.UserService.DeleteAccount(ctx, user.UserID); err != nil {
		log.Err(err).Msg("account deletion failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	avatar, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		log.Err(err).Msg("avatar upload rejected")
		utils.WriteJSON(w, models.ErrorResponse{Error: "avatar too large or unreadable"}, http.StatusBadRequest)
		return
	}

	if err := h.services.UserService.SetAvatar(ctx, user.UserID, avatar); err != nil {
		log.Err(err).Msg("avatar upload failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		log.Error().Msg("no user in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.services.UserService.DeleteAvatar(ctx, user.UserID); err != nil {
		log.Err(err).Msg("avatar deletion failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// getAvatar serves a user's avatar publicly by user id; a missing user and a
// missing avatar are both a bare 404.
func (h *Handler) getAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	avatar, err := h.services.UserService.GetAvatar(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) || errors.Is(err, store.ErrAvatarNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		log.Err(err).Msg("avatar lookup failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(avatar)
}
