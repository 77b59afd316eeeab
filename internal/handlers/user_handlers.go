package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskflow/internal/handlers/dto"
	"taskflow/internal/logger"
	"taskflow/internal/service"

	"go.uber.org/zap"
)

type UserHandler struct {
	UserService UserService
}

func NewUserHandler(userService UserService) UserHandler {
	return UserHandler{
		UserService: userService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	user, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.UserService.Profile(r.Context(), user.ID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_profile"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithServerError(w, "Server error", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("user", profile))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	user, ok := caller(w, r)
	if !ok {
		return
	}

	var request dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Username:  request.Username,
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "update_profile"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithServerError(w, "Update failed", err)
		return
	}

	logger.Info("HTTP_OUT: Профиль обновлён",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "Profile updated successfully"),
		toPayload("user", updated),
	)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	user, ok := caller(w, r)
	if !ok {
		return
	}

	var request dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.UserService.ChangePassword(r.Context(), user.ID, request.CurrentPassword, request.NewPassword); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "change_password"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithServerError(w, "Server error", err)
		return
	}

	logger.Info("HTTP_OUT: Пароль изменён",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("message", "Password changed successfully"))
}

func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	user, ok := caller(w, r)
	if !ok {
		return
	}

	stats, err := h.UserService.Stats(r.Context(), user.ID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "user_stats"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithServerError(w, "Server error", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("stats", stats))
}
