package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"taskflow/internal/logger"
	"taskflow/internal/models"

	"go.uber.org/zap"
)

const userKey contextKey = "user"

// Authenticator превращает bearer-токен в личность вызывающего
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth требует заголовок Authorization: Bearer <token> и кладёт
// пользователя в контекст запроса; иначе 401
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Warn("HTTP: Нет заголовка авторизации",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", r.RemoteAddr))
				unauthorized(w, "Authorization token required")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Warn("HTTP: Неверный токен",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", r.RemoteAddr),
					zap.Error(err))
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func GetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"message": message})
}
