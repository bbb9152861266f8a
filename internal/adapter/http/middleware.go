package adapthttp

import (
	"context"
	"net/http"

	"coachfit/internal/app"
	"coachfit/internal/domain"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// authMiddleware validates the session cookie and stores the account on the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.disableAuth {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie("session")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := s.authSvc.ValidateSession(r.Context(), cookie.Value, r.UserAgent())
		switch err {
		case nil:
		case app.ErrSessionNotFound, app.ErrSessionExpired, app.ErrUserNotFound:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// canAccessClient decides whether the account may read or mutate the given
// client's data: admins and trainers may, clients only their own rows.
func canAccessClient(user *domain.User, clientID int64) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case domain.RoleAdmin, domain.RoleTrainer:
		return true
	default:
		return user.ID == clientID
	}
}

// requireRole rejects accounts outside the allowed roles.
func requireRole(user *domain.User, roles ...domain.Role) error {
	if user == nil {
		return app.ErrUnauthorized
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return app.ErrForbidden
}

// logRequest logs every request at trace level.
func logRequest() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logrus.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"ua":     r.UserAgent(),
			}).Trace("request")
			next.ServeHTTP(w, r)
		})
	}
}
