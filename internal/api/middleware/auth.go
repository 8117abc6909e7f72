package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/userservice"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"
	msgInvalidRole   = "некорректная роль пользователя"
	msgUnknownUser   = "пользователь не найден"
)

// Auth определяет текущего пользователя по заголовку X-User-ID.
// Роль берется из UserService, либо из заголовка X-User-Role, если ему разрешено доверять
// (запросы приходят через gateway).
func Auth(resolver ActorResolver, trustRoleHeader bool, log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
			if err != nil || userID <= 0 {
				log.Warn("%s %s - Missing or invalid %s header", r.Method, r.URL.Path, HeaderUserID)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			if rawRole := r.Header.Get(HeaderUserRole); trustRoleHeader && rawRole != "" {
				role, err := domain.ParseRole(rawRole)
				if err != nil {
					log.Warn("%s %s - Invalid role header: %v", r.Method, r.URL.Path, err)
					handlers.RespondUnauthorized(w, msgInvalidRole)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), domain.Actor{ID: userID, Role: role})))
				return
			}

			if resolver == nil {
				log.Warn("%s %s - Role of user_id=%d cannot be resolved", r.Method, r.URL.Path, userID)
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}

			actor, err := resolver.GetActor(r.Context(), userID)
			if err != nil {
				switch {
				case errors.Is(err, userservice.ErrUserNotFound):
					log.Warn("%s %s - Unknown user_id=%d", r.Method, r.URL.Path, userID)
					handlers.RespondUnauthorized(w, msgUnknownUser)
				case errors.Is(err, userservice.ErrUnknownRole):
					handlers.RespondUnauthorized(w, msgInvalidRole)
				default:
					log.Error("%s %s - Failed to resolve user_id=%d: %v", r.Method, r.URL.Path, userID, err)
					handlers.RespondServiceUnavailable(w, "", "")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), *actor)))
		})
	}
}

// RequireRole пропускает только пользователей с одной из ролей
func RequireRole(log Logger, roles ...domain.Role) mux.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, "")
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				log.Warn("%s %s - Role %s is not allowed for user_id=%d", r.Method, r.URL.Path, actor.Role, actor.ID)
				handlers.RespondForbidden(w, "доступ запрещен")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
