package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/memesocial/mockchat/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// privilegedTiers are the subscription tiers that bypass export quotas.
var privilegedTiers = map[string]bool{
	"pro":      true,
	"business": true,
}

// Auth validates bearer tokens issued by the external auth service and puts
// the caller identity (user id plus privileged-tier flag) on the context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Missing or invalid token"}}`, http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")

			user, err := ParseUserToken(tokenStr, jwtSecret)
			if err != nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseUserToken extracts the caller identity from a JWT. Also used by the
// WebSocket handshake, which can only carry the token in a query parameter.
func ParseUserToken(tokenStr, jwtSecret string) (domain.User, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.User{}, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.User{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims.GetSubject()
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.User{}, jwt.ErrTokenInvalidSubject
	}

	tier, _ := claims["tier"].(string)
	return domain.User{ID: userID, Privileged: privilegedTiers[tier]}, nil
}

// GetUser extracts the caller identity from the request context.
func GetUser(ctx context.Context) domain.User {
	return ctx.Value(UserKey).(domain.User)
}
