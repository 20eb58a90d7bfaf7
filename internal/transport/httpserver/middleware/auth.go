package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gear-tracker-go/internal/config"
	"gear-tracker-go/pkg/logger"
)

// IdentityAuth verifies bearer tokens against the external identity
// provider and never inspects credentials itself. The provider's
// principal id and role claim are trusted as-is.
type IdentityAuth struct {
	providerURL string
	apiKey      string
	client      *http.Client
	users       UserSaver
	log         logger.Logger
	skipAuth    bool
	mockUser    User
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID       string
	Email    string
	Name     string
	PhotoURL string
	Role     string
}

// UserSaver records the principal locally on first authentication.
type UserSaver interface {
	UpsertUser(ctx context.Context, userID, email, displayName, photoURL string) error
}

type principalResponse struct {
	ID      string `json:"id"`
	Sub     string `json:"sub"`
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
}

func NewIdentityAuth(cfg config.AuthConfig, users UserSaver, log logger.Logger) *IdentityAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &IdentityAuth{
		providerURL: strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:      cfg.APIKey,
		client:      &http.Client{Timeout: timeout},
		users:       users,
		log:         log,
		skipAuth:    cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
			Role:  strings.TrimSpace(cfg.MockUserRole),
		},
	}
}

func (a *IdentityAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			a.serveAs(w, r, next, a.mockUser)
			return
		}

		if a.providerURL == "" {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.providerURL+"/user", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if a.apiKey != "" {
			req.Header.Set("apikey", a.apiKey)
		}

		resp, err := a.client.Do(req)
		if err != nil {
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var payload principalResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			unauthorized(w)
			return
		}

		userID := firstNonEmpty(payload.ID, payload.Sub, payload.UID)
		if userID == "" {
			unauthorized(w)
			return
		}

		role := payload.Role
		if role == "" {
			role = "user"
		}

		a.serveAs(w, r, next, User{
			ID:       userID,
			Email:    payload.Email,
			Name:     payload.Name,
			PhotoURL: payload.Picture,
			Role:     role,
		})
	})
}

func (a *IdentityAuth) serveAs(w http.ResponseWriter, r *http.Request, next http.Handler, user User) {
	if user.ID == "" {
		writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
		return
	}

	if a.users != nil {
		if err := a.users.UpsertUser(r.Context(), user.ID, user.Email, user.Name, user.PhotoURL); err != nil {
			a.log.InternalError("auth: upsert user failed", err, "user_id", user.ID)
		}
	}

	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
