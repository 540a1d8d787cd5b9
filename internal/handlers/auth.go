package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/salesdesk/apiserver/internal/services"
	"github.com/salesdesk/apiserver/types"
)

const defaultTokenTTL = 24 * time.Hour

// AuthHandler provides JWT authentication endpoints over the credential
// store.
type AuthHandler struct {
	credentials *services.CredentialService
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(credentials *services.CredentialService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		secret:      []byte(jwtSecret),
		tokenTTL:    defaultTokenTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, credentials *services.CredentialService, jwtSecret string) {
	handler := NewAuthHandler(credentials, jwtSecret)

	r.Post("/login", handler.Login)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
}

// RequireAuth enforces JWT authentication and injects the caller identity
// into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return requireAuth(h.secret)(next)
}

// RequireAuth constructs auth middleware for other routers.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return requireAuth([]byte(jwtSecret))
}

// RequireAdmin rejects authenticated callers without the admin flag. It
// must be chained after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !identity.Admin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			identity, err := parseTokenIdentity(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Login verifies credentials and returns a JWT. Unknown email and wrong
// password produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.credentials.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	token, err := issueToken(user, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the current authenticated caller, taken from token claims.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, types.User{
		ID:      identity.UserID,
		Name:    identity.Name,
		Email:   identity.Email,
		IsAdmin: identity.Admin,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

type authClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

func issueToken(user types.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  user.Name,
		Email: user.Email,
		Admin: user.IsAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenIdentity(tokenString string, secret []byte) (Identity, error) {
	claims := authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return Identity{}, errors.New("invalid subject")
	}
	return Identity{
		UserID: userID,
		Name:   claims.Name,
		Email:  claims.Email,
		Admin:  claims.Admin,
	}, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
