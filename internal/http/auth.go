package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"schoolhub/internal/crypto"
	"schoolhub/internal/model"
	"schoolhub/internal/service"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserRole    string `json:"user_role"`
}

// handleToken authenticates a form-encoded username/password pair. Unknown
// username and wrong password produce the same generic 401.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	token, user, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		s.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserRole:    string(user.Role),
	})
}

type registerRequest struct {
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Password    string            `json:"password"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Department  string            `json:"department"`
	ContactInfo map[string]string `json:"contact_info"`
	Salary      float64           `json:"salary"`
}

// handleRegister creates a user; the role comes from the path and overrides
// anything in the body.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	role := model.Role(chi.URLParam(r, "role"))
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_role")
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_password")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_password")
		return
	}

	userID, err := s.store.CreateUser(r.Context(), model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Department:   req.Department,
		ContactInfo:  req.ContactInfo,
		Salary:       req.Salary,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"user_id": userID})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	logoutID, err := s.auth.Logout(r.Context(), *user, bearerToken(r.Header.Get("Authorization")))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"logout_id": logoutID})
}

func (s *Server) handleListUsersByRole(w http.ResponseWriter, r *http.Request) {
	role := model.Role(chi.URLParam(r, "role"))
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_role")
		return
	}

	skip, limit := parsePage(r)
	users, err := s.store.ListUsersByRole(r.Context(), role, skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// authMiddleware resolves the bearer token to a full user record; the
// directory, not the token payload, is the source of truth.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		user, err := s.auth.ResolveBearer(r.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			s.writeStoreError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRoles(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromContext(r.Context())
			if user == nil || !service.Authorize(*user, allowed...) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type userKey struct{}

func userFromContext(ctx context.Context) *model.User {
	value := ctx.Value(userKey{})
	user, _ := value.(*model.User)
	return user
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
