package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func tokenPair(u user.User) auth.TokenResponse {
	resp := user.NewUserResponse(u)
	return auth.TokenResponse{
		AccessToken:           "access-token",
		AccessTokenExpiresIn:  1700003600,
		RefreshToken:          "refresh-token",
		RefreshTokenExpiresIn: 1700086400,
		User:                  &resp,
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterHandler(t *testing.T) {
	s := newTestServer(t)
	var got auth.RegisterRequest
	s.auth.register = func(req auth.RegisterRequest) (auth.TokenResponse, error) {
		got = req
		return tokenPair(employeeUser), nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com","password":"secret1","department":"Engineering"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(t, req, nil)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Engineering", got.Department)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"employee_id":"EMP001"`)

	cookie := findCookie(rec, jwt.RefreshTokenCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	s.auth.register = func(auth.RegisterRequest) (auth.TokenResponse, error) {
		return auth.TokenResponse{}, auth.ErrEmailAlreadyExists
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusBadRequest, s.do(t, req, nil).Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`name=alice`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusUnsupportedMediaType, s.do(t, req, nil).Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"alice@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusConflict, s.do(t, req, nil).Code)
	})
}

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)
	s.auth.login = func(req auth.LoginRequest) (auth.TokenResponse, error) {
		if req.Password != "secret1" {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return tokenPair(employeeUser), nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(t, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, findCookie(rec, jwt.RefreshTokenCookieName))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = s.do(t, req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestRefreshTokenHandler(t *testing.T) {
	s := newTestServer(t)
	var got string
	s.auth.refresh = func(req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
		got = req.RefreshToken
		return auth.AccessTokenResponse{AccessToken: "new-access", AccessTokenExpiresIn: 1}, nil
	}

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookieName, Value: "from-cookie"})
		rec := s.do(t, req, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "from-cookie", got)
		assert.Contains(t, string(decodeEnvelope(t, rec).Data), "new-access")
	})

	t.Run("body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"from-body"}`))
		rec := s.do(t, req, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "from-body", got)
	})

	t.Run("revoked", func(t *testing.T) {
		s.auth.refresh = func(auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
			return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"old"}`))
		assert.Equal(t, http.StatusUnauthorized, s.do(t, req, nil).Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	s := newTestServer(t)
	var revoked string
	s.auth.logout = func(refreshToken string) error {
		revoked = refreshToken
		return nil
	}

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, s.do(t, req, nil).Code)
	})

	t.Run("revokes both tokens", func(t *testing.T) {
		access := s.token(t, employeeUser)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookieName, Value: "refresh-token"})
		req.Header.Set("Authorization", "Bearer "+access)
		rec := s.do(t, req, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "refresh-token", revoked)
		assert.True(t, s.jwt.IsTokenRevoked(access))

		cleared := findCookie(rec, jwt.RefreshTokenCookieName)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)

		// the revoked access token no longer opens protected routes
		req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		assert.Equal(t, http.StatusUnauthorized, s.do(t, req, nil).Code)
	})
}

func TestMeHandler(t *testing.T) {
	s := newTestServer(t)
	s.auth.me = func(ctx context.Context) (user.UserResponse, error) {
		claims, err := jwt.ClaimsFromContext(ctx)
		if err != nil {
			return user.UserResponse{}, err
		}
		return user.UserResponse{ID: claims.UserID, EmployeeID: claims.EmployeeID}, nil
	}

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), &employeeUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), employeeUser.ID)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWithGoogleHandler(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil), nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "state=state-123")

	cookie := findCookie(rec, oauth.StateCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "state-123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestOAuthCallbackGoogleHandler(t *testing.T) {
	callback := func(s *testServer, cookieState, queryState string) *httptest.ResponseRecorder {
		target := "/api/v1/auth/oauth/callback/google?code=abc&state=" + url.QueryEscape(queryState)
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if cookieState != "" {
			req.AddCookie(&http.Cookie{Name: oauth.StateCookieName, Value: cookieState})
		}
		return s.do(t, req, nil)
	}
	redirectQuery := func(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
		t.Helper()
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/auth/callback/google", loc.Path)
		return loc.Query()
	}

	t.Run("success", func(t *testing.T) {
		s := newTestServer(t)
		s.google.token = &oauth2.Token{AccessToken: "google-token"}
		s.google.info = oauth.GoogleInformation{GoogleID: "g-1", Email: "alice@example.com", VerifiedEmail: true}
		var gotEmail, gotID string
		s.auth.loginWithGoogle = func(email, googleID string) (auth.TokenResponse, error) {
			gotEmail, gotID = email, googleID
			return tokenPair(employeeUser), nil
		}

		rec := callback(s, "state-123", "state-123")
		q := redirectQuery(t, rec)
		assert.Equal(t, "access-token", q.Get("access_token"))
		assert.Equal(t, "1700003600", q.Get("expires_in"))
		assert.Equal(t, "alice@example.com", gotEmail)
		assert.Equal(t, "g-1", gotID)
		assert.NotNil(t, findCookie(rec, jwt.RefreshTokenCookieName))
	})

	t.Run("state mismatch", func(t *testing.T) {
		s := newTestServer(t)
		q := redirectQuery(t, callback(s, "state-123", "forged"))
		assert.Equal(t, "state_mismatch", q.Get("error"))
	})

	t.Run("missing state cookie", func(t *testing.T) {
		s := newTestServer(t)
		q := redirectQuery(t, callback(s, "", "state-123"))
		assert.Equal(t, "state_cookie_not_found", q.Get("error"))
	})

	t.Run("unverified email", func(t *testing.T) {
		s := newTestServer(t)
		s.google.token = &oauth2.Token{AccessToken: "google-token"}
		s.google.info = oauth.GoogleInformation{GoogleID: "g-1", Email: "alice@example.com"}
		q := redirectQuery(t, callback(s, "state-123", "state-123"))
		assert.Equal(t, "email_not_verified", q.Get("error"))
	})

	t.Run("not registered", func(t *testing.T) {
		s := newTestServer(t)
		s.google.token = &oauth2.Token{AccessToken: "google-token"}
		s.google.info = oauth.GoogleInformation{GoogleID: "g-2", Email: "stranger@example.com", VerifiedEmail: true}
		s.auth.loginWithGoogle = func(string, string) (auth.TokenResponse, error) {
			return auth.TokenResponse{}, auth.ErrGoogleAccountNotRegistered
		}
		q := redirectQuery(t, callback(s, "state-123", "state-123"))
		assert.Equal(t, "account_not_registered", q.Get("error"))
	})

	t.Run("code exchange failure", func(t *testing.T) {
		s := newTestServer(t)
		s.google.tokenErr = fmt.Errorf("%w: invalid_grant", oauth.ErrTokenExchange)
		q := redirectQuery(t, callback(s, "state-123", "state-123"))
		assert.Equal(t, "token_verification_failed", q.Get("error"))
	})

	t.Run("access denied", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?error=access_denied", nil)
		q := redirectQuery(t, s.do(t, req, nil))
		assert.Equal(t, "access_denied", q.Get("error"))
	})
}
