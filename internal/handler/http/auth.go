package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/oauth"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService    jwt.Service
	authService   auth.AuthService
	googleService oauth.GoogleService
	frontendURL   string
	secureCookies bool
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, googleService oauth.GoogleService, frontendURL string, secureCookies bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		googleService: googleService,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

func sessionFromRequest(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Register(r.Context(), registerReq, sessionFromRequest(r))
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User registered successfully", "employee_id", tokenResponse.User.EmployeeID)
	response.Created(w, "User registered successfully", tokenResponse)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq, sessionFromRequest(r))
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User logged in successfully")
	response.SuccessWithMessage(w, "User logged in successfully", tokenResponse)
}

// LoginWithGoogle implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	state := a.googleService.GenerateState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauth.StateCookieName,
		Value:    state,
		Path:     "/api/v1/auth/oauth/callback/google",
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// googleCallbackCodes are the error values passed back to the frontend.
var googleCallbackCodes = []struct {
	err  error
	code string
}{
	{auth.ErrGoogleAccessDeniedByUser, "access_denied"},
	{auth.ErrStateCookieNotFound, "state_cookie_not_found"},
	{auth.ErrStateCookieEmpty, "state_cookie_empty"},
	{auth.ErrStateParamEmpty, "state_param_empty"},
	{auth.ErrStateMismatch, "state_mismatch"},
	{auth.ErrCodeValueEmpty, "code_empty"},
	{oauth.ErrTokenExchange, "token_verification_failed"},
	{oauth.ErrUserInfoUnavailable, "user_verification_failed"},
	{auth.ErrGoogleEmailNotVerified, "email_not_verified"},
	{auth.ErrGoogleAccountNotRegistered, "account_not_registered"},
}

func googleCallbackCode(err error) string {
	for _, c := range googleCallbackCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "login_failed"
}

// OAuthCallbackGoogle implements AuthHandler. The outcome is always a
// redirect to the frontend, carrying either the access token or an error code.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauth.StateCookieName,
		Path:     "/api/v1/auth/oauth/callback/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
	})

	target := a.frontendURL + "/auth/callback/google?"

	tokenResponse, err := a.completeGoogleLogin(r)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleAccessDeniedByUser) {
			slog.Warn("Google sign-in cancelled", "error", err)
		} else {
			slog.Error("Google sign-in failed", "error", err)
		}
		http.Redirect(w, r, target+url.Values{"error": {googleCallbackCode(err)}}.Encode(), http.StatusTemporaryRedirect)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User logged in successfully via Google OAuth")

	params := url.Values{
		"access_token": {tokenResponse.AccessToken},
		"expires_in":   {strconv.FormatInt(tokenResponse.AccessTokenExpiresIn, 10)},
	}
	http.Redirect(w, r, target+params.Encode(), http.StatusTemporaryRedirect)
}

func (a *AuthHandlerImpl) completeGoogleLogin(r *http.Request) (auth.TokenResponse, error) {
	query := r.URL.Query()

	if consentErr := query.Get("error"); consentErr != "" {
		if consentErr == "access_denied" {
			return auth.TokenResponse{}, auth.ErrGoogleAccessDeniedByUser
		}
		return auth.TokenResponse{}, fmt.Errorf("google consent error: %s", consentErr)
	}

	stateCookie, err := r.Cookie(oauth.StateCookieName)
	state := query.Get("state")
	switch {
	case err != nil:
		return auth.TokenResponse{}, auth.ErrStateCookieNotFound
	case stateCookie.Value == "":
		return auth.TokenResponse{}, auth.ErrStateCookieEmpty
	case state == "":
		return auth.TokenResponse{}, auth.ErrStateParamEmpty
	case state != stateCookie.Value:
		return auth.TokenResponse{}, auth.ErrStateMismatch
	}

	code := query.Get("code")
	if code == "" {
		return auth.TokenResponse{}, auth.ErrCodeValueEmpty
	}

	token, err := a.googleService.VerifyToken(r.Context(), code)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	info, err := a.googleService.VerifyUser(r.Context(), token)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if !info.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrGoogleEmailNotVerified
	}

	return a.authService.LoginWithGoogle(r.Context(), info.Email, info.GoogleID, sessionFromRequest(r))
}

// Logout implements AuthHandler. A bearer access token sent along is
// revoked as well.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	refreshTokenCookieReq, err := r.Cookie(jwt.RefreshTokenCookieName)
	if err != nil {
		response.HandleError(w, auth.ErrRefreshTokenCookieNotFound)
		return
	}
	if refreshTokenCookieReq.Value == "" {
		response.HandleError(w, auth.ErrRefreshTokenCookieEmpty)
		return
	}

	if err := a.authService.Logout(r.Context(), refreshTokenCookieReq.Value); err != nil {
		response.HandleError(w, err)
		return
	}

	if accessToken := jwtauth.TokenFromHeader(r); accessToken != "" {
		a.jwtService.RevokeToken(accessToken)
	}

	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	// Cookie first, JSON body as fallback
	refreshTokenCookie, err := r.Cookie(jwt.RefreshTokenCookieName)
	if err == nil && refreshTokenCookie.Value != "" {
		refreshTokenReq.RefreshToken = refreshTokenCookie.Value
	} else if err := json.NewDecoder(r.Body).Decode(&refreshTokenReq); err != nil {
		slog.Error("Refresh Token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), refreshTokenReq)
	if err != nil {
		slog.Error("Refresh Token service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Token refreshed successfully", tokenResponse)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := a.authService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}
