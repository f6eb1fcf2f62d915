package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/companydev/user-identity-service/internal/api/metrics"
	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login authenticates a user. The response is either the token triple or a
// NEW_PASSWORD_REQUIRED challenge with a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Only credential rejections count; infrastructure failures and
		// unknown emails would skew the rejection rate.
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotActive) {
			metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	if result.ChallengeName != "" {
		metrics.AuthAttemptsTotal.WithLabelValues("challenge").Inc()
		return c.JSON(http.StatusOK, loginResponse{
			ChallengeName: result.ChallengeName,
			Session:       result.Session,
		})
	}

	metrics.AuthAttemptsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken:  result.AccessToken,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// CompleteChallenge answers a NEW_PASSWORD_REQUIRED challenge with a new
// password and returns the first real token triple.
//
// @Summary      Complete the new-password challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      challengeRequest  true  "New password and challenge session"
// @Success      200   {object}  tokensResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/challenge [post]
func (h *AuthHandler) CompleteChallenge(c echo.Context) error {
	var req challengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.CompleteNewPasswordChallenge(c.Request().Context(), ports.CompleteChallengeInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		Session:     req.Session,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokensResponse(*result))
}

// Refresh exchanges a refresh token for a new access/id token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse(*result))
}
