package http

import (
	"net/http"

	"yamdb/internal/usecase"
	"yamdb/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	base
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		base:        base{logger: logger},
		authUseCase: authUseCase,
	}
}

type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Signup godoc
// @Summary      Sign up
// @Description  Register a username and email and mail a confirmation code. Repeating the call with the same pair sends a fresh code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body usecase.SignupInput true "Signup data"
// @Success      200  {object}  SignupResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req usecase.SignupInput
	if !h.bind(c, nil, &req) {
		return
	}

	user, err := h.authUseCase.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, SignupResponse{Username: user.Username, Email: user.Email})
}

// Token godoc
// @Summary      Obtain access token
// @Description  Exchange the confirmation code for a JWT access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body usecase.TokenInput true "Username and confirmation code"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req usecase.TokenInput
	if !h.bind(c, nil, &req) {
		return
	}

	token, err := h.authUseCase.Token(c.Request.Context(), req)
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
