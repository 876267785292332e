package server

import (
	"forum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /auth/login
// @Summary User login
// @Description Authenticate user and set the token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{message=string,payload=object{user=models.User}}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, models.NewValidationError("Cannot login: Invalid request body."))
	}

	user, token, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondWithError(c, err)
	}

	s.setTokenCookie(c, token)
	return respond(c, "User logged in successfully!", fiber.Map{"user": user})
}

// Logout handles POST /auth/logout
// @Summary User logout
// @Description Revoke the caller's token and clear the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string,payload=object}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if c.Cookies(tokenCookie) == "" {
		return respondWithError(c, models.NewAuthenticationError("Cannot logout: User not currently logged in"))
	}

	if claims := s.identify(c); claims != nil {
		s.authService.Logout(c.UserContext(), claims)
	}
	s.clearTokenCookie(c)

	return respond(c, "User logged out successfully!", fiber.Map{})
}
