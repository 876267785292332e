package server

import (
	"forum/internal/models"
	"forum/internal/service"

	"github.com/gofiber/fiber/v2"
)

const entityUser = "User"

// GetUsers handles GET /user
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} object{message=string,payload=object{users=[]models.User}}
// @Router /user [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Users retrieved successfully!", fiber.Map{"users": users})
}

// CreateUser handles POST /user
// @Summary User signup
// @Description Register a new user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup request"
// @Success 200 {object} object{message=string,payload=object{user=models.User}}
// @Failure 400 {object} models.ErrorResponse
// @Router /user [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req, "create", entityUser); err != nil {
		return respondWithError(c, err)
	}

	user, err := s.userService.CreateUser(c.UserContext(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "User created successfully!", fiber.Map{"user": user})
}

// GetUser handles GET /user/:id
// @Summary Get own profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string,payload=object{user=models.User}}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /user/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.selfOnly(c, "retrieve")
	if err != nil {
		return respondWithError(c, err)
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	if user == nil {
		return respondWithError(c, doesNotExist("retrieve", entityUser, id))
	}
	return respond(c, "User retrieved successfully!", fiber.Map{"user": user})
}

// UpdateUser handles PUT /user/:id
// @Summary Update own profile
// @Description Updates the caller's account and re-issues the token cookie
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{username=string,email=string,password=string,avatar=string} true "Fields to change"
// @Success 200 {object} object{message=string,payload=object{user=models.User}}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.selfOnly(c, "update")
	if err != nil {
		return respondWithError(c, err)
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Avatar   *string `json:"avatar"`
	}
	if err := parseBody(c, &req, "update", entityUser); err != nil {
		return respondWithError(c, err)
	}

	user, err := s.userService.UpdateUser(c.UserContext(), id, service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondWithError(c, err)
	}

	token, err := s.authService.IssueToken(user)
	if err != nil {
		return respondWithError(c, err)
	}
	s.setTokenCookie(c, token)

	return respond(c, "User updated successfully!", fiber.Map{"user": user})
}

// DeleteUser handles DELETE /user/:id
// @Summary Delete own account
// @Description Soft-deletes the caller's account and revokes its sessions
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string,payload=object{user=models.User}}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.selfOnly(c, "delete")
	if err != nil {
		return respondWithError(c, err)
	}

	user, err := s.userService.DeleteUser(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}

	s.authService.RevokeUser(c.UserContext(), id)
	s.clearTokenCookie(c)

	return respond(c, "User deleted successfully!", fiber.Map{"user": user})
}

// selfOnly parses the target user id and checks that it is the caller.
func (s *Server) selfOnly(c *fiber.Ctx, op string) (uint, error) {
	id, err := parseID(c, op, entityUser)
	if err != nil {
		return 0, err
	}
	callerID, err := s.requireUser(c, op, entityUser)
	if err != nil {
		return 0, err
	}
	if callerID != id {
		verb := op
		if op == "update" {
			verb = "modify"
		}
		return 0, models.NewForbiddenError(prefix(op, entityUser) + "You are unable to " + verb + " a user other than yourself")
	}
	return id, nil
}
