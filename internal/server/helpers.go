package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"forum/internal/auth"
	"forum/internal/middleware"
	"forum/internal/models"

	"github.com/gofiber/fiber/v2"
)

const tokenCookie = "token"

// respond writes the success envelope.
func respond(c *fiber.Ctx, message string, payload fiber.Map) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"payload": payload,
	})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			return fiber.StatusBadRequest
		case models.CodeNotFound:
			return fiber.StatusNotFound
		case models.CodeUnauthorized:
			return fiber.StatusUnauthorized
		case models.CodeForbidden:
			return fiber.StatusForbidden
		case models.CodeMethodNotFound:
			return fiber.StatusMethodNotAllowed
		}
	}
	return fiber.StatusInternalServerError
}

// respondWithError writes the error envelope for err. Errors that are not
// AppErrors are reported as internal errors.
func respondWithError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	status := statusFor(appErr)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Name:    appErr.Kind(),
		Message: appErr.Message,
		Payload: map[string]any{},
	})
}

// errorHandler converts errors escaping the handler chain into the error
// envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return notFound(c)
		case fiber.StatusMethodNotAllowed:
			return methodNotAllowed(c)
		}
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
			Name:    "HttpError",
			Message: fiberErr.Message,
			Payload: map[string]any{},
		})
	}
	return respondWithError(c, err)
}

func methodNotAllowed(c *fiber.Ctx) error {
	return respondWithError(c, models.NewHTTPError("Invalid request method!"))
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Invalid request path!",
		"payload": fiber.Map{},
	})
}

func prefix(op, entity string) string {
	return fmt.Sprintf("Cannot %s %s: ", op, entity)
}

// parseID extracts the :id route parameter as a positive integer.
func parseID(c *fiber.Ctx, op, entity string) (uint, error) {
	return parseIdentifier(c.Params("id"), op, entity, "ID")
}

// parseIdentifier parses raw as a positive integer, reporting label as the
// invalid field.
func parseIdentifier(raw, op, entity, label string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(prefix(op, entity) + "Invalid " + label + ".")
	}
	return uint(id), nil
}

// parseReference parses an id referencing another entity in a request body.
// An absent id is 0, which the entity services report as not existing.
func parseReference(raw flexString, op, entity, label string) (uint, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return 0, nil
	}
	return parseIdentifier(string(raw), op, entity, label)
}

func doesNotExist(op, entity string, id uint) error {
	return models.NewNotFoundError(fmt.Sprintf("%s%s does not exist with ID %d.", prefix(op, entity), entity, id))
}

// parseBody decodes the JSON request body into out.
func parseBody(c *fiber.Ctx, out any, op, entity string) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError(prefix(op, entity) + "Invalid request body.")
	}
	return nil
}

// flexString accepts a JSON string or number. Clients send identifiers and
// the post type ordinal either way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// identify returns the claims of the caller's token cookie, or nil when the
// caller is not logged in.
func (s *Server) identify(c *fiber.Ctx) *auth.Claims {
	token := c.Cookies(tokenCookie)
	if token == "" {
		return nil
	}
	claims, err := s.authService.Authenticate(c.UserContext(), token)
	if err != nil {
		return nil
	}
	return claims
}

// requireUser returns the id of the logged-in caller.
func (s *Server) requireUser(c *fiber.Ctx, op, entity string) (uint, error) {
	claims := s.identify(c)
	if claims == nil {
		return 0, models.NewAuthenticationError(prefix(op, entity) + "User not currently logged in")
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, models.NewAuthenticationError(prefix(op, entity) + "User not currently logged in")
	}
	middleware.SetUserID(c, userID)
	return userID, nil
}

// requireOwner checks that the caller owns a record owned by ownerID.
func requireOwner(callerID, ownerID uint, op, entity string) error {
	if callerID == ownerID {
		return nil
	}
	verb := "modify"
	if op == "delete" {
		verb = "delete"
	}
	return models.NewForbiddenError(fmt.Sprintf("%sYou are unable to %s a %s that you didn't create.",
		prefix(op, entity), verb, strings.ToLower(entity)))
}

func (s *Server) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.authService.TokenTTL()),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
