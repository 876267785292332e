package server

import (
	"forum/internal/service"

	"github.com/gofiber/fiber/v2"
)

const entityCategory = "Category"

// GetCategories handles GET /category
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} object{message=string,payload=object{categories=[]models.Category}}
// @Router /category [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Categories retrieved successfully!", fiber.Map{"categories": categories})
}

// GetCategory handles GET /category/:id
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{message=string,payload=object{category=models.Category}}
// @Failure 404 {object} models.ErrorResponse
// @Router /category/{id} [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "retrieve", entityCategory)
	if err != nil {
		return respondWithError(c, err)
	}

	category, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	if category == nil {
		return respondWithError(c, doesNotExist("retrieve", entityCategory, id))
	}
	return respond(c, "Category retrieved successfully!", fiber.Map{"category": category})
}

// CreateCategory handles POST /category
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string} true "Category"
// @Success 200 {object} object{message=string,payload=object{category=models.Category}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /category [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	userID, err := s.requireUser(c, "create", entityCategory)
	if err != nil {
		return respondWithError(c, err)
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := parseBody(c, &req, "create", entityCategory); err != nil {
		return respondWithError(c, err)
	}

	category, err := s.categoryService.CreateCategory(c.UserContext(), service.CreateCategoryInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Category created successfully!", fiber.Map{"category": category})
}

// UpdateCategory handles PUT /category/:id
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body object{title=string,description=string} true "Fields to change"
// @Success 200 {object} object{message=string,payload=object{category=models.Category}}
// @Failure 403 {object} models.ErrorResponse
// @Router /category/{id} [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.ownedCategory(c, "update")
	if err != nil {
		return respondWithError(c, err)
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := parseBody(c, &req, "update", entityCategory); err != nil {
		return respondWithError(c, err)
	}

	category, err := s.categoryService.UpdateCategory(c.UserContext(), id, service.UpdateCategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Category updated successfully!", fiber.Map{"category": category})
}

// DeleteCategory handles DELETE /category/:id
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{message=string,payload=object{category=models.Category}}
// @Failure 403 {object} models.ErrorResponse
// @Router /category/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.ownedCategory(c, "delete")
	if err != nil {
		return respondWithError(c, err)
	}

	category, err := s.categoryService.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Category deleted successfully!", fiber.Map{"category": category})
}

// ownedCategory parses the category id and checks the caller created it.
func (s *Server) ownedCategory(c *fiber.Ctx, op string) (uint, error) {
	id, err := parseID(c, op, entityCategory)
	if err != nil {
		return 0, err
	}
	userID, err := s.requireUser(c, op, entityCategory)
	if err != nil {
		return 0, err
	}

	category, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return 0, err
	}
	if category == nil {
		return 0, doesNotExist(op, entityCategory, id)
	}
	if err := requireOwner(userID, category.UserID, op, entityCategory); err != nil {
		return 0, err
	}
	return id, nil
}
