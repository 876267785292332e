package server

import (
	"forum/internal/service"

	"github.com/gofiber/fiber/v2"
)

const entityPost = "Post"

// GetPosts handles GET /post
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {object} object{message=string,payload=object{posts=[]models.Post}}
// @Router /post [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Posts retrieved successfully!", fiber.Map{"posts": posts})
}

// GetPostsByCategory handles GET /post/category/:id
// @Summary List posts of a category
// @Tags posts
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{message=string,payload=object{posts=[]models.Post}}
// @Router /post/category/{id} [get]
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	categoryID, err := parseIdentifier(c.Params("id"), "retrieve", "Posts", "Category ID")
	if err != nil {
		return respondWithError(c, err)
	}

	posts, err := s.postService.ListPostsByCategory(c.UserContext(), categoryID)
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Posts retrieved successfully!", fiber.Map{"posts": posts})
}

// GetPost handles GET /post/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string,payload=object{post=models.Post}}
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "retrieve", entityPost)
	if err != nil {
		return respondWithError(c, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	if post == nil {
		return respondWithError(c, doesNotExist("retrieve", entityPost, id))
	}
	return respond(c, "Post retrieved successfully!", fiber.Map{"post": post})
}

// CreatePost handles POST /post
// @Summary Create a post
// @Description type is the ordinal of the post type: 0 Text, 1 URL
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{category_id=int,title=string,content=string,type=int} true "Post"
// @Success 200 {object} object{message=string,payload=object{post=models.Post}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		CategoryID flexString `json:"category_id"`
		Title      string     `json:"title"`
		Content    string     `json:"content"`
		Type       flexString `json:"type"`
	}
	if err := parseBody(c, &req, "create", entityPost); err != nil {
		return respondWithError(c, err)
	}

	userID, err := s.requireUser(c, "create", entityPost)
	if err != nil {
		return respondWithError(c, err)
	}
	categoryID, err := parseReference(req.CategoryID, "create", entityPost, "Category ID")
	if err != nil {
		return respondWithError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      req.Title,
		Content:    req.Content,
		Type:       string(req.Type),
	})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Post created successfully!", fiber.Map{"post": post})
}

// UpdatePost handles PUT /post/:id
// @Summary Edit a text post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{content=string} true "New content"
// @Success 200 {object} object{message=string,payload=object{post=models.Post}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /post/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.ownedPost(c, "update")
	if err != nil {
		return respondWithError(c, err)
	}

	var req struct {
		Content *string `json:"content"`
	}
	if err := parseBody(c, &req, "update", entityPost); err != nil {
		return respondWithError(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, service.UpdatePostInput{Content: req.Content})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Post updated successfully!", fiber.Map{"post": post})
}

// DeletePost handles DELETE /post/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string,payload=object{post=models.Post}}
// @Failure 403 {object} models.ErrorResponse
// @Router /post/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.ownedPost(c, "delete")
	if err != nil {
		return respondWithError(c, err)
	}

	post, err := s.postService.DeletePost(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Post deleted successfully!", fiber.Map{"post": post})
}

func (s *Server) ownedPost(c *fiber.Ctx, op string) (uint, error) {
	id, err := parseID(c, op, entityPost)
	if err != nil {
		return 0, err
	}
	userID, err := s.requireUser(c, op, entityPost)
	if err != nil {
		return 0, err
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, doesNotExist(op, entityPost, id)
	}
	if err := requireOwner(userID, post.UserID, op, entityPost); err != nil {
		return 0, err
	}
	return id, nil
}
