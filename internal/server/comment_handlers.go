package server

import (
	"forum/internal/service"

	"github.com/gofiber/fiber/v2"
)

const entityComment = "Comment"

// GetComments handles GET /comment
// @Summary List comments
// @Tags comments
// @Produce json
// @Success 200 {object} object{message=string,payload=object{comments=[]models.Comment}}
// @Router /comment [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.UserContext())
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Comments retrieved successfully!", fiber.Map{"comments": comments})
}

// GetPostComments handles GET /post/:id/comments
// @Summary List comments of a post
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string,payload=object{comments=[]models.Comment}}
// @Router /post/{id}/comments [get]
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := parseIdentifier(c.Params("id"), "retrieve", "Comments", "Post ID")
	if err != nil {
		return respondWithError(c, err)
	}

	comments, err := s.commentService.ListCommentsByPost(c.UserContext(), postID)
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Comments retrieved successfully!", fiber.Map{"comments": comments})
}

// GetComment handles GET /comment/:id
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string,payload=object{comment=models.Comment}}
// @Failure 404 {object} models.ErrorResponse
// @Router /comment/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "retrieve", entityComment)
	if err != nil {
		return respondWithError(c, err)
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	if comment == nil {
		return respondWithError(c, doesNotExist("retrieve", entityComment, id))
	}
	return respond(c, "Comment retrieved successfully!", fiber.Map{"comment": comment})
}

// CreateComment handles POST /comment
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param request body object{post_id=int,reply_id=int,content=string} true "Comment"
// @Success 200 {object} object{message=string,payload=object{comment=models.Comment}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /comment [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		PostID  flexString `json:"post_id"`
		ReplyID flexString `json:"reply_id"`
		Content string     `json:"content"`
	}
	if err := parseBody(c, &req, "create", entityComment); err != nil {
		return respondWithError(c, err)
	}

	userID, err := s.requireUser(c, "create", entityComment)
	if err != nil {
		return respondWithError(c, err)
	}
	postID, err := parseReference(req.PostID, "create", entityComment, "Post ID")
	if err != nil {
		return respondWithError(c, err)
	}
	var replyID *uint
	if req.ReplyID != "" {
		id, err := parseIdentifier(string(req.ReplyID), "create", entityComment, "Reply ID")
		if err != nil {
			return respondWithError(c, err)
		}
		replyID = &id
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
		ReplyID: replyID,
	})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Comment created successfully!", fiber.Map{"comment": comment})
}

// UpdateComment handles PUT /comment/:id
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body object{content=string} true "New content"
// @Success 200 {object} object{message=string,payload=object{comment=models.Comment}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /comment/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.ownedComment(c, "update")
	if err != nil {
		return respondWithError(c, err)
	}

	var req struct {
		Content *string `json:"content"`
	}
	if err := parseBody(c, &req, "update", entityComment); err != nil {
		return respondWithError(c, err)
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), id, service.UpdateCommentInput{Content: req.Content})
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Comment updated successfully!", fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /comment/:id
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string,payload=object{comment=models.Comment}}
// @Failure 403 {object} models.ErrorResponse
// @Router /comment/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.ownedComment(c, "delete")
	if err != nil {
		return respondWithError(c, err)
	}

	comment, err := s.commentService.DeleteComment(c.UserContext(), id)
	if err != nil {
		return respondWithError(c, err)
	}
	return respond(c, "Comment deleted successfully!", fiber.Map{"comment": comment})
}

func (s *Server) ownedComment(c *fiber.Ctx, op string) (uint, error) {
	id, err := parseID(c, op, entityComment)
	if err != nil {
		return 0, err
	}
	userID, err := s.requireUser(c, op, entityComment)
	if err != nil {
		return 0, err
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return 0, err
	}
	if comment == nil {
		return 0, doesNotExist(op, entityComment, id)
	}
	if err := requireOwner(userID, comment.UserID, op, entityComment); err != nil {
		return 0, err
	}
	return id, nil
}
