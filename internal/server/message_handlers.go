package server

import (
	"tapforward/internal/models"
	"tapforward/internal/service"

	"github.com/gofiber/fiber/v2"
)

type messageRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	UnlocksNeeded int    `json:"unlocks_needed"`
}

// CreateMessage handles POST /api/messages
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.CreateMessage(c.UserContext(), service.CreateMessageInput{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		UnlocksNeeded: req.UnlocksNeeded,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   message,
		"share_url": s.shareURL(message.Slug, ""),
	})
}

// GetMyMessages handles GET /api/messages
func (s *Server) GetMyMessages(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	p := parsePagination(c, 20)

	messages, err := s.messageService.ListMessages(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// GetMessage handles GET /api/messages/:id
func (s *Server) GetMessage(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.messageService.GetMessageByID(c.UserContext(), userID, messageID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   message,
		"share_url": s.shareURL(message.Slug, ""),
	})
}

// UpdateMessage handles PUT /api/messages/:id
func (s *Server) UpdateMessage(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.UpdateMessage(c.UserContext(), service.UpdateMessageInput{
		UserID:        userID,
		MessageID:     messageID,
		Title:         req.Title,
		Content:       req.Content,
		UnlocksNeeded: req.UnlocksNeeded,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// DeleteMessage handles DELETE /api/messages/:id
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messageService.DeleteMessage(c.UserContext(), userID, messageID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// shareURL builds the public link for a message, optionally carrying a
// referral code.
func (s *Server) shareURL(slug, refCode string) string {
	url := s.config.BaseURL + "/m/" + slug
	if refCode != "" {
		url += "?ref=" + refCode
	}
	return url
}
