package server

import (
	"tapforward/internal/fingerprint"
	"tapforward/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VisitMessage handles GET /m/:slug?ref=<code>, the public page open.
// Anyone with the link can hit it; authentication is optional.
func (s *Server) VisitMessage(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var userID *uint
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	result, err := s.forwardService.Visit(c.UserContext(), service.VisitInput{
		Slug:        slug,
		RefCode:     c.Query("ref"),
		UserID:      userID,
		Fingerprint: fingerprint.Resolve(c.IP(), c.Get(fiber.HeaderUserAgent)),
	})
	if err != nil {
		return respondError(c, err)
	}

	response := fiber.Map{"visit": result}
	if result.ShareCode != "" {
		response["share_url"] = s.shareURL(result.Slug, result.ShareCode)
	}
	return c.JSON(response)
}

// UnlockStatus handles GET /f/:code, polled by an open page waiting for its
// forward to unlock.
func (s *Server) UnlockStatus(c *fiber.Ctx) error {
	result, err := s.forwardService.ResolveUnlock(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"visit":     result,
		"share_url": s.shareURL(result.Slug, result.ShareCode),
	})
}
