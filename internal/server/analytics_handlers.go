package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMessageAnalytics handles GET /api/messages/:id/analytics
func (s *Server) GetMessageAnalytics(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	analytics, err := s.analyticsService.MessageAnalytics(c.UserContext(), userID, messageID)
	if err != nil {
		return respondError(c, err)
	}

	// Give each link its ready-to-paste share URL.
	links := make([]fiber.Map, 0, len(analytics.Forwards))
	for _, f := range analytics.Forwards {
		links = append(links, fiber.Map{
			"forward":   f,
			"share_url": s.shareURL(analytics.Slug, f.UniqueCode),
		})
	}

	return c.JSON(fiber.Map{
		"analytics": analytics,
		"links":     links,
	})
}
