package controllers

import (
	"context"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ManuelReschke/HouseHub/internal/pkg/statistics"
	"github.com/ManuelReschke/HouseHub/views"
)

// StatisticsSource provides the site totals
type StatisticsSource interface {
	Get(ctx context.Context) statistics.StatisticsData
}

type PageController struct {
	stats StatisticsSource
}

func NewPageController(stats StatisticsSource) *PageController {
	return &PageController{stats: stats}
}

func (pc *PageController) HandleAbout(c *fiber.Ctx) error {
	var data statistics.StatisticsData
	if pc.stats != nil {
		data = pc.stats.Get(c.UserContext())
	}

	about := views.About(newLayout(c, "About"), data)
	handler := adaptor.HTTPHandler(templ.Handler(about))

	return handler(c)
}
