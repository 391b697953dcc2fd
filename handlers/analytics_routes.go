package handlers

import (
	"rise-platform/middleware"
	"rise-platform/models"
	"rise-platform/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type analyticsRoute struct {
	path    string
	roles   []models.Role // nil means public
	handler func(h *analyticsHandler, c *fiber.Ctx) (any, error)
}

// analyticsRouteTable is the full report surface with the roles each report requires.
var analyticsRouteTable = []analyticsRoute{
	{"/dashboard", nil, (*analyticsHandler).dashboard},
	{"/overview", nil, (*analyticsHandler).overview},
	{"/circles", []models.Role{models.RoleAdmin, models.RoleCouncil, models.RoleRegionalDirector, models.RoleYouthCaptain}, (*analyticsHandler).circles},
	{"/missions", []models.Role{models.RoleAdmin, models.RoleCouncil, models.RoleRegionalDirector}, (*analyticsHandler).missions},
	{"/regions", []models.Role{models.RoleAdmin, models.RoleCouncil, models.RoleRegionalDirector}, (*analyticsHandler).regions},
	{"/creators", []models.Role{models.RoleAdmin, models.RoleCouncil}, (*analyticsHandler).creators},
	{"/youth", []models.Role{models.RoleAdmin, models.RoleCouncil, models.RoleRegionalDirector, models.RoleYouthCaptain}, (*analyticsHandler).youth},
	{"/events", []models.Role{models.RoleAdmin, models.RoleCouncil, models.RoleRegionalDirector, models.RoleAmbassador}, (*analyticsHandler).events},
}

type analyticsHandler struct {
	svc    *services.AnalyticsService
	logger *zap.Logger
}

// SetupAnalyticsRoutes mounts /analytics. auth authenticates the caller on
// every report that requires a role.
func SetupAnalyticsRoutes(app fiber.Router, svc *services.AnalyticsService, auth fiber.Handler, logger *zap.Logger) {
	h := &analyticsHandler{svc: svc, logger: logger.Named("analytics_routes")}
	group := app.Group("/analytics")

	for _, route := range analyticsRouteTable {
		var chain []fiber.Handler
		if len(route.roles) > 0 {
			chain = append(chain, auth, middleware.RequireRoles(route.roles...))
		}
		chain = append(chain, h.serve(route.handler))
		group.Get(route.path, chain...)
	}
}

func (h *analyticsHandler) serve(report func(*analyticsHandler, *fiber.Ctx) (any, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := report(h, c)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(out)
	}
}

func (h *analyticsHandler) dashboard(c *fiber.Ctx) (any, error) {
	return h.svc.Dashboard(c.UserContext())
}

func (h *analyticsHandler) overview(c *fiber.Ctx) (any, error) {
	return h.svc.Overview(c.UserContext())
}

func (h *analyticsHandler) circles(c *fiber.Ctx) (any, error) {
	return h.svc.Circles(c.UserContext(), c.Query("region_id"))
}

func (h *analyticsHandler) missions(c *fiber.Ctx) (any, error) {
	return h.svc.Missions(c.UserContext(), c.Query("region_id"))
}

func (h *analyticsHandler) regions(c *fiber.Ctx) (any, error) {
	return h.svc.Regions(c.UserContext())
}

func (h *analyticsHandler) creators(c *fiber.Ctx) (any, error) {
	return h.svc.Creators(c.UserContext())
}

func (h *analyticsHandler) youth(c *fiber.Ctx) (any, error) {
	return h.svc.Youth(c.UserContext())
}

func (h *analyticsHandler) events(c *fiber.Ctx) (any, error) {
	return h.svc.Events(c.UserContext())
}
