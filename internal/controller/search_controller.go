package controller

import (
	"strings"

	"bioez-be/internal/dto"
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Databases(ctx *fiber.Ctx) error
}

type searchController struct {
	workspaces service.IWorkspaceService
	service    service.ISearchService
}

func NewSearchController(workspaces service.IWorkspaceService, service service.ISearchService) ISearchController {
	return &searchController{workspaces: workspaces, service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search")
	h.Post("", c.Search)
	h.Get("/databases", c.Databases)
}

// Search holds the request open until every database has answered. Progress
// is pushed over the realtime socket meanwhile.
func (c *searchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	states, err := c.service.Search(ctx.UserContext(), ws, req.Query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search databases", dto.SearchResponse{
		Query:     strings.TrimSpace(req.Query),
		Databases: states,
	}))
}

func (c *searchController) Databases(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get databases", dto.DatabaseListResponse{
		Databases: c.service.Databases(),
	}))
}
