package controller

import (
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDatabaseController interface {
	RegisterRoutes(r fiber.Router)
	UniProtEntry(ctx *fiber.Ctx) error
	PDBEntry(ctx *fiber.Ctx) error
	PDBStructure(ctx *fiber.Ctx) error
}

type databaseController struct {
	service service.IDatabaseService
}

func NewDatabaseController(service service.IDatabaseService) IDatabaseController {
	return &databaseController{service: service}
}

func (c *databaseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/databases")
	h.Get("/uniprot/:accession", c.UniProtEntry)
	h.Get("/pdb/:id", c.PDBEntry)
	h.Get("/pdb/:id/structure", c.PDBStructure)
}

func (c *databaseController) UniProtEntry(ctx *fiber.Ctx) error {
	res, err := c.service.UniProtEntry(ctx.UserContext(), ctx.Params("accession"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get UniProt entry", res))
}

func (c *databaseController) PDBEntry(ctx *fiber.Ctx) error {
	res, err := c.service.PDBEntry(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get PDB entry", res))
}

// PDBStructure returns the raw PDB text for viewers.
func (c *databaseController) PDBStructure(ctx *fiber.Ctx) error {
	text, err := c.service.PDBStructure(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.SendString(text)
}
