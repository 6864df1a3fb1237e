package controller

import (
	"io"

	"bioez-be/internal/dto"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/service"
	"bioez-be/pkg/sequence"

	"github.com/gofiber/fiber/v2"
)

type IProteinController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	ClearCurrent(ctx *fiber.Ctx) error
	Predict(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	Results(ctx *fiber.Ctx) error
	ImportResult(ctx *fiber.Ctx) error
	ShowResult(ctx *fiber.Ctx) error
	DeleteResult(ctx *fiber.Ctx) error
	ClearResults(ctx *fiber.Ctx) error
}

type proteinController struct {
	workspaces service.IWorkspaceService
	service    service.IProteinService
}

func NewProteinController(workspaces service.IWorkspaceService, service service.IProteinService) IProteinController {
	return &proteinController{workspaces: workspaces, service: service}
}

func (c *proteinController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/protein")
	h.Post("/upload", c.Upload)
	h.Delete("/current", c.ClearCurrent)
	h.Post("/predict", c.Predict)
	h.Get("/state", c.State)
	h.Get("/results", c.Results)
	h.Post("/results", c.ImportResult)
	h.Get("/results/:id", c.ShowResult)
	h.Delete("/results/:id", c.DeleteResult)
	h.Delete("/results", c.ClearResults)
}

func (c *proteinController) Upload(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Validation("MISSING_FILE", "A protein file is required in the 'file' field")
	}
	if err := sequence.CheckFile(fh.Filename, fh.Size); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	res, err := c.service.Upload(ctx.UserContext(), ws, sequence.Upload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload protein", res))
}

func (c *proteinController) ClearCurrent(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	ws.Protein.ClearCurrentProtein()
	return ctx.JSON(serverutils.SuccessResponse("Success clear protein", ws.Protein.Snapshot()))
}

func (c *proteinController) Predict(ctx *fiber.Ctx) error {
	var req dto.PredictRequest
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
	res, err := c.service.Predict(ctx.UserContext(), ws, req.ToOptions())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success predict protein function", res))
}

func (c *proteinController) State(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get protein state", ws.Protein.Snapshot()))
}

func (c *proteinController) Results(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	snap := ws.Protein.Snapshot()
	return ctx.JSON(serverutils.SuccessResponse("Success get results", dto.ResultListResponse{
		Results: snap.PredictionResults,
		History: snap.PredictionHistory,
	}))
}

func (c *proteinController) ImportResult(ctx *fiber.Ctx) error {
	var req dto.ImportResultRequest
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
	res, err := c.service.Import(ctx.UserContext(), ws, req.ToEntity())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success import result", res))
}

func (c *proteinController) ShowResult(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	res, err := ws.Protein.LoadResultByID(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show result", res))
}

func (c *proteinController) DeleteResult(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	id := ctx.Params("id")
	if !ws.Protein.DeleteResultByID(id) {
		return apperror.NotFound("RESULT_NOT_FOUND", "Prediction result not found").WithDetail("id", id)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete result", dto.DeleteResultResponse{Id: id, Deleted: true}))
}

func (c *proteinController) ClearResults(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	ws.Protein.ClearResults()
	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear results", nil))
}
