package controller

import (
	"bioez-be/internal/dto"
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	State(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	ClearMessages(ctx *fiber.Ctx) error
	UpdateContext(ctx *fiber.Ctx) error
	UpdateUI(ctx *fiber.Ctx) error
	UpdateInput(ctx *fiber.Ctx) error
}

type chatController struct {
	workspaces service.IWorkspaceService
	service    service.IChatService
}

func NewChatController(workspaces service.IWorkspaceService, service service.IChatService) IChatController {
	return &chatController{workspaces: workspaces, service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Get("/state", c.State)
	h.Post("/messages", c.SendMessage)
	h.Delete("/messages", c.ClearMessages)
	h.Patch("/context", c.UpdateContext)
	h.Put("/ui", c.UpdateUI)
	h.Put("/input", c.UpdateInput)
}

func (c *chatController) State(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat state", ws.Chat.Snapshot()))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	res, err := c.service.Send(ctx.UserContext(), ws, req.Message, req.Async)
	if err != nil {
		return err
	}

	if req.Async {
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Message accepted", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) ClearMessages(ctx *fiber.Ctx) error {
	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	ws.Chat.ClearMessages()
	return ctx.JSON(serverutils.SuccessResponse("Success clear messages", ws.Chat.Snapshot()))
}

func (c *chatController) UpdateContext(ctx *fiber.Ctx) error {
	var req dto.ContextPatchRequest
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
	res := ws.Chat.UpdateContext(req.ToPatch())
	return ctx.JSON(serverutils.SuccessResponse("Success update context", res))
}

func (c *chatController) UpdateUI(ctx *fiber.Ctx) error {
	var req dto.ChatUIRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	if req.IsOpen != nil {
		ws.Chat.SetOpen(*req.IsOpen)
	}
	if req.IsMinimized != nil {
		ws.Chat.SetMinimized(*req.IsMinimized)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update chat", ws.Chat.Snapshot()))
}

func (c *chatController) UpdateInput(ctx *fiber.Ctx) error {
	var req dto.ChatInputRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	ws, err := workspaceFor(ctx, c.workspaces)
	if err != nil {
		return err
	}
	ws.Chat.SetInputMessage(req.Message)
	return ctx.JSON(serverutils.SuccessResponse("Success update input", ws.Chat.Snapshot()))
}
