package controller

import (
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

func workspaceFor(ctx *fiber.Ctx, workspaces service.IWorkspaceService) (*service.Workspace, error) {
	return workspaces.Get(ctx.UserContext(), serverutils.WorkspaceID(ctx))
}

// parseBody accepts an empty body for endpoints whose fields are all optional.
func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("INVALID_BODY", "Request body could not be parsed").WithCause(err)
	}
	return nil
}
