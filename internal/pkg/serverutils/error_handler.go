package serverutils

import (
	"errors"

	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders any error returned by a handler as the standard
// envelope. Application errors keep their status, code and details.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			status := appErr.StatusCode()
			if status >= fiber.StatusInternalServerError {
				log.Warn("HTTP", "Upstream failure", map[string]interface{}{
					"path":  ctx.Path(),
					"code":  appErr.Code,
					"error": appErr.Error(),
				})
			}
			res := ErrorResponse(status, appErr.Message)
			res.Error = &ErrorInfo{Type: string(appErr.Type), Code: appErr.Code, Details: appErr.Details}
			return ctx.Status(status).JSON(res)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}

// ErrorHandlerMiddleware renders errors in place so middleware registered
// after it (and route groups) share the same envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := ErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}
