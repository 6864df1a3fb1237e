package handler

import (
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/service"
	internalWS "bioez-be/internal/websocket"
	"bioez-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type RealtimeHandler struct {
	workspaces service.IWorkspaceService
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewRealtimeHandler(workspaces service.IWorkspaceService, hub *internalWS.Hub, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{workspaces: workspaces, hub: hub, logger: log}
}

// ServeWs upgrades the request and streams the caller's workspace events. The
// first two frames are the current protein and chat snapshots.
func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	workspaceID := serverutils.WorkspaceID(c)
	ws, err := h.workspaces.Get(c.UserContext(), workspaceID)
	if err != nil {
		return err
	}

	initial, err := snapshotFrames(ws)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("RealtimeHandler", "Starting WebSocket session", map[string]interface{}{"workspace_id": workspaceID})
		internalWS.ServeWs(h.hub, conn, workspaceID, initial...)
		h.logger.Info("RealtimeHandler", "WebSocket session ended", map[string]interface{}{"workspace_id": workspaceID})
	})(c)
}

func snapshotFrames(ws *service.Workspace) ([][]byte, error) {
	proteinFrame, err := internalWS.EncodeFrame(events.TypeProteinUpdated, ws.Protein.Snapshot())
	if err != nil {
		return nil, err
	}
	chatFrame, err := internalWS.EncodeFrame(events.TypeChatUpdated, ws.Chat.Snapshot())
	if err != nil {
		return nil, err
	}
	return [][]byte{proteinFrame, chatFrame}, nil
}

func (h *RealtimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
