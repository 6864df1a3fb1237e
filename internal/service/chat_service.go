package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/store/chat"
)

type IChatService interface {
	// Send runs a chat turn. With async the reply is produced in the
	// background and the returned state still holds the loading placeholder.
	Send(ctx context.Context, ws *Workspace, text string, async bool) (chat.State, error)
	// Wait blocks until background replies have settled or ctx ends.
	Wait(ctx context.Context) error
}

type chatService struct {
	timeout time.Duration
	logger  logger.ILogger
	wg      sync.WaitGroup
}

func NewChatService(timeout time.Duration, log logger.ILogger) IChatService {
	return &chatService{timeout: timeout, logger: log}
}

func (s *chatService) Send(ctx context.Context, ws *Workspace, text string, async bool) (chat.State, error) {
	if strings.TrimSpace(text) == "" {
		return ws.Chat.Snapshot(), nil
	}

	turn := ws.Chat.Begin(text)
	if !async {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		turn.Complete(cctx)
		return ws.Chat.Snapshot(), nil
	}

	snap := ws.Chat.Snapshot()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// detached from the request so the reply survives the response
		cctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		turn.Complete(cctx)
	}()
	return snap, nil
}

func (s *chatService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
