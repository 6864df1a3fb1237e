package dto

import "bioez-be/internal/entity"

type SendMessageRequest struct {
	Message string `json:"message"`
	// Async returns as soon as the placeholder is stored; the reply arrives
	// over the realtime socket.
	Async bool `json:"async"`
}

type ContextPatchRequest struct {
	CurrentProteinId      *string `json:"currentProteinId"`
	CurrentDatabaseSearch *string `json:"currentDatabaseSearch"`
	CurrentView           *string `json:"currentView" validate:"omitempty,chatview"`
}

func (r ContextPatchRequest) ToPatch() entity.ContextPatch {
	patch := entity.ContextPatch{
		CurrentProteinId:      r.CurrentProteinId,
		CurrentDatabaseSearch: r.CurrentDatabaseSearch,
	}
	if r.CurrentView != nil {
		v := entity.View(*r.CurrentView)
		patch.CurrentView = &v
	}
	return patch
}

type ChatUIRequest struct {
	IsOpen      *bool `json:"isOpen"`
	IsMinimized *bool `json:"isMinimized"`
}

type ChatInputRequest struct {
	Message string `json:"message"`
}
