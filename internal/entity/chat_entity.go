package entity

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

type ChatMessage struct {
	Id        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	IsLoading bool      `json:"isLoading,omitempty"`
}

type View string

const (
	ViewNone       View = ""
	ViewPrediction View = "prediction"
	ViewSearch     View = "search"
	ViewDashboard  View = "dashboard"
	ViewHome       View = "home"
)

func (v View) Valid() bool {
	switch v {
	case ViewNone, ViewPrediction, ViewSearch, ViewDashboard, ViewHome:
		return true
	}
	return false
}

// ChatContext describes what the user is looking at. Empty strings mean "not set".
type ChatContext struct {
	CurrentProteinId      string `json:"currentProteinId"`
	CurrentDatabaseSearch string `json:"currentDatabaseSearch"`
	CurrentView           View   `json:"currentView"`
}

// ContextPatch is a shallow update of ChatContext. Nil fields are left untouched,
// a pointer to "" clears the field.
type ContextPatch struct {
	CurrentProteinId      *string
	CurrentDatabaseSearch *string
	CurrentView           *View
}

func (c ChatContext) Merge(p ContextPatch) ChatContext {
	if p.CurrentProteinId != nil {
		c.CurrentProteinId = *p.CurrentProteinId
	}
	if p.CurrentDatabaseSearch != nil {
		c.CurrentDatabaseSearch = *p.CurrentDatabaseSearch
	}
	if p.CurrentView != nil {
		c.CurrentView = *p.CurrentView
	}
	return c
}
