// Package chat holds the per-workspace assistant conversation.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/store/persist"
	"bioez-be/pkg/llm"

	"github.com/google/uuid"
)

const persistTimeout = 5 * time.Second

type State struct {
	Messages     []entity.ChatMessage `json:"messages"`
	IsOpen       bool                 `json:"isOpen"`
	IsMinimized  bool                 `json:"isMinimized"`
	InputMessage string               `json:"inputMessage"`
	IsGenerating bool                 `json:"isGenerating"`
	Context      entity.ChatContext   `json:"context"`
}

func (s State) clone() State {
	out := s
	out.Messages = append([]entity.ChatMessage{}, s.Messages...)
	return out
}

type Observer func(State)

type Store struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex
	state    State

	provider  llm.LLMProvider
	writer    *persist.Writer
	logger    logger.ILogger
	observers []Observer
	now       func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

func NewStore(provider llm.LLMProvider, writer *persist.Writer, log logger.ILogger, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		writer:   writer,
		logger:   log,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.state.Messages = []entity.ChatMessage{s.welcome()}
	return s
}

func (s *Store) welcome() entity.ChatMessage {
	return entity.ChatMessage{
		Id:        constant.WelcomeMessageId,
		Content:   constant.WelcomeMessageContent,
		Sender:    entity.SenderAssistant,
		Timestamp: s.now().UTC(),
	}
}

// Restore loads persisted messages. Placeholders that were still loading when
// saved can never settle, so they come back as failed replies.
func (s *Store) Restore(ctx context.Context) error {
	data, err := s.writer.Read(ctx)
	if err != nil {
		return err
	}
	saved, err := persist.DecodeChat(data)
	if err != nil {
		return err
	}
	if len(saved.Messages) == 0 {
		return nil
	}
	for i := range saved.Messages {
		if saved.Messages[i].IsLoading {
			saved.Messages[i].IsLoading = false
			saved.Messages[i].Content = constant.AssistantErrorMessage
		}
	}
	s.update(func(st *State) { st.Messages = saved.Messages }, false)
	return nil
}

func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) update(fn func(*State), save bool) State {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	observers := append([]Observer(nil), s.observers...)
	s.notifyMu.Lock()
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	s.notifyMu.Unlock()

	if save {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		_ = s.writer.Write(ctx, func() interface{} {
			return persist.ProjectChat(s.Snapshot().Messages)
		})
	}
	return snap
}

// Turn is a user message whose assistant reply is still pending.
type Turn struct {
	store         *Store
	UserMessage   entity.ChatMessage
	PlaceholderId string
	conversation  []llm.Message
}

// Begin appends the user message and a loading placeholder in one update and
// clears the input. Blank text is ignored and returns nil.
func (s *Store) Begin(text string) *Turn {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	now := s.now().UTC()
	user := entity.ChatMessage{Id: uuid.NewString(), Content: text, Sender: entity.SenderUser, Timestamp: now}
	placeholder := entity.ChatMessage{Id: uuid.NewString(), Sender: entity.SenderAssistant, Timestamp: now, IsLoading: true}

	var conversation []llm.Message
	s.update(func(st *State) {
		conversation = buildConversation(st.Context, st.Messages, user, now)
		st.Messages = append(st.Messages, user, placeholder)
		st.InputMessage = ""
		st.IsGenerating = true
	}, true)

	return &Turn{store: s, UserMessage: user, PlaceholderId: placeholder.Id, conversation: conversation}
}

// Complete asks the model for a reply and settles the placeholder. Failures
// become the fixed error reply and are not returned.
func (t *Turn) Complete(ctx context.Context) entity.ChatMessage {
	s := t.store
	content, err := s.provider.Chat(ctx, t.conversation,
		llm.WithTemperature(constant.ChatDefaultTemperature),
		llm.WithMaxTokens(constant.ChatDefaultMaxTokens),
	)
	if err != nil {
		s.logger.Error("CHAT_STORE", "Chat completion failed", map[string]interface{}{
			"placeholder_id": t.PlaceholderId,
			"error":          err,
		})
		content = constant.AssistantErrorMessage
	}

	var settled entity.ChatMessage
	s.update(func(st *State) {
		loading := false
		for i := range st.Messages {
			if st.Messages[i].Id == t.PlaceholderId {
				st.Messages[i].Content = content
				st.Messages[i].IsLoading = false
				settled = st.Messages[i]
			} else if st.Messages[i].IsLoading {
				loading = true
			}
		}
		st.IsGenerating = loading
	}, true)
	return settled
}

// SendMessage runs a full turn. It returns the settled reply, or nil for blank text.
func (s *Store) SendMessage(ctx context.Context, text string) *entity.ChatMessage {
	turn := s.Begin(text)
	if turn == nil {
		return nil
	}
	reply := turn.Complete(ctx)
	return &reply
}

func (s *Store) ClearMessages() {
	s.update(func(st *State) {
		st.Messages = []entity.ChatMessage{s.welcome()}
		st.InputMessage = ""
	}, true)
}

func (s *Store) UpdateContext(patch entity.ContextPatch) entity.ChatContext {
	return s.update(func(st *State) { st.Context = st.Context.Merge(patch) }, false).Context
}

// SetOpen toggles the panel. Opening always restores it from minimized.
func (s *Store) SetOpen(open bool) {
	s.update(func(st *State) {
		st.IsOpen = open
		if open {
			st.IsMinimized = false
		}
	}, false)
}

func (s *Store) SetMinimized(minimized bool) {
	s.update(func(st *State) { st.IsMinimized = minimized }, false)
}

func (s *Store) SetInputMessage(text string) {
	s.update(func(st *State) { st.InputMessage = text }, false)
}

// SystemPrompt describes the user's current situation to the model.
func SystemPrompt(c entity.ChatContext, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, constant.AssistantSystemPromptBase, now.Format("Monday, January 2, 2006"))
	if c.CurrentProteinId != "" {
		fmt.Fprintf(&b, constant.AssistantSystemPromptProtein, c.CurrentProteinId)
	}
	if c.CurrentDatabaseSearch != "" {
		fmt.Fprintf(&b, constant.AssistantSystemPromptSearch, c.CurrentDatabaseSearch)
	}
	if c.CurrentView != entity.ViewNone {
		fmt.Fprintf(&b, constant.AssistantSystemPromptView, c.CurrentView)
	}
	return b.String()
}

func buildConversation(c entity.ChatContext, prior []entity.ChatMessage, user entity.ChatMessage, now time.Time) []llm.Message {
	msgs := make([]llm.Message, 0, len(prior)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(c, now)})
	for _, m := range prior {
		if m.Sender == entity.SenderSystem || m.IsLoading {
			continue
		}
		msgs = append(msgs, llm.Message{Role: string(m.Sender), Content: m.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: user.Content})
}
