package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/repository/memory"
	"bioez-be/internal/store/persist"
	"bioez-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var fixedNow = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestStore(p llm.LLMProvider, repo *memory.StateRepository) *Store {
	if repo == nil {
		repo = memory.NewStateRepository()
	}
	w := persist.NewWriter(repo, persist.Key(constant.ChatStorageName, "test"), logger.NewNopLogger())
	return NewStore(p, w, logger.NewNopLogger(), WithClock(func() time.Time { return fixedNow }))
}

func TestNewStoreStartsWithWelcome(t *testing.T) {
	s := newTestStore(new(mockProvider), nil)

	msgs := s.Snapshot().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, constant.WelcomeMessageId, msgs[0].Id)
	assert.Equal(t, entity.SenderAssistant, msgs[0].Sender)
}

func TestSendMessageBlankIsNoop(t *testing.T) {
	p := new(mockProvider)
	s := newTestStore(p, nil)

	assert.Nil(t, s.SendMessage(context.Background(), "   "))
	assert.Len(t, s.Snapshot().Messages, 1)
	p.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestSendMessageAppendsBothAndClearsInputImmediately(t *testing.T) {
	p := new(mockProvider)
	s := newTestStore(p, nil)
	s.SetInputMessage("What is hemoglobin?")

	release := make(chan struct{})
	during := make(chan State, 1)
	p.On("Chat", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		during <- s.Snapshot()
		<-release
	}).Return("It carries oxygen.", nil)

	done := make(chan *entity.ChatMessage, 1)
	go func() { done <- s.SendMessage(context.Background(), "What is hemoglobin?") }()

	snap := <-during
	require.Len(t, snap.Messages, 3)
	user, placeholder := snap.Messages[1], snap.Messages[2]
	assert.Equal(t, entity.SenderUser, user.Sender)
	assert.Equal(t, "What is hemoglobin?", user.Content)
	assert.Equal(t, entity.SenderAssistant, placeholder.Sender)
	assert.True(t, placeholder.IsLoading)
	assert.NotEqual(t, user.Id, placeholder.Id)
	assert.Empty(t, snap.InputMessage)
	assert.True(t, snap.IsGenerating)

	close(release)
	reply := <-done
	require.NotNil(t, reply)
	assert.Equal(t, placeholder.Id, reply.Id)

	final := s.Snapshot()
	assert.Equal(t, "It carries oxygen.", final.Messages[2].Content)
	assert.False(t, final.Messages[2].IsLoading)
	assert.False(t, final.IsGenerating)
}

func TestSendMessageFailureUsesFixedReply(t *testing.T) {
	p := new(mockProvider)
	p.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("LLM API error: 500"))
	s := newTestStore(p, nil)

	reply := s.SendMessage(context.Background(), "hello")

	require.NotNil(t, reply)
	assert.Equal(t, constant.AssistantErrorMessage, reply.Content)
	snap := s.Snapshot()
	assert.False(t, snap.IsGenerating)
	assert.False(t, snap.Messages[2].IsLoading)
}

func TestConversationIncludesContextAndSkipsSystemMessages(t *testing.T) {
	p := new(mockProvider)
	var sent []llm.Message
	p.On("Chat", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).([]llm.Message)
	}).Return("ok", nil)
	s := newTestStore(p, nil)
	protein, query, view := "P68871", "hemoglobin", entity.ViewSearch
	s.UpdateContext(entity.ContextPatch{CurrentProteinId: &protein, CurrentDatabaseSearch: &query, CurrentView: &view})
	s.update(func(st *State) {
		st.Messages = append(st.Messages, entity.ChatMessage{Id: "sys", Content: "internal", Sender: entity.SenderSystem})
	}, false)

	s.SendMessage(context.Background(), "Tell me more")

	require.Len(t, sent, 3)
	assert.Equal(t, llm.RoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "P68871")
	assert.Contains(t, sent[0].Content, `"hemoglobin"`)
	assert.Contains(t, sent[0].Content, "search section")
	assert.Contains(t, sent[0].Content, "Monday, March 4, 2024")
	assert.Equal(t, llm.RoleAssistant, sent[1].Role)
	assert.Equal(t, constant.WelcomeMessageContent, sent[1].Content)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "Tell me more"}, sent[2])
}

func TestConcurrentSendsSettleOwnPlaceholders(t *testing.T) {
	p := new(mockProvider)
	p.On("Chat", mock.Anything, mock.Anything).Return("reply", nil)
	s := newTestStore(p, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SendMessage(context.Background(), fmt.Sprintf("question %d", i))
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	users, assistants := 0, 0
	for i, m := range snap.Messages {
		assert.False(t, m.IsLoading)
		switch m.Sender {
		case entity.SenderUser:
			users++
			require.Less(t, i+1, len(snap.Messages))
			assert.Equal(t, entity.SenderAssistant, snap.Messages[i+1].Sender)
		case entity.SenderAssistant:
			assistants++
		}
	}
	assert.Equal(t, 10, users)
	assert.Equal(t, users, assistants-1)
	assert.False(t, snap.IsGenerating)
}

func TestClearMessages(t *testing.T) {
	p := new(mockProvider)
	p.On("Chat", mock.Anything, mock.Anything).Return("ok", nil)
	s := newTestStore(p, nil)
	s.SendMessage(context.Background(), "hi")
	s.SetInputMessage("draft")

	s.ClearMessages()

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, constant.WelcomeMessageId, snap.Messages[0].Id)
	assert.Empty(t, snap.InputMessage)
}

func TestUpdateContextMergesShallowly(t *testing.T) {
	s := newTestStore(new(mockProvider), nil)
	protein := "P1"
	s.UpdateContext(entity.ContextPatch{CurrentProteinId: &protein})
	view := entity.ViewPrediction

	ctx := s.UpdateContext(entity.ContextPatch{CurrentView: &view})

	assert.Equal(t, entity.ChatContext{CurrentProteinId: "P1", CurrentView: entity.ViewPrediction}, ctx)
}

func TestUIFlags(t *testing.T) {
	s := newTestStore(new(mockProvider), nil)
	s.SetOpen(true)
	s.SetMinimized(true)

	snap := s.Snapshot()
	assert.True(t, snap.IsOpen)
	assert.True(t, snap.IsMinimized)

	s.SetOpen(true)
	snap = s.Snapshot()
	assert.True(t, snap.IsOpen)
	assert.False(t, snap.IsMinimized)

	s.SetMinimized(true)
	s.SetOpen(false)
	snap = s.Snapshot()
	assert.False(t, snap.IsOpen)
	assert.True(t, snap.IsMinimized)
}

func TestRestoreKeepsLastMessagesAndFailsStalePlaceholders(t *testing.T) {
	repo := memory.NewStateRepository()
	p := new(mockProvider)
	p.On("Chat", mock.Anything, mock.Anything).Return("ok", nil)
	first := newTestStore(p, repo)
	for i := 0; i < 30; i++ {
		first.SendMessage(context.Background(), fmt.Sprintf("q%d", i))
	}
	stale := first.Begin("never answered")
	require.NotNil(t, stale)

	second := newTestStore(new(mockProvider), repo)
	require.NoError(t, second.Restore(context.Background()))

	msgs := second.Snapshot().Messages
	require.Len(t, msgs, constant.MaxPersistedMessages)
	last := msgs[len(msgs)-1]
	assert.Equal(t, stale.PlaceholderId, last.Id)
	assert.False(t, last.IsLoading)
	assert.Equal(t, constant.AssistantErrorMessage, last.Content)
	assert.False(t, second.Snapshot().IsGenerating)
}
