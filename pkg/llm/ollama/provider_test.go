package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bioez-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMapsRolesAndOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, llm.RoleAssistant, req.Messages[0].Role)
		assert.Equal(t, 1000, req.Options.NumPredict)

		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"pong"},"done":true}`))
	}))
	defer srv.Close()

	reply, err := NewOllamaProvider(srv.URL, "llama3", time.Second).Chat(context.Background(),
		[]llm.Message{{Role: "model", Content: "earlier"}, {Role: llm.RoleUser, Content: "ping"}},
		llm.WithMaxTokens(1000))

	require.NoError(t, err)
	assert.Equal(t, "pong", reply)
}
