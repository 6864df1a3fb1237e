package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/pkg/serverutils"
	"bioez-be/internal/repository/memory"
	"bioez-be/internal/service"
	"bioez-be/pkg/bioapi/prediction"
	"bioez-be/pkg/biosearch"
	"bioez-be/pkg/llm/fixture"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assistantReply = "Hemoglobin carries oxygen."

type envelope struct {
	Success bool                   `json:"success"`
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Error   *serverutils.ErrorInfo `json:"error"`
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(ctx context.Context, accession string) (json.RawMessage, error) {
	if accession == "P00000" {
		return nil, apperror.HTTPStatus("UniProt", 404, "")
	}
	return json.RawMessage(`{"primaryAccession":"` + accession + `"}`), nil
}

func (fakeFetcher) Entry(ctx context.Context, pdbID string) (json.RawMessage, error) {
	return json.RawMessage(`{"rcsb_id":"` + pdbID + `"}`), nil
}

func (fakeFetcher) StructureFile(ctx context.Context, pdbID string) (string, error) {
	return "HEADER    OXYGEN TRANSPORT\nATOM      1  N   VAL A   1\n", nil
}

type harness struct {
	app        *fiber.App
	workspaces service.IWorkspaceService
	chat       service.IChatService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewNopLogger()
	pub := service.NewNopEventPublisher()

	workspaces := service.NewWorkspaceService(
		memory.NewStateRepository(),
		prediction.NewFixtureClient(),
		fixture.NewProvider(assistantReply),
		pub,
		time.Hour,
		log,
	)
	orchestrator := biosearch.NewOrchestrator([]biosearch.Source{
		biosearch.NewFixtureSource(constant.DatabaseRCSB),
		biosearch.NewFixtureSource(constant.DatabaseUniProt),
	}, biosearch.NoDelay{}, constant.SearchResultLimit)
	chat := service.NewChatService(5*time.Second, log)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(log)})
	api := app.Group("/api", serverutils.WorkspaceMiddleware(""))
	NewProteinController(workspaces, service.NewProteinService(pub, log)).RegisterRoutes(api)
	NewChatController(workspaces, chat).RegisterRoutes(api)
	NewSearchController(workspaces, service.NewSearchService(orchestrator, pub, log)).RegisterRoutes(api)
	NewDatabaseController(service.NewDatabaseService(fakeFetcher{}, fakeFetcher{}, time.Minute)).RegisterRoutes(api)

	return &harness{app: app, workspaces: workspaces, chat: chat}
}

func (h *harness) do(t *testing.T, method, target string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	req.Header.Set(serverutils.WorkspaceHeader, "test-ws")
	return h.send(t, req)
}

func (h *harness) send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	res, err := h.app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(res.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	} else {
		env.Data = raw
	}
	return res, env
}

func (h *harness) upload(t *testing.T, name, content string) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/protein/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(serverutils.WorkspaceHeader, "test-ws")
	return h.send(t, req)
}

func TestProteinUploadAndPredict(t *testing.T) {
	h := newHarness(t)

	res, env := h.upload(t, "hbb.fasta", ">sp|P68871|HBB_HUMAN\nMVHLTPEEKSAVTALWGKVNVDEVGGEALGRLLVVYPWTQRFFESFGDLSTPDAVMGNPKVKAHGKKVLGAF\n")
	require.Equal(t, http.StatusOK, res.StatusCode, string(env.Data))
	var state struct {
		CurrentProtein struct {
			File   entity.ProteinFile    `json:"file"`
			Format entity.SequenceFormat `json:"format"`
		} `json:"currentProtein"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, "hbb.fasta", state.CurrentProtein.File.Name)
	assert.Equal(t, entity.FormatFasta, state.CurrentProtein.Format)

	threshold := 80.0
	res, env = h.do(t, http.MethodPost, "/api/protein/predict", map[string]interface{}{"confidenceThreshold": threshold})
	require.Equal(t, http.StatusOK, res.StatusCode, string(env.Data))
	var result entity.PredictionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.Id)

	res, env = h.do(t, http.MethodGet, "/api/protein/results", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list struct {
		Results []entity.PredictionResult `json:"results"`
		History []entity.HistoryEntry     `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Results, 1)
	require.Len(t, list.History, 1)
	assert.Equal(t, result.Id, list.History[0].ResultId)

	res, _ = h.do(t, http.MethodGet, "/api/protein/results/"+result.Id, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = h.do(t, http.MethodDelete, "/api/protein/results/"+result.Id, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, env = h.do(t, http.MethodGet, "/api/protein/results/"+result.Id, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RESULT_NOT_FOUND", env.Error.Code)

	res, _ = h.do(t, http.MethodDelete, "/api/protein/results/"+result.Id, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestProteinUploadRejectsBadFiles(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"extension", "protein.exe", "MVHLT", "UNSUPPORTED_FILE"},
		{"empty", "protein.fasta", "   \n", "EMPTY_FILE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, env := h.upload(t, tt.file, tt.content)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}

	t.Run("missing file field", func(t *testing.T) {
		res, env := h.do(t, http.MethodPost, "/api/protein/upload", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "MISSING_FILE", env.Error.Code)
	})
}

func TestProteinPredictValidation(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodPost, "/api/protein/predict", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MISSING_SEQUENCE", env.Error.Code)

	res, env = h.do(t, http.MethodPost, "/api/protein/predict", map[string]interface{}{"confidenceThreshold": 120})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	assert.Contains(t, env.Error.Details, "confidenceThreshold")
}

func TestProteinPredictConflict(t *testing.T) {
	h := newHarness(t)
	h.upload(t, "hbb.fasta", ">hbb\nMVHLTPEEK\n")

	ws, err := h.workspaces.Get(context.Background(), "test-ws")
	require.NoError(t, err)
	require.True(t, ws.BeginPrediction())
	defer ws.EndPrediction()

	res, env := h.do(t, http.MethodPost, "/api/protein/predict", nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PREDICTION_IN_PROGRESS", env.Error.Code)
}

func TestProteinImportResult(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodPost, "/api/protein/results", map[string]interface{}{
		"id":          "imported-1",
		"proteinName": "Hemoglobin subunit beta",
		"function":    "Oxygen transport",
		"confidence":  91.5,
		"domains":     []map[string]interface{}{{"name": "Globin", "start": 2, "end": 146, "confidence": 97}},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(env.Data))
	var imported entity.PredictionResult
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	assert.Equal(t, "imported-1", imported.Id)
	assert.False(t, imported.CreatedAt.IsZero())

	res, env = h.do(t, http.MethodGet, "/api/protein/state", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var state struct {
		PredictionResult  *entity.PredictionResult  `json:"predictionResult"`
		PredictionResults []entity.PredictionResult `json:"predictionResults"`
		PredictionHistory []entity.HistoryEntry     `json:"predictionHistory"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.PredictionResult)
	assert.Equal(t, "imported-1", state.PredictionResult.Id)
	require.Len(t, state.PredictionResults, 1)
	assert.Empty(t, state.PredictionHistory)

	res, env = h.do(t, http.MethodPost, "/api/protein/results", map[string]interface{}{"proteinName": "no id"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	assert.Contains(t, env.Error.Details, "id")

	res, env = h.do(t, http.MethodPost, "/api/protein/results", map[string]interface{}{
		"id":          "bad-domain",
		"proteinName": "x",
		"domains":     []map[string]interface{}{{"name": "d", "start": 10, "end": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_RESULT", env.Error.Code)
}

func TestProteinClearResultsKeepsHistory(t *testing.T) {
	h := newHarness(t)
	h.upload(t, "hbb.fasta", ">hbb\nMVHLTPEEK\n")
	res, env := h.do(t, http.MethodPost, "/api/protein/predict", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(env.Data))

	res, _ = h.do(t, http.MethodDelete, "/api/protein/results", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, env = h.do(t, http.MethodGet, "/api/protein/results", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list struct {
		Results []entity.PredictionResult `json:"results"`
		History []entity.HistoryEntry     `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Results)
	assert.Len(t, list.History, 1)
}

func TestProteinClearCurrent(t *testing.T) {
	h := newHarness(t)
	h.upload(t, "hbb.fasta", ">hbb\nMVHLTPEEK\n")

	res, env := h.do(t, http.MethodDelete, "/api/protein/current", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var state struct {
		CurrentProtein entity.ProteinSession `json:"currentProtein"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Nil(t, state.CurrentProtein.File)
	assert.Empty(t, state.CurrentProtein.Sequence)
}

func TestChatSendMessage(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodPost, "/api/chat/messages", map[string]interface{}{"message": "What does HBB do?"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(env.Data))

	var state struct {
		Messages     []entity.ChatMessage `json:"messages"`
		IsGenerating bool                 `json:"isGenerating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Messages, 3)
	assert.Equal(t, constant.WelcomeMessageId, state.Messages[0].Id)
	assert.Equal(t, entity.SenderUser, state.Messages[1].Sender)
	assert.Equal(t, assistantReply, state.Messages[2].Content)
	assert.False(t, state.IsGenerating)
}

func TestChatSendMessageAsync(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodPost, "/api/chat/messages", map[string]interface{}{"message": "hi", "async": true})
	require.Equal(t, http.StatusAccepted, res.StatusCode, string(env.Data))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.chat.Wait(ctx))

	ws, err := h.workspaces.Get(context.Background(), "test-ws")
	require.NoError(t, err)
	snap := ws.Chat.Snapshot()
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, assistantReply, snap.Messages[2].Content)
	assert.False(t, snap.Messages[2].IsLoading)
}

func TestChatSendMessageBlankIsNoop(t *testing.T) {
	h := newHarness(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		res, env := h.do(t, http.MethodPost, "/api/chat/messages", map[string]interface{}{"message": text})
		require.Equal(t, http.StatusOK, res.StatusCode, "message %q", text)
		var state struct {
			Messages []entity.ChatMessage `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &state))
		require.Len(t, state.Messages, 1)
		assert.Equal(t, constant.WelcomeMessageId, state.Messages[0].Id)
	}

	res, _ := h.do(t, http.MethodPost, "/api/chat/messages", map[string]interface{}{})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestChatContextAndUI(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodPatch, "/api/chat/context", map[string]interface{}{"currentView": "dashboard", "currentProteinId": "p-1"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var chatCtx entity.ChatContext
	require.NoError(t, json.Unmarshal(env.Data, &chatCtx))
	assert.Equal(t, entity.ViewDashboard, chatCtx.CurrentView)
	assert.Equal(t, "p-1", chatCtx.CurrentProteinId)

	res, _ = h.do(t, http.MethodPatch, "/api/chat/context", map[string]interface{}{"currentView": "settings"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, env = h.do(t, http.MethodPut, "/api/chat/ui", map[string]interface{}{"isOpen": true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var state struct {
		IsOpen      bool `json:"isOpen"`
		IsMinimized bool `json:"isMinimized"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.IsOpen)
	assert.False(t, state.IsMinimized)

	res, env = h.do(t, http.MethodPut, "/api/chat/input", map[string]interface{}{"message": "draft"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var input struct {
		InputMessage string `json:"inputMessage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &input))
	assert.Equal(t, "draft", input.InputMessage)
}

func TestChatClearMessages(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/api/chat/messages", map[string]interface{}{"message": "hi"})

	res, env := h.do(t, http.MethodDelete, "/api/chat/messages", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var state struct {
		Messages []entity.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Messages, 1)
	assert.Equal(t, constant.WelcomeMessageId, state.Messages[0].Id)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodPost, "/api/search", map[string]string{"query": " hemoglobin "})
	require.Equal(t, http.StatusOK, res.StatusCode, string(env.Data))
	var out struct {
		Query     string                 `json:"query"`
		Databases []entity.DatabaseState `json:"databases"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "hemoglobin", out.Query)
	require.Len(t, out.Databases, 2)
	for _, db := range out.Databases {
		assert.False(t, db.IsLoading)
		assert.Nil(t, db.Error)
		assert.NotEmpty(t, db.Results)
	}

	ws, err := h.workspaces.Get(context.Background(), "test-ws")
	require.NoError(t, err)
	assert.Equal(t, "hemoglobin", ws.Chat.Snapshot().Context.CurrentDatabaseSearch)

	res, env = h.do(t, http.MethodPost, "/api/search", map[string]string{"query": "   "})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EMPTY_QUERY", env.Error.Code)

	res, env = h.do(t, http.MethodGet, "/api/search/databases", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"databases":["rcsb","uniprot"]}`, string(env.Data))
}

func TestDatabaseLookups(t *testing.T) {
	h := newHarness(t)

	res, env := h.do(t, http.MethodGet, "/api/databases/uniprot/p68871", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"primaryAccession":"P68871"}`, string(env.Data))

	res, env = h.do(t, http.MethodGet, "/api/databases/uniprot/P00000", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ENTRY_NOT_FOUND", env.Error.Code)

	res, _ = h.do(t, http.MethodGet, "/api/databases/uniprot/not-an-accession", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, env = h.do(t, http.MethodGet, "/api/databases/pdb/4hhb", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"rcsb_id":"4HHB"}`, string(env.Data))

	res, env = h.do(t, http.MethodGet, "/api/databases/pdb/4HHB/structure", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.HasPrefix(string(env.Data), "HEADER"))
}

func TestWorkspacesAreIsolated(t *testing.T) {
	h := newHarness(t)
	h.upload(t, "hbb.fasta", ">hbb\nMVHLTPEEK\n")

	req := httptest.NewRequest(http.MethodGet, "/api/protein/state", nil)
	req.Header.Set(serverutils.WorkspaceHeader, "other-ws")
	res, env := h.send(t, req)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var state struct {
		CurrentProtein entity.ProteinSession `json:"currentProtein"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Nil(t, state.CurrentProtein.File)
	assert.Empty(t, state.CurrentProtein.Sequence)
}
