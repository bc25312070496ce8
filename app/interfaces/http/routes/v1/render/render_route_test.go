package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mew.ai/puml-api-gateway/app/domain/diagram"
	"mew.ai/puml-api-gateway/app/infrastructure/renderer"
	"mew.ai/puml-api-gateway/app/interfaces/http/responses"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, puml string, format renderer.Format) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(string(format) + ":" + puml), nil
}

func newTestRouter(r renderer.Renderer) (*gin.Engine, *diagram.CacheService) {
	gin.SetMode(gin.TestMode)
	cacheService := diagram.NewCacheService(r)
	engine := gin.New()
	NewRenderRoute(cacheService).RegisterRouter(engine.Group("/api/v1/render"))
	return engine, cacheService
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestPostRenderAllReturnsID(t *testing.T) {
	r := &fakeRenderer{}
	engine, _ := newTestRouter(r)

	recorder := postJSON(t, engine, "/api/v1/render/svg", RenderRequest{Puml: "@startuml\nA->B\n@enduml"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var response responses.RenderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.ID)
	assert.Equal(t, 3, r.calls)

	// Same source again: same ID, no re-render.
	second := postJSON(t, engine, "/api/v1/render/png", RenderRequest{Puml: "@startuml\nA->B\n@enduml"})
	var secondResponse responses.RenderResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResponse))
	assert.Equal(t, response.ID, secondResponse.ID)
	assert.Equal(t, 3, r.calls)
}

func TestPostRenderAllValidation(t *testing.T) {
	engine, _ := newTestRouter(&fakeRenderer{})
	recorder := postJSON(t, engine, "/api/v1/render/svg", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetRawContentAutoRenders(t *testing.T) {
	r := &fakeRenderer{}
	engine, cacheService := newTestRouter(r)

	// Registered without rendering; the first raw fetch pays the cost.
	id := cacheService.StorePuml("@startuml\nA->B\n@enduml")
	require.Equal(t, 0, r.calls)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/render/svg/"+id+"/raw", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/svg+xml", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "svg:@startuml\nA->B\n@enduml", recorder.Body.String())
	assert.Equal(t, 3, r.calls)

	// Subsequent fetches, any format, reuse the filled slots.
	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/render/text/"+id+"/raw", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 3, r.calls)
}

func TestGetRawContentUnknownID(t *testing.T) {
	engine, _ := newTestRouter(&fakeRenderer{})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/render/svg/puml_missing/raw", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/render/svg/conv_wrong-prefix/raw", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetRawContentUnsupportedFormat(t *testing.T) {
	engine, cacheService := newTestRouter(&fakeRenderer{})
	id := cacheService.StorePuml("@startuml\nA->B\n@enduml")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/render/pdf/"+id+"/raw", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGraphvizMissingGetsRemediation(t *testing.T) {
	r := &fakeRenderer{err: &renderer.RenderError{
		Format:          renderer.FormatSVG,
		GraphvizMissing: true,
		Err:             errors.New("exit status 1"),
	}}
	engine, _ := newTestRouter(r)

	recorder := postJSON(t, engine, "/api/v1/render/svg", RenderRequest{Puml: "@startuml\nA->B\n@enduml"})
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var response responses.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "Graphviz")
}
