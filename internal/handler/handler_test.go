package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmeditor/internal/config"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/repositories"
	"dmeditor/internal/middleware"
	"dmeditor/internal/repository/memory"
	"dmeditor/internal/service/draft"
	"dmeditor/internal/service/imaging"
	"dmeditor/internal/service/markup"
	"dmeditor/internal/service/session"
	"dmeditor/internal/service/upload"
	"dmeditor/internal/service/widget"
)

const testOrigin = "https://host.example.org"

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

type testEnv struct {
	handler http.Handler
	manager *session.Manager
	store   *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pipelines := markup.NewPipelines(config.ColumnWidth)
	drafts := draft.NewDraftService(memory.NewDraftRepository(), repositories.NoopTransactionManager{}, logger)
	store := &memStore{}
	uploads := upload.NewService(store, logger)
	optimizer := imaging.NewOptimizer(config.DefaultMaxImageWidth, config.DefaultJPEGQuality, logger)

	manager := session.NewManager(session.Deps{
		Pipelines: pipelines,
		Guard:     session.NewLengthGuard(),
		Origins:   session.NewOriginPolicy([]string{testOrigin}),
		Drafts:    drafts,
		Optimizer: optimizer,
		Uploads:   uploads,
		Logger:    logger,
	})

	registry, err := widget.NewRegistry("")
	require.NoError(t, err)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Health:  NewHealthHandler(manager),
		Session: NewSessionHandler(manager, drafts, nil, logger),
		Upload:  NewUploadHandler(uploads, optimizer, logger),
		Widget:  NewWidgetHandler(widget.NewService(registry, logger), pipelines, logger),
	})

	return &testEnv{
		handler: middleware.Origin(logger)(mux),
		manager: manager,
		store:   store,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", testOrigin)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var info models.SessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	return info.ID.String()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["sessions"])
}

func TestSessionFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	base := "/api/sessions/" + id

	rec := env.do(t, http.MethodPost, base+"/messages", `{"type":"init","value":"<p></p><p><a href=\"example.com\">Visit</a></p>"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"accepted":true}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, base+"/events", `{"type":"ready"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[models.SessionInfo](t, rec)
	assert.Equal(t, "applied", info.State)
	assert.True(t, info.Ready)

	rec = env.do(t, http.MethodPost, base+"/messages", `{"type":"requestContent"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = env.do(t, http.MethodGet, base+"/draft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[models.DraftView](t, rec)
	assert.Equal(t, `<p><a href="HTTPGetWrap|https://example.com/">Visit</a></p>`, view.HTML)
	assert.Equal(t, 1, view.Revision)
	assert.Contains(t, view.Text, "https://example.com/")
	assert.NotContains(t, view.Text, config.LinkMarker)

	rec = env.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the draft outlives the session
	rec = env.do(t, http.MethodGet, base+"/draft", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostMessage_DisallowedOrigin(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/messages",
		strings.NewReader(`{"type":"init","value":"<p>x</p>"}`))
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"accepted":false}`, rec.Body.String())

	s, err := env.manager.Get(uuid.MustParse(id))
	require.NoError(t, err)
	require.NoError(t, s.Ready())
	assert.Empty(t, s.Content())
}

func TestSessionErrors(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "bad id", method: http.MethodGet, path: "/api/sessions/nope", status: http.StatusBadRequest},
		{name: "unknown session", method: http.MethodPost, path: "/api/sessions/" + uuid.NewString() + "/events", body: `{"type":"ready"}`, status: http.StatusNotFound},
		{name: "unknown event", method: http.MethodPost, path: "/api/sessions/" + id + "/events", body: `{"type":"blur"}`, status: http.StatusBadRequest},
		{name: "bad json", method: http.MethodPost, path: "/api/sessions/" + id + "/messages", body: `{`, status: http.StatusBadRequest},
		{name: "no draft yet", method: http.MethodGet, path: "/api/sessions/" + id + "/draft", status: http.StatusNotFound},
		{name: "close unknown", method: http.MethodDelete, path: "/api/sessions/" + uuid.NewString(), status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestPaste(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/api/sessions/"+id+"/paste",
		`{"html":"<p class=\"MsoNormal\"><b>Hi</b><o:p></o:p></p>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"html":"<p><strong>Hi</strong></p>"}`, rec.Body.String())

	s, err := env.manager.Get(uuid.MustParse(id))
	require.NoError(t, err)
	assert.True(t, s.Info().Busy)

	rec = env.do(t, http.MethodPost, "/api/sessions/"+id+"/events", `{"type":"pasteEnd","value":"<p><strong>Hi</strong></p>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, s.Info().Busy)
}

func TestSessionImageUpload(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	body, contentType := multipartImage(t, "image/png", pngBytes(t, 1200, 300))
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]string](t, rec)
	assert.True(t, strings.HasPrefix(res["location"], "https://cdn.test/"))
	assert.True(t, strings.HasSuffix(res["location"], ".jpeg"))
	assert.Len(t, env.store.keys(), 1)

	// missing file part
	req = httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/images", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload(t *testing.T) {
	img := base64.StdEncoding.EncodeToString(pngBytes(t, 4, 4))

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/upload",
			fmt.Sprintf(`{"filename":"a.png","data":"data:image/png;base64,%s"}`, img))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decode[models.UploadResult](t, rec)
		assert.True(t, res.Success)
		assert.Regexp(t, `^\d{4}/\d{2}/$`, res.Folder)
		assert.Regexp(t, `^\d+-[0-9a-f]{10}\.png$`, res.Filename)
		assert.Equal(t, "https://cdn.test/"+res.Folder+res.Filename, res.URL)
	})

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{name: "empty body", body: "", status: http.StatusBadRequest, want: "No input received"},
		{name: "bad json", body: `{"data":`, status: http.StatusBadRequest, want: "Invalid payload"},
		{name: "missing data", body: `{"filename":"a.png"}`, status: http.StatusBadRequest, want: "Invalid payload"},
		{name: "unsupported type", body: `{"data":"data:image/webp;base64,AAAA"}`, status: http.StatusBadRequest, want: "Invalid or unsupported image format"},
		{name: "bad base64", body: `{"data":"data:image/png;base64,%%%"}`, status: http.StatusBadRequest, want: "Failed to decode base64 image data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/upload", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.want), rec.Body.String())
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.err = errors.New("disk full")
		rec := env.do(t, http.MethodPost, "/api/upload",
			fmt.Sprintf(`{"data":"data:image/png;base64,%s"}`, img))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to write file to disk"}`, rec.Body.String())
	})
}

func TestOptimize(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartImage(t, "image/png", pngBytes(t, 1200, 600))
	req := httptest.NewRequest(http.MethodPost, "/api/images/optimize", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	asset := decode[models.ImageAsset](t, rec)
	assert.Equal(t, models.MIMEJPEG, asset.OutputType)
	assert.Equal(t, 600, asset.Width)
	assert.Equal(t, 300, asset.Height)
	assert.True(t, strings.HasPrefix(asset.DataURL, "data:image/jpeg;base64,"))
	assert.Empty(t, env.store.keys())
}

func TestWidgets(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/widgets/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	catalog := decode[models.ThemeCatalog](t, rec)
	assert.Len(t, catalog.Footers, 7)
	assert.Len(t, catalog.CtaSchemes, 7)
	assert.Len(t, catalog.Colors, 22)

	rec = env.do(t, http.MethodPost, "/api/widgets/footer", `{"theme":"Lox"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]string](t, rec)
	assert.Equal(t, "footer", out["kind"])
	assert.Contains(t, out["html"], `data-color="Lox"`)

	rec = env.do(t, http.MethodPost, "/api/widgets/footer", `{"document":"<p>body</p>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[map[string]string](t, rec)
	assert.True(t, strings.HasPrefix(out["html"], "<p>body</p>"))
	assert.Contains(t, out["html"], `data-color="Centennial"`)

	rec = env.do(t, http.MethodPost, "/api/widgets/cta",
		`{"cta":{"button_text":"Register","link":"https://example.com/go","color_scheme":"lox","alignment":"left"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[map[string]string](t, rec)
	assert.Contains(t, out["html"], `data-align="left"`)
	assert.Contains(t, out["html"], `data-color-scheme="lox"`)

	rec = env.do(t, http.MethodPost, "/api/widgets/cta", `{"cta":{"link":"https://example.com"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/widgets/divider", `{"divider":{"width":50,"height":"4","color":"#FF0000"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[map[string]string](t, rec)
	assert.Contains(t, out["html"], "width:50%;height:4px;background-color:#FF0000;")

	rec = env.do(t, http.MethodPost, "/api/widgets/divider", `{"divider":{"width":5}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/widgets/header", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["html"], "bbyo-header-image")

	rec = env.do(t, http.MethodPost, "/api/widgets/banner", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkup(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/markup/clean", `{"pipeline":"final","html":"<p></p><a href=\"example.com\">x</a>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]interface{}](t, rec)
	assert.Equal(t, `<a href="HTTPGetWrap|https://example.com/">x</a>`, out["html"])
	assert.Equal(t, "final", out["pipeline"])

	rec = env.do(t, http.MethodPost, "/api/markup/clean", `{"pipeline":"bogus","html":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[map[string]interface{}](t, rec)
	assert.Equal(t, []interface{}{"fallback", "final", "live", "paste"}, problem["pipelines"])

	footer := decode[map[string]string](t, env.do(t, http.MethodPost, "/api/widgets/footer", `{"theme":"Jaffa"}`))["html"]
	body, err := json.Marshal(MarkupRequest{HTML: "<p>x</p>" + footer})
	require.NoError(t, err)

	rec = env.do(t, http.MethodPost, "/api/markup/inspect", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	inv := decode[models.WidgetInventory](t, rec)
	assert.True(t, inv.HasFooter)
	assert.Equal(t, "Jaffa", inv.FooterTheme)
	assert.False(t, inv.HasHeader)
}
