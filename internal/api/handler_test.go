package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsarena/engine/internal/broadcast"
	"github.com/rpsarena/engine/internal/registry"
)

func TestBotSubmissionToBotRequiresSourceOrWasm(t *testing.T) {
	_, err := botSubmission{Name: "rocky"}.toBot()
	assert.Error(t, err)
}

func TestBotSubmissionToBotBuildsScriptedBot(t *testing.T) {
	bot, err := botSubmission{Name: "rocky", Source: "print('rock')"}.toBot()
	require.NoError(t, err)
	assert.Equal(t, "rocky", bot.DisplayName)
	assert.Equal(t, "print('rock')", bot.SourceText)
}

func TestBotSubmissionToBotRejectsBadName(t *testing.T) {
	_, err := botSubmission{Name: "", Source: "x"}.toBot()
	assert.Error(t, err)
}

func TestBotSubmissionToBotDecodesNativeWasm(t *testing.T) {
	bot, err := botSubmission{Name: "native1", WasmBase64: "AGFzbQ=="}.toBot()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d}, bot.Bytes)
}

func TestListBotsReturnsActiveNames(t *testing.T) {
	reg := registry.NewMemoryRegistry()
	h := NewHandler(nil, reg, nil, broadcast.NewHub(), "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.listBots(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bots":[]}`, rec.Body.String())
}

func TestAuthMiddlewareRejectsMissingKey(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, "secret")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.authMiddleware(func(c echo.Context) error { return nil })(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddlewareAllowsNoKeyConfigured(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, "")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := h.authMiddleware(func(c echo.Context) error { called = true; return nil })(c)
	require.NoError(t, err)
	assert.True(t, called)
}
