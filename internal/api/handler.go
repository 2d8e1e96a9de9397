// Package api is the ambient HTTP/WebSocket surface: the reference
// transport for bot submission, ad-hoc testing, listing, and running
// tournaments over the core engine.
package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/rpsarena/engine/internal/blobstore"
	"github.com/rpsarena/engine/internal/bracket"
	"github.com/rpsarena/engine/internal/broadcast"
	"github.com/rpsarena/engine/internal/executor"
	"github.com/rpsarena/engine/internal/match"
	"github.com/rpsarena/engine/internal/orchestrator"
	"github.com/rpsarena/engine/internal/registry"
	"github.com/rpsarena/engine/internal/rps"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // CLI/SDK directly connecting
		}
		return strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "https://localhost")
	},
}

// admissionOpponent and admissionHistory are the canned admission-test
// stimulus every submitted or tested bot is run against (§4.6).
var admissionOpponent = "testbot"
var admissionHistory = []rps.Play{rps.Rock, rps.Scissors}

// Handler wires the core engine to HTTP and WebSocket routes.
type Handler struct {
	executor *executor.Executor
	registry registry.Registry
	blobs    *blobstore.FSBlobStore
	hub      *broadcast.Hub
	apiKey   string

	mu      sync.Mutex
	current *rps.Tournament // most recent tournament, for WS replay on connect
}

// NewHandler builds a Handler. apiKey may be empty to disable auth.
func NewHandler(exec *executor.Executor, reg registry.Registry, blobs *blobstore.FSBlobStore, hub *broadcast.Hub, apiKey string) *Handler {
	return &Handler{executor: exec, registry: reg, blobs: blobs, hub: hub, apiKey: apiKey}
}

// RegisterRoutes mounts the /v1 group, matching the teacher's
// route-grouping and conditional-auth-middleware pattern.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")
	if h.apiKey != "" {
		v1.Use(h.authMiddleware)
	}

	v1.POST("/bots", h.submitBot)
	v1.POST("/bots/test", h.testBot)
	v1.GET("/bots", h.listBots)
	v1.POST("/tournaments", h.runTournament)
	v1.GET("/tournaments/ws", h.tournamentSocket)
}

func (h *Handler) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Header.Get("X-Arena-API-Key")
		if key == "" {
			key = c.QueryParam("api_key")
		}
		if h.apiKey != "" && key != h.apiKey {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing API key")
		}
		return next(c)
	}
}

// botSubmission is the shared request shape for both /bots and
// /bots/test: a scripted bot carries Source, a native bot carries
// WasmBase64 — exactly one of the two is expected.
type botSubmission struct {
	Name       string `json:"name"`
	Source     string `json:"source,omitempty"`
	WasmBase64 string `json:"wasm_base64,omitempty"`
}

func (req botSubmission) toBot() (*rps.Bot, error) {
	switch {
	case req.Source != "" && req.WasmBase64 != "":
		return nil, fmt.Errorf("exactly one of source or wasm_base64 is required")
	case req.Source != "":
		if err := rps.ValidateDisplayName(req.Name); err != nil {
			return nil, err
		}
		return &rps.Bot{Kind: rps.Scripted, DisplayName: req.Name, SourceText: req.Source}, nil
	case req.WasmBase64 != "":
		if err := rps.ValidateDisplayName(req.Name); err != nil {
			return nil, err
		}
		data, err := decodeWasmBase64(req.WasmBase64)
		if err != nil {
			return nil, fmt.Errorf("decode wasm_base64: %w", err)
		}
		return &rps.Bot{Kind: rps.Native, DisplayName: req.Name, Bytes: data}, nil
	default:
		return nil, fmt.Errorf("exactly one of source or wasm_base64 is required")
	}
}

func (h *Handler) submitBot(c echo.Context) error {
	var req botSubmission
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request").SetInternal(err)
	}
	bot, err := req.toBot()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.executor.Run(c.Request().Context(), bot, admissionStdin())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
	if result.IsInvalid() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, result.InvalidReason)
	}

	if bot.Kind == rps.Native {
		key, err := h.blobs.Put(c.Request().Context(), bot.Bytes)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
		}
		bot.BlobKey = key
		bot.Bytes = nil
	}

	insertResult, err := h.registry.Insert(c.Request().Context(), bot)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
	if insertResult == registry.NameTaken {
		return echo.NewHTTPError(http.StatusConflict, "bot name already in use")
	}

	return c.JSON(http.StatusCreated, map[string]any{"id": *bot.RegistryID, "name": bot.DisplayName})
}

func (h *Handler) testBot(c echo.Context) error {
	var req botSubmission
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request").SetInternal(err)
	}
	bot, err := req.toBot()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	runID := uuid.NewString()
	result, err := h.executor.Run(c.Request().Context(), bot, admissionStdin())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"run_id":         runID,
		"play":           result.Play.String(),
		"invalid_reason": result.InvalidReason,
		"duration_ms":    result.Duration.Milliseconds(),
	})
}

func (h *Handler) listBots(c echo.Context) error {
	bots, err := h.registry.ListActive(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
	names := make([]string, len(bots))
	for i, b := range bots {
		names[i] = b.DisplayName
	}
	return c.JSON(http.StatusOK, map[string]any{"bots": names})
}

func (h *Handler) runTournament(c echo.Context) error {
	ctx := c.Request().Context()
	bots, err := h.registry.ListActive(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
	if len(bots) < 2 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "need at least two active bots")
	}

	rand.Shuffle(len(bots), func(i, j int) { bots[i], bots[j] = bots[j], bots[i] })
	tournament := bracket.Build(bots)

	engine := match.New(h.executor, h.registry, h.hub, nil)
	driver := orchestrator.New(engine, h.hub)
	if err := driver.Run(ctx, tournament); err != nil {
		log.Error().Err(err).Msg("tournament aborted")
		return echo.NewHTTPError(http.StatusInternalServerError, "tournament aborted").SetInternal(err)
	}

	h.mu.Lock()
	h.current = tournament
	h.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"matches": tournament.StartingMatches,
		"updates": tournament.MatchUpdates,
	})
}

func (h *Handler) tournamentSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	h.mu.Lock()
	replay := h.current
	h.mu.Unlock()
	if replay != nil {
		for _, outcome := range replay.MatchUpdates {
			data, err := json.Marshal(outcome)
			if err != nil {
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return nil
			}
		}
	}

	updates, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	for msg := range updates {
		if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return nil
		}
	}
	return nil
}

func admissionStdin() []byte {
	data, _ := json.Marshal(rps.RunInput{
		BotName:  "candidate",
		Opponent: admissionOpponent,
		Round:    uint32(len(admissionHistory)), // zero-based move index: one past the canned history
		History:  admissionHistory,
	})
	return data
}

func decodeWasmBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
