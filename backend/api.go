package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yoavweinshall/pa2-connect/engine"
)

type server struct {
	controller *GameController
	hub        *Hub
	hintHub    *HintHub
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/status", s.handleStatus)
		r.Post("/start", s.handleStart)
		r.Post("/stop", s.handleStop)
		r.Post("/settings", s.handleSettings)
		r.Post("/move", s.handleMove)
		r.Post("/analyze", s.handleAnalyze)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.hub, s.controller, w, r)
	})
	r.Get("/ws/hint", func(w http.ResponseWriter, r *http.Request) {
		serveHintWS(s.hintHub, w, r)
	})
	return r
}

func (s *server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	settings, err := settingsFromDTO(payload.Settings, s.controller.Settings())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.controller.StartGame(settings)
	status := controllerStatus(s.controller)
	writeJSON(w, http.StatusOK, status)
	s.hub.PublishReset(status)
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset(s.controller.Settings())
	status := controllerStatus(s.controller)
	writeJSON(w, http.StatusOK, status)
	s.hub.PublishReset(status)
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings *GameSettingsDTO `json:"settings"`
		Config   json.RawMessage  `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var settings *GameSettings
	if payload.Settings != nil {
		updated, err := settingsFromDTO(*payload.Settings, s.controller.Settings())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		settings = &updated
	}
	if len(payload.Config) > 0 && string(payload.Config) != "null" {
		// Fields missing from the body keep their current values.
		config := GetConfig()
		if err := json.Unmarshal(payload.Config, &config); err != nil {
			writeError(w, http.StatusBadRequest, "invalid config")
			return
		}
		configStore.Update(config)
		log.Info().Interface("config", GetConfig()).Msg("config updated")
	}
	if settings != nil {
		s.controller.UpdateSettings(*settings, false)
	}
	s.hub.PublishSettings(settingsPayload{
		Settings: controllerSettingsDTO(s.controller.Settings()),
		Config:   GetConfig(),
	})
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	applied, errMsg := s.controller.ApplyHumanMove(engine.Move(payload.Column))
	if !applied {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	s.publishLatest()
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

// handleAnalyze searches a position supplied by the client without touching
// the running game.
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	state, err := stateFromAnalyzeRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if state.IsTerminal() {
		writeError(w, http.StatusBadRequest, "position is terminal")
		return
	}

	config := GetConfig()
	depth := config.AiDepth
	if req.Depth != nil {
		depth = clamp(*req.Depth, 0, maxAIDepth)
	}
	useAlphaBeta := config.AiUseAlphaBeta
	if req.UseAlphaBeta != nil {
		useAlphaBeta = *req.UseAlphaBeta
	}
	evaluatorName := config.AiEvaluator
	if req.Evaluator != "" {
		evaluatorName = req.Evaluator
	}
	eval, err := engine.EvaluatorByName(evaluatorName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result := engine.Search(state, engine.SearchOptions{
		Depth:        depth,
		UseAlphaBeta: useAlphaBeta,
		Evaluator:    eval,
	})
	elapsed := time.Since(start)
	log.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Int("depth", depth).
		Int("move", int(result.Move)).
		Float64("score", result.Score).
		Int64("nodes", result.Stats.Nodes).
		Dur("elapsed", elapsed).
		Msg("analysis finished")

	writeJSON(w, http.StatusOK, analyzeResponse{
		Move:         int(result.Move),
		Score:        result.Score,
		Depth:        depth,
		UseAlphaBeta: useAlphaBeta,
		Evaluator:    evaluatorName,
		Nodes:        result.Stats.Nodes,
		Leaves:       result.Stats.Leaves,
		Cutoffs:      result.Stats.Cutoffs,
		ElapsedMs:    float64(elapsed.Microseconds()) / 1000,
	})
}

// stateFromAnalyzeRequest infers the geometry from the rows when the request
// carries no settings.
func stateFromAnalyzeRequest(req analyzeRequest) (*engine.GameState, error) {
	toMove, err := parsePlayerColor(req.ToMove)
	if err != nil {
		return nil, err
	}
	settings := engine.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	} else if len(req.Rows) > 0 {
		settings.Rows = len(req.Rows)
		settings.Columns = len(req.Rows[0])
	}
	if len(req.Rows) == 0 {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		state := engine.NewGameState(settings)
		if toMove != state.ToMove() {
			return nil, errors.New("red moves first on an empty board")
		}
		return state, nil
	}
	return engine.ParseGameState(settings, toMove, req.Rows...)
}

func (s *server) publishLatest() {
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		s.hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	s.hub.PublishStatus(controllerStatus(s.controller))
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "move":
			var move apiMove
			if err := json.Unmarshal(msg.Payload, &move); err != nil {
				continue
			}
			controller.OnColumnClicked(move.Column)
		}
	}
}
