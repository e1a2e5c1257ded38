package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yoavweinshall/pa2-connect/engine"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	MoveCount       int               `json:"move_count"`
	LegalMoves      []int             `json:"legal_moves"`
	AiThinking      bool              `json:"ai_thinking"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []engine.Coord    `json:"winning_line"`
	Message         string            `json:"message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Red    string           `json:"red"`
	Yellow string           `json:"yellow"`
	Board  *engine.Settings `json:"board,omitempty"`
}

type apiMove struct {
	Column int `json:"column"`
}

type historyEntryDTO struct {
	Column    int      `json:"column"`
	Row       int      `json:"row"`
	Player    int      `json:"player"`
	ElapsedMs float64  `json:"elapsed_ms"`
	IsAi      bool     `json:"is_ai"`
	Depth     int      `json:"depth"`
	Score     *float64 `json:"score,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type analyzeRequest struct {
	Rows         []string         `json:"rows"`
	ToMove       string           `json:"to_move"`
	Settings     *engine.Settings `json:"settings,omitempty"`
	Depth        *int             `json:"depth,omitempty"`
	UseAlphaBeta *bool            `json:"use_alpha_beta,omitempty"`
	Evaluator    string           `json:"evaluator,omitempty"`
}

type analyzeResponse struct {
	Move         int     `json:"move"`
	Score        float64 `json:"score"`
	Depth        int     `json:"depth"`
	UseAlphaBeta bool    `json:"use_alpha_beta"`
	Evaluator    string  `json:"evaluator"`
	Nodes        int64   `json:"nodes"`
	Leaves       int64   `json:"leaves"`
	Cutoffs      int64   `json:"cutoffs"`
	ElapsedMs    float64 `json:"elapsed_ms"`
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	status := controller.Status()
	legal := state.LegalActions()
	if status != StatusRunning {
		legal = nil
	}
	legalMoves := make([]int, 0, len(legal))
	for _, move := range legal {
		legalMoves = append(legalMoves, int(move))
	}
	return StatusResponse{
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToSlice(state.Board()),
		NextPlayer:      playerToInt(state.ToMove()),
		Winner:          winnerFromStatus(status),
		Status:          statusToString(status),
		MoveCount:       state.MoveCount(),
		LegalMoves:      legalMoves,
		AiThinking:      controller.AiThinking(),
		History:         historyToDTO(controller.History()),
		WinningLine:     state.WinningLine(),
		Message:         controller.LastMessage(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) (GameSettings, error) {
	settings := base
	if dto.Red != "" {
		kind, err := parsePlayerType(dto.Red)
		if err != nil {
			return base, err
		}
		settings.RedType = kind
	}
	if dto.Yellow != "" {
		kind, err := parsePlayerType(dto.Yellow)
		if err != nil {
			return base, err
		}
		settings.YellowType = kind
	}
	if dto.Board != nil {
		if err := dto.Board.Validate(); err != nil {
			return base, err
		}
		settings.Board = *dto.Board
	}
	return settings, nil
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	board := settings.Board
	return GameSettingsDTO{
		Red:    playerTypeName(settings.RedType),
		Yellow: playerTypeName(settings.YellowType),
		Board:  &board,
	}
}

func parsePlayerType(name string) (PlayerType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "human":
		return PlayerHuman, nil
	case "ai":
		return PlayerAI, nil
	case "random":
		return PlayerRandom, nil
	}
	return PlayerHuman, fmt.Errorf("unknown player type %q", name)
}

func playerTypeName(kind PlayerType) string {
	return strings.ToLower(kind.String())
}

func parsePlayerColor(name string) (engine.PlayerColor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "red", "r", "1":
		return engine.PlayerRed, nil
	case "yellow", "y", "2":
		return engine.PlayerYellow, nil
	}
	return engine.PlayerRed, fmt.Errorf("unknown player %q", name)
}

// boardToSlice returns rows top to bottom with 0 empty, 1 red, 2 yellow.
func boardToSlice(board engine.Board) [][]int {
	rows := make([][]int, board.Rows())
	for row := range rows {
		rows[row] = make([]int, board.Cols())
		for col := range rows[row] {
			rows[row][col] = cellToInt(board.At(col, row))
		}
	}
	return rows
}

func cellToInt(cell engine.Cell) int {
	switch cell {
	case engine.CellRed:
		return 1
	case engine.CellYellow:
		return 2
	default:
		return 0
	}
}

func playerToInt(player engine.PlayerColor) int {
	if player == engine.PlayerRed {
		return 1
	}
	return 2
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusRedWon:
		return 1
	case StatusYellowWon:
		return 2
	default:
		return 0
	}
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusRedWon:
		return "red_won"
	case StatusYellowWon:
		return "yellow_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	dto := historyEntryDTO{
		Column:    int(entry.Move),
		Row:       entry.Row,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Depth:     entry.Depth,
	}
	if entry.HasScore {
		score := entry.Score
		dto.Score = &score
	}
	return dto
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
