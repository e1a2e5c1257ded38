package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yoavweinshall/pa2-connect/engine"
)

type summary struct {
	Settings      engine.Settings   `json:"settings"`
	Games         int               `json:"games"`
	OpeningPlies  int               `json:"opening_plies"`
	VerifyPruning bool              `json:"verify_pruning"`
	ElapsedMs     int64             `json:"elapsed_ms"`
	Standings     []standing        `json:"standings"`
	Results       []gameResultDTO   `json:"results,omitempty"`
	Contenders    []contenderConfig `json:"contenders"`
}

type standing struct {
	ID           string  `json:"id"`
	Elo          float64 `json:"elo"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	NodesPerMove float64 `json:"nodes_per_move"`
}

type gameResultDTO struct {
	Index   int    `json:"index"`
	Red     string `json:"red"`
	Opening []int  `json:"opening"`
	Winner  string `json:"winner"`
	Plies   int    `json:"plies"`
}

func main() {
	setupLogging(getenv("TRAINER_LOG_LEVEL", "info"), os.Stderr)
	if err := run(); err != nil {
		log.Error().Err(err).Msg("arena failed")
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred profile writers always flush.
func run() error {
	switch strings.ToLower(getenv("TRAINER_PROFILE", "")) {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(getenv("TRAINER_PROFILE_DIR", ".")), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(getenv("TRAINER_PROFILE_DIR", ".")), profile.Quiet).Stop()
	}

	settings := engine.Settings{
		Columns:   getenvInt("TRAINER_COLUMNS", engine.DefaultColumns),
		Rows:      getenvInt("TRAINER_ROWS", engine.DefaultRows),
		WinLength: getenvInt("TRAINER_WIN_LENGTH", engine.DefaultWinLength),
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("board settings: %w", err)
	}
	first := contenderFromEnv("A", contenderConfig{Kind: kindSearch, Depth: 4, UseAlphaBeta: true, Evaluator: engine.EvaluatorStandard})
	second := contenderFromEnv("B", contenderConfig{Kind: kindSearch, Depth: 2, UseAlphaBeta: true, Evaluator: engine.EvaluatorStandard})
	for _, c := range []contenderConfig{first, second} {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("contender: %w", err)
		}
	}

	a := &arena{
		settings:       settings,
		openingPlies:   getenvInt("TRAINER_OPENING_PLIES", 2),
		parallel:       getenvInt("TRAINER_PARALLEL", runtime.NumCPU()),
		eloK:           getenvFloat("TRAINER_ELO_K", 24),
		verifyPruning:  getenvBool("TRAINER_VERIFY_PRUNING", false),
		progressEveryN: getenvInt("TRAINER_PROGRESS_EVERY", 10),
	}
	games := getenvInt("TRAINER_GAMES", 20)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := getenv("TRAINER_API_ADDR", ""); addr != "" {
		go serveStatus(ctx, addr, a, games)
	}

	log.Info().
		Str("a", first.String()).
		Str("b", second.String()).
		Int("games", games).
		Int("parallel", a.parallel).
		Bool("verify_pruning", a.verifyPruning).
		Msg("arena starting")

	start := time.Now()
	results, err := a.Run(ctx, first, second, games)
	if err != nil {
		return fmt.Errorf("arena aborted: %w", err)
	}
	out := buildSummary(a, first, second, results, time.Since(start))
	if err := writeSummary(getenv("TRAINER_SUMMARY", ""), out); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func buildSummary(a *arena, first, second contenderConfig, results []gameResult, elapsed time.Duration) summary {
	ca := contender{Config: first, Elo: initialElo}
	cb := contender{Config: second, Elo: initialElo}
	applyResults(&ca, &cb, results, a.eloK)
	ranked := []contender{ca, cb}
	sortContendersByElo(ranked)

	out := summary{
		Settings:      a.settings,
		Games:         len(results),
		OpeningPlies:  a.openingPlies,
		VerifyPruning: a.verifyPruning,
		ElapsedMs:     elapsed.Milliseconds(),
		Contenders:    []contenderConfig{first, second},
	}
	for _, c := range ranked {
		perMove := 0.0
		if c.Moves > 0 {
			perMove = float64(c.Nodes) / float64(c.Moves)
		}
		out.Standings = append(out.Standings, standing{
			ID:           c.Config.ID,
			Elo:          c.Elo,
			Wins:         c.Wins,
			Losses:       c.Losses,
			Draws:        c.Draws,
			NodesPerMove: perMove,
		})
		log.Info().
			Str("id", c.Config.ID).
			Float64("elo", c.Elo).
			Int("wins", c.Wins).
			Int("losses", c.Losses).
			Int("draws", c.Draws).
			Float64("nodes_per_move", perMove).
			Msg("standing")
	}
	for _, r := range results {
		opening := make([]int, len(r.Opening))
		for i, m := range r.Opening {
			opening[i] = int(m)
		}
		out.Results = append(out.Results, gameResultDTO{
			Index:   r.Index,
			Red:     r.RedID,
			Opening: opening,
			Winner:  r.Winner,
			Plies:   r.Plies,
		})
	}
	return out
}

func writeSummary(path string, out summary) (err error) {
	var w io.Writer = os.Stdout
	if path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("create summary: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close summary: %w", closeErr)
			}
		}()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// serveStatus exposes arena progress while games are running.
func serveStatus(ctx context.Context, addr string, a *arena, total int) {
	r := chi.NewRouter()
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		finished := a.finished
		a.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"finished": finished, "total": total})
	})
	server := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("status api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("status api stopped")
	}
}

func contenderFromEnv(id string, fallback contenderConfig) contenderConfig {
	prefix := "TRAINER_" + id + "_"
	c := fallback
	c.ID = id
	c.Kind = strings.ToLower(getenv(prefix+"KIND", c.Kind))
	c.Depth = getenvInt(prefix+"DEPTH", c.Depth)
	c.UseAlphaBeta = getenvBool(prefix+"ALPHA_BETA", c.UseAlphaBeta)
	c.Evaluator = getenv(prefix+"EVALUATOR", c.Evaluator)
	return c
}

func setupLogging(level string, out io.Writer) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("component", "trainer").
		Logger()
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(value, "%f", &parsed); err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
