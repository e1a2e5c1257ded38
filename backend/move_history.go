package main

import "github.com/yoavweinshall/pa2-connect/engine"

type HistoryEntry struct {
	Move      engine.Move
	Row       int
	Player    engine.PlayerColor
	ElapsedMs float64
	IsAi      bool
	Depth     int
	Score     float64
	HasScore  bool
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}
