package engine

// DefaultDepth is the search depth used when none is configured.
const DefaultDepth = 3

type SearchOptions struct {
	Depth        int
	UseAlphaBeta bool
	// Evaluator scores leaves; nil selects Evaluate.
	Evaluator Evaluator
	// Stats, when set, receives the counters of the search.
	Stats *SearchStats
}

func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Depth:        DefaultDepth,
		UseAlphaBeta: true,
		Evaluator:    Evaluate,
	}
}

type SearchResult struct {
	Move  Move
	Score float64
	Stats SearchStats
}

// Search clones pos and runs the selected algorithm on the copy. The result
// carries NoMove when depth is 0 or pos is already terminal.
func Search(pos Position, opts SearchOptions) SearchResult {
	eval := opts.Evaluator
	if eval == nil {
		eval = Evaluate
	}
	stats := opts.Stats
	if stats == nil {
		stats = &SearchStats{}
	}
	root := pos.Clone()
	var move Move
	var score float64
	if opts.UseAlphaBeta {
		move, score = AlphaBeta(root, opts.Depth, eval, stats)
	} else {
		move, score = Minimax(root, opts.Depth, eval, stats)
	}
	return SearchResult{Move: move, Score: score, Stats: *stats}
}

// BestMove returns only the move chosen by Search.
func BestMove(pos Position, opts SearchOptions) Move {
	return Search(pos, opts).Move
}
