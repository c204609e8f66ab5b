package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkKillSpike        BookmarkType = "kill_spike"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkPreyExtinct      BookmarkType = "prey_extinct"
	BookmarkPredatorExtinct  BookmarkType = "predator_extinct"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// stableWindows is how many consecutive calm windows make an ecosystem stable.
const stableWindows = 5

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum predator count in recent history
	recentPreyPeak     int // peak prey count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	preyGone           bool
	predGone           bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Extinctions fire once, on the first window that sees them.
	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, b...)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkKillSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	// Track predator minimum and prey peak
	if stats.PredCount < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.PredCount
	}
	if stats.PreyCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.PreyCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// recent returns the last n windows in chronological order.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	h := bd.getHistory()
	if n > len(h) {
		n = len(h)
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var out []Bookmark
	if stats.PreyCount == 0 && !bd.preyGone {
		bd.preyGone = true
		out = append(out, Bookmark{
			Type:        BookmarkPreyExtinct,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey extinct with %d predators left", stats.PredCount),
		})
	}
	if stats.PredCount == 0 && !bd.predGone {
		bd.predGone = true
		out = append(out, Bookmark{
			Type:        BookmarkPredatorExtinct,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predators extinct with %d prey left", stats.PreyCount),
		})
	}
	return out
}

func (bd *BookmarkDetector) checkKillSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.KillsPerPred
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.KillsPerPred > avg*2.0 && stats.Kills >= 3 {
		return &Bookmark{
			Type:        BookmarkKillSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kill rate %.3f is %.1fx average (%.3f)", stats.KillsPerPred, stats.KillsPerPred/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin == 0 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * 3
	if stats.PredCount >= threshold && stats.PredCount >= 6 {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.PredCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.PredCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.recentPreyPeak)
	if dropPercent > 0.30 && stats.PreyCount < bd.recentPreyPeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	// Need both populations present
	if stats.PreyCount < 10 || stats.PredCount < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(4)
	if len(window) < 4 {
		return nil
	}

	prey := make([]float64, len(window))
	pred := make([]float64, len(window))
	for i, h := range window {
		prey[i] = float64(h.PreyCount)
		pred[i] = float64(h.PredCount)
	}

	if squaredCV(prey) < 0.04 && squaredCV(pred) < 0.04 { // CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d+ windows", stats.PreyCount, stats.PredCount, stableWindows),
		}
	}

	return nil
}

func squaredCV(x []float64) float64 {
	mean, variance := stat.PopMeanVariance(x, nil)
	if mean == 0 {
		return 0
	}
	return variance / (mean * mean)
}
