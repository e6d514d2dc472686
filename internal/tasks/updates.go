package tasks

import (
	"fmt"

	"github.com/desertthunder/tickr/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ImportFavourites Phase = iota
	FetchFavourites
	ExportFavourites
)

func (p Phase) String() string {
	switch p {
	case ImportFavourites:
		return "import_favourites"
	case FetchFavourites:
		return "fetch_favourites"
	case ExportFavourites:
		return "export_favourites"
	default:
		return ""
	}
}

func importStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFavourites,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d favourites...", total),
	}
}

func importCompletedUpdate(step, total int, fav models.Favourite) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFavourites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, fav.Symbol),
		Data:    fav,
	}
}

func importFailedUpdate(step, total int, fav models.Favourite, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFavourites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, fav.Symbol, err),
		Data:    fav,
	}
}

func fetchFavouritesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFavourites,
		Step:    1,
		Total:   2,
		Message: "Fetching favourites...",
	}
}

func exportCompletedUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavourites,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Exported %d favourites to %s", count, path),
		Data:    path,
	}
}
