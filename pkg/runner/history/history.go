package history

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"tableflip.dev/fsh/pkg/entry"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/store"
	"tableflip.dev/fsh/pkg/timeutil"
)

// History prints the journal without starting a shell.
type History struct {
	Journal store.Journal
	Printer *printers.PrettyPrint
	JSON    bool
	Out     io.Writer

	// Since, when positive, keeps only entries newer than now minus Since.
	Since time.Duration
	Now   func() time.Time
}

func (h *History) Do(_ context.Context) error {
	all, err := h.Journal.Load()
	if err != nil {
		return err
	}
	if h.Since > 0 {
		all = h.within(all)
	}
	if h.JSON {
		enc := json.NewEncoder(h.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	h.Printer.History(all...)
	return nil
}

func (h *History) within(all []entry.Entry) []entry.Entry {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	cutoff := timeutil.Cutoff(now(), h.Since)
	kept := make([]entry.Entry, 0, len(all))
	for _, e := range all {
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}
