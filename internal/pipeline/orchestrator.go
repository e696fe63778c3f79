// Package pipeline drives spreadsheet entries through credit resolution,
// record merge and export, one entry at a time.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"credit-sync/internal/catalog"
	"credit-sync/internal/credits"
	"credit-sync/internal/logging"
	"credit-sync/internal/model"
	"credit-sync/internal/songxml"
)

// DefaultMaxAttempts allows one retry of the whole pipeline.
const DefaultMaxAttempts = 2

// State is a step of the per-entry pipeline.
type State string

const (
	StateResolving      State = "RESOLVING"
	StateFetchingRecord State = "FETCHING_RECORD"
	StateMerging        State = "MERGING"
	StateExporting      State = "EXPORTING"
	StateDone           State = "DONE"
	StateNoMatch        State = "NO_MATCH"
	StateFailed         State = "FAILED"
	StateSkipped        State = "SKIPPED"
)

// Resolver resolves a catalog query to credits.
type Resolver interface {
	Resolve(ctx context.Context, query string) (model.Credits, error)
}

// SongService is the traffic system's song import/export service.
type SongService interface {
	FindSong(ctx context.Context, artist, title string) (string, error)
	ImportSongs(ctx context.Context, document string) error
}

// Outcome is the result of processing one entry.
type Outcome struct {
	Entry    model.SpreadsheetEntry
	Query    string
	State    State
	Attempts int
	Credits  model.Credits
	Updates  []string
	Err      error
	Trace    []State
}

// Kind returns the failure kind of the outcome, or "" when it did not fail.
func (o Outcome) Kind() ErrorKind {
	var stepErr *StepError
	if errors.As(o.Err, &stepErr) {
		return stepErr.Kind
	}
	return ""
}

func (o *Outcome) enter(s State) {
	o.Trace = append(o.Trace, s)
}

// Orchestrator processes entries sequentially.
type Orchestrator struct {
	resolver    Resolver
	songs       SongService
	merger      *songxml.Merger
	logger      *logging.Logger
	maxAttempts int
}

// New creates an Orchestrator. maxAttempts below 1 selects DefaultMaxAttempts.
func New(resolver Resolver, songs SongService, merger *songxml.Merger, logger *logging.Logger, maxAttempts int) *Orchestrator {
	if merger == nil {
		merger = songxml.NewMerger()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Orchestrator{
		resolver:    resolver,
		songs:       songs,
		merger:      merger,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Run processes entries in order. A failed entry never stops the run; a
// canceled context does.
func (o *Orchestrator) Run(ctx context.Context, entries []model.SpreadsheetEntry) []Outcome {
	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			o.logger.Warnf("Run canceled; %d of %d entries not processed", len(entries)-len(outcomes), len(entries))
			break
		}
		outcomes = append(outcomes, o.Process(ctx, entry))
	}
	return outcomes
}

// Process runs one entry through the pipeline, retrying the whole sequence
// once after a transform or transport failure.
func (o *Orchestrator) Process(ctx context.Context, entry model.SpreadsheetEntry) Outcome {
	out := Outcome{Entry: entry, Query: credits.BuildQuery(entry.Artist, entry.Title)}
	if strings.TrimSpace(out.Query) == "" {
		out.State = StateNoMatch
		o.logger.Warnf("Row %d has no artist or title; skipping", entry.Row)
		return out
	}

	var labels labelMemo
	for attempt := 1; ; attempt++ {
		out.Attempts = attempt
		final, err := o.attempt(ctx, entry, &out, &labels)
		if err == nil {
			out.State = final
			out.Err = nil
			return out
		}

		out.enter(StateFailed)
		out.Err = err
		o.logger.Errorf("entry %s: status=ERROR attempt=%d step=%s kind=%s: %v", entry, attempt, err.State, err.Kind, err.Err)

		if !err.Kind.Retryable() {
			out.State = StateFailed
			return out
		}
		if attempt >= o.maxAttempts {
			o.logger.Errorf("entry %s: status=SKIP after %d attempts", entry, attempt)
			out.State = StateSkipped
			return out
		}
		o.logger.Warnf("entry %s: status=RETRY attempt=%d", entry, attempt+1)
	}
}

func (o *Orchestrator) attempt(ctx context.Context, entry model.SpreadsheetEntry, out *Outcome, labels *labelMemo) (State, *StepError) {
	out.Credits = model.Credits{}
	out.Updates = nil

	out.enter(StateResolving)
	resolved, err := o.resolver.Resolve(ctx, out.Query)
	if errors.Is(err, credits.ErrNoMatch) {
		o.logger.Infof("No catalog match for %s (query %q)", entry, out.Query)
		out.enter(StateNoMatch)
		return StateNoMatch, nil
	}
	if err != nil {
		return "", stepError(StateResolving, err)
	}
	resolved = labels.apply(resolved)
	out.Credits = resolved

	out.enter(StateFetchingRecord)
	document, err := o.songs.FindSong(ctx, entry.Artist, entry.Title)
	if err != nil {
		return "", stepError(StateFetchingRecord, err)
	}

	out.enter(StateMerging)
	record, err := songxml.Parse(document)
	if err != nil {
		return "", stepError(StateMerging, err)
	}
	if _, err := o.merger.Merge(record, resolved); err != nil {
		return "", stepError(StateMerging, err)
	}
	out.Updates = record.Updates()
	updated, err := record.String()
	if err != nil {
		return "", stepError(StateMerging, err)
	}
	o.logger.Infof("Successfully processed the data for: %s (filled: %s)", entry, describeUpdates(out.Updates))

	out.enter(StateExporting)
	if err := o.songs.ImportSongs(ctx, updated); err != nil {
		return "", stepError(StateExporting, err)
	}
	o.logger.Infof("Successfully exported the data for: %s", entry)

	out.enter(StateDone)
	return StateDone, nil
}

// labelMemo keeps the label an earlier attempt fetched for the entry. The
// retry re-resolves through the album cache that attempt filled, and a cache
// hit carries no label.
type labelMemo struct {
	key   string
	label string
}

func (m *labelMemo) apply(c model.Credits) model.Credits {
	key := catalog.Key(c.Artist, c.Album)
	if c.HasLabel() {
		m.key, m.label = key, c.Label
		return c
	}
	if m.label != "" && m.key == key {
		c.Label = m.label
	}
	return c
}

func describeUpdates(updates []string) string {
	if len(updates) == 0 {
		return "nothing"
	}
	return strings.Join(updates, ", ")
}
