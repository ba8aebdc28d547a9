package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/seojindev/minwon/internal/chunker"
	"github.com/seojindev/minwon/internal/entity"
)

// BackendConfig names the remote NER backends explicitly. Zero values mean
// "not configured": an Orchestrator with neither URL set is a valid state
// that reports model "none" without attempting anything.
type BackendConfig struct {
	PrimaryURL    string
	SecondaryURL  string
	SecondaryKey  string
	Timeout       time.Duration
	MaxChunkRunes int
}

// state is one step of the extraction fallback chain. The chain is
// strictly ordered with no backtracking: each failure transitions forward,
// never errors out.
type state int

const (
	statePrimary state = iota
	stateSecondary
	stateRegexOnly
	stateNone
)

// Orchestrator composes regex extraction, the optional remote backends,
// and overlap resolution into one total ExtractEntities call.
type Orchestrator struct {
	primary   *PrimaryClient
	secondary *SecondaryClient
	chunkCfg  chunker.Config
	log       *slog.Logger
	stats     *BackendStats
}

func NewOrchestrator(cfg BackendConfig, log *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		chunkCfg: chunker.Config{MaxRunes: cfg.MaxChunkRunes},
		log:      log,
		stats:    NewBackendStats(time.Hour),
	}
	if o.chunkCfg.MaxRunes <= 0 {
		o.chunkCfg = chunker.DefaultConfig()
	}
	if cfg.PrimaryURL != "" {
		o.primary = NewPrimaryClient(cfg.PrimaryURL, cfg.Timeout)
	}
	if cfg.SecondaryURL != "" {
		o.secondary = NewSecondaryClient(cfg.SecondaryURL, cfg.SecondaryKey, cfg.Timeout)
	}
	return o
}

// Stats exposes backend latency aggregates.
func (o *Orchestrator) Stats() *BackendStats {
	return o.stats
}

// Close releases backend client resources.
func (o *Orchestrator) Close() {
	if o.primary != nil {
		o.primary.Close()
	}
	if o.secondary != nil {
		o.secondary.Close()
	}
}

// initialState picks the first configured step of the chain.
func (o *Orchestrator) initialState() state {
	switch {
	case o.primary != nil:
		return statePrimary
	case o.secondary != nil:
		return stateSecondary
	default:
		return stateNone
	}
}

// next is the pure transition function of the fallback chain.
func (o *Orchestrator) next(s state) state {
	if s == statePrimary && o.secondary != nil {
		return stateSecondary
	}
	return stateRegexOnly
}

// ExtractEntities runs the fallback chain over text. It is total: backend
// unavailability, non-2xx statuses, and malformed responses are state
// transitions, and the terminal regex stage cannot fail. The Model field
// records which source won: the primary's model id, a
// "<secondary-model>+regex" hybrid, "regex-fallback", or "none" when no
// backend is configured (nothing was attempted, as opposed to "attempted
// and found nothing").
func (o *Orchestrator) ExtractEntities(ctx context.Context, text string) entity.ExtractionResult {
	result := entity.ExtractionResult{
		Entities: []entity.Entity{},
		Text:     text,
	}

	s := o.initialState()
	if s == stateNone {
		result.Model = "none"
		return result
	}

	if s == statePrimary {
		entities, model, err := o.callPrimary(ctx, text)
		if err == nil {
			result.Entities = finalize(text, entities, "primary")
			result.Model = model
			return result
		}
		o.log.Warn("primary ner backend failed, falling back", "error", err)
		backendFailures.WithLabelValues("primary").Inc()
		s = o.next(s)
	}

	if s == stateSecondary {
		entities, err := o.callSecondary(ctx, text)
		if err == nil {
			// Secondary output is merged with regex extraction and
			// deduped as one list; neither source is trusted alone.
			merged := append(SanitizeEntities(text, entities), ExtractByRegex(text)...)
			result.Entities = finalize(text, merged, "hybrid")
			result.Model = o.secondary.Model() + "+regex"
			return result
		}
		o.log.Warn("secondary ner backend failed, falling back", "error", err)
		backendFailures.WithLabelValues("secondary").Inc()
	}

	result.Entities = finalize(text, ExtractByRegex(text), "regex")
	result.Model = "regex-fallback"
	return result
}

// finalize dedupes, guarantees a non-nil slice, and bumps metrics.
func finalize(text string, entities []entity.Entity, source string) []entity.Entity {
	start := time.Now()
	deduped := Dedupe(SanitizeEntities(text, entities))
	extractionDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if deduped == nil {
		deduped = []entity.Entity{}
	}
	for _, e := range deduped {
		entityCount.WithLabelValues(string(e.Label)).Inc()
	}
	return deduped
}

// callPrimary sends the text chunk by chunk, retrying transient failures,
// and shifts entity offsets back into document coordinates.
func (o *Orchestrator) callPrimary(ctx context.Context, text string) ([]entity.Entity, string, error) {
	var all []entity.Entity
	model := ""
	for _, chunk := range chunker.Split(text, o.chunkCfg) {
		var entities []entity.Entity
		var chunkModel string
		var err error
		for attempt := 0; attempt < MaxRetries; attempt++ {
			callStart := time.Now()
			entities, chunkModel, err = o.primary.Recognize(ctx, chunk.Text)
			o.stats.Record("primary", time.Since(callStart).Milliseconds())
			if err == nil || !IsRetryable(err) {
				break
			}
			if attempt == MaxRetries-1 {
				break
			}
			o.log.Warn("retryable primary backend error", "attempt", attempt, "error", err)
			select {
			case <-time.After(Backoff(attempt)):
			case <-ctx.Done():
				return nil, "", ctx.Err()
			}
		}
		if err != nil {
			return nil, "", err
		}
		if model == "" {
			model = chunkModel
		}
		all = append(all, shift(entities, chunk.Start)...)
	}
	if model == "" {
		model = "primary-ner"
	}
	return all, model, nil
}

func (o *Orchestrator) callSecondary(ctx context.Context, text string) ([]entity.Entity, error) {
	var all []entity.Entity
	for _, chunk := range chunker.Split(text, o.chunkCfg) {
		callStart := time.Now()
		entities, err := o.secondary.Recognize(ctx, chunk.Text)
		o.stats.Record("secondary", time.Since(callStart).Milliseconds())
		if err != nil {
			return nil, err
		}
		all = append(all, shift(entities, chunk.Start)...)
	}
	return all, nil
}

func shift(entities []entity.Entity, offset int) []entity.Entity {
	if offset == 0 {
		return entities
	}
	out := make([]entity.Entity, len(entities))
	for i, e := range entities {
		e.Start += offset
		e.End += offset
		out[i] = e
	}
	return out
}
