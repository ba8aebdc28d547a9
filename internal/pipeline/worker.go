package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/seojindev/minwon/internal/document"
	"github.com/seojindev/minwon/internal/extract"
	"github.com/seojindev/minwon/internal/ground"
	"github.com/seojindev/minwon/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	ner        *extract.Orchestrator
	thresholds ground.Thresholds
	pdfParser  *parser.PDFParser
	log        *slog.Logger
}

func NewWorker(ner *extract.Orchestrator, th ground.Thresholds, pdfParser *parser.PDFParser, log *slog.Logger) *Worker {
	return &Worker{
		ner:        ner,
		thresholds: th,
		pdfParser:  pdfParser,
		log:        log,
	}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := w.parserFor(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	pages, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetPages(len(pages))
	if len(pages) == 0 {
		log.Warn("no extractable content")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	text := document.FullText(pages)
	job.ContentHash = ContentHashHex([]byte(text))

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	result := w.ner.ExtractEntities(ctx, text)
	log.Info("extraction complete", "entities", len(result.Entities), "model", result.Model)

	// Phase 3: Ground
	job.SetStatus(StatusGrounding, "grounding")
	matches := ground.GroundEntities(result.Entities, pages, w.thresholds)
	matched := 0
	for _, results := range matches {
		if len(results) > 0 {
			matched++
		}
	}
	job.SetCounts(len(result.Entities), matched)
	log.Info("grounding complete", "keys", len(matches), "matched", matched)

	job.SetResult(&AnalysisResult{
		Pages:    pages,
		Entities: result.Entities,
		Model:    result.Model,
		Matches:  matches,
	})
	job.SetStatus(StatusCompleted, "done")
}

// parserFor returns the parser for a filename, routing PDFs through the
// configured PDF parser so the pdftotext fallback setting is honored.
func (w *Worker) parserFor(filename string) (parser.Parser, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if _, ok := p.(*parser.PDFParser); ok && w.pdfParser != nil {
		return w.pdfParser, nil
	}
	return p, nil
}
