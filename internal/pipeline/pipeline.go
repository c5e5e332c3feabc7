package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/enrich"
	"github.com/dustykeyboard1/DKScraper/internal/model"
	"github.com/dustykeyboard1/DKScraper/internal/notifier"
	"github.com/dustykeyboard1/DKScraper/internal/runlog"
	"github.com/dustykeyboard1/DKScraper/internal/selector"
	"github.com/dustykeyboard1/DKScraper/internal/settler"
	"github.com/dustykeyboard1/DKScraper/internal/workbook"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OddsSource scrapes the day's prop lines
type OddsSource interface {
	ScrapeAll(ctx context.Context, date time.Time) (map[models.MarketType][]models.OddsRow, error)
}

// Enricher derives features for a market's odds rows
type Enricher interface {
	Enrich(ctx context.Context, market models.MarketType, rows []models.OddsRow) enrich.Report
}

// Labeler settles enriched rows against the games since played
type Labeler interface {
	LabelOutcomes(ctx context.Context, market models.MarketType, rows []models.EnrichedRow) ([]models.EnrichedRow, settler.Summary)
}

// Model is the over/under classifier
type Model interface {
	Trained() bool
	Train(rows []models.EnrichedRow, p model.Params, incremental bool) (model.TrainReport, error)
	PredictAll(rows []models.EnrichedRow) ([]models.EnrichedRow, error)
	Save(path string) error
}

// SelectionStore persists the day's selection
type SelectionStore interface {
	WriteSelection(ctx context.Context, date time.Time, sel models.Selection) (int64, error)
}

// Publisher announces the day's selection to downstream consumers
type Publisher interface {
	PublishSelection(ctx context.Context, sel models.Selection) error
}

// Deduper reports whether a selection is new for the date
type Deduper interface {
	ShouldAnnounce(ctx context.Context, date time.Time, sel models.Selection) (bool, error)
}

// RunRecorder logs stage executions
type RunRecorder interface {
	Start(ctx context.Context, runID, stage string) (*runlog.StageLog, error)
	Finish(ctx context.Context, entry *runlog.StageLog, rows, skipped int, stageErr error) error
}

// Paths are the workbooks stages hand off through
type Paths struct {
	Odds        string
	Enriched    string
	Labeled     string
	Predictions string
	Picks       string
	Model       string
}

// Deps are the collaborators of a run. Notifier, Publisher, Store, Dedup and Runs may be nil.
type Deps struct {
	Odds        OddsSource
	NewEnricher func(asOf time.Time) Enricher
	Labeler     Labeler
	Model       Model
	Selector    *selector.Selector
	Notifier    notifier.Notifier
	Publisher   Publisher
	Store       SelectionStore
	Dedup       Deduper
	Runs        RunRecorder
}

// Options control a run
type Options struct {
	Stages      []Stage
	Paths       Paths
	Params      model.Params
	Incremental bool
}

// StageResult is the outcome of one stage
type StageResult struct {
	Stage    Stage         `json:"stage"`
	Rows     int           `json:"rows"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Note     string        `json:"note,omitempty"`
}

// Report is the outcome of a run
type Report struct {
	RunID     string            `json:"run_id"`
	Date      time.Time         `json:"date"`
	Stages    []StageResult     `json:"stages"`
	Selection *models.Selection `json:"selection,omitempty"`
}

// errSkipped marks a stage that had nothing to do
type errSkipped struct{ reason string }

func (e errSkipped) Error() string { return e.reason }
func (e errSkipped) Skipped() bool { return true }

// Pipeline runs the daily stages in order
type Pipeline struct {
	deps Deps
	opts Options
	log  logrus.FieldLogger
	now  func() time.Time
}

// New creates a new pipeline
func New(deps Deps, opts Options, log logrus.FieldLogger) *Pipeline {
	if len(opts.Stages) == 0 {
		opts.Stages = DefaultStages()
	}
	return &Pipeline{
		deps: deps,
		opts: opts,
		log:  log,
		now:  time.Now,
	}
}

// Run executes every configured stage. A failing stage stops the run; a stage with nothing to do is skipped.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	now := p.now()
	// The local calendar day at UTC midnight, the form workbook and game log dates are read in
	report := Report{
		RunID: uuid.NewString(),
		Date:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	log := p.log.WithField("run_id", report.RunID)
	log.WithField("stages", p.opts.Stages).Info("starting pipeline run")

	for _, stage := range p.opts.Stages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var entry *runlog.StageLog
		if p.deps.Runs != nil {
			var err error
			if entry, err = p.deps.Runs.Start(ctx, report.RunID, string(stage)); err != nil {
				log.WithError(err).Warn("failed to record stage start")
			}
		}

		start := time.Now()
		res := p.runStage(ctx, stage, &report)
		res.Stage = stage
		res.Duration = time.Since(start)
		report.Stages = append(report.Stages, res)

		var skip errSkipped
		skipped := errors.As(res.Err, &skip)
		if entry != nil {
			if err := p.deps.Runs.Finish(ctx, entry, res.Rows, res.Skipped, res.Err); err != nil {
				log.WithError(err).Warn("failed to record stage result")
			}
		}

		fields := logrus.Fields{
			"stage":    stage,
			"rows":     res.Rows,
			"skipped":  res.Skipped,
			"duration": res.Duration.Round(time.Millisecond).String(),
		}
		switch {
		case skipped:
			log.WithFields(fields).WithField("reason", skip.reason).Warn("stage skipped")
		case res.Err != nil:
			log.WithFields(fields).WithError(res.Err).Error("stage failed")
			return report, fmt.Errorf("stage %s: %w", stage, res.Err)
		default:
			log.WithFields(fields).Info("stage complete")
		}
	}

	log.Info("pipeline run complete")
	return report, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, report *Report) StageResult {
	switch stage {
	case StageLabel:
		return p.label(ctx)
	case StageScrape:
		return p.scrape(ctx, report.Date)
	case StageEnrich:
		return p.enrich(ctx, report.Date)
	case StagePredict:
		return p.predict()
	case StageSelect:
		return p.selectBets(ctx, report)
	}
	return StageResult{Err: fmt.Errorf("unknown stage %q", stage)}
}

// label settles the previous run's enriched rows and merges them into the labeled history.
// Running it again over the same workbook leaves the history unchanged.
func (p *Pipeline) label(ctx context.Context) StageResult {
	if p.deps.Labeler == nil {
		return StageResult{Err: errSkipped{"no outcome source configured"}}
	}
	if !exists(p.opts.Paths.Enriched) {
		return StageResult{Err: errSkipped{"no enriched workbook to label"}}
	}

	enriched, err := workbook.Read(p.opts.Paths.Enriched)
	if err != nil {
		return StageResult{Err: err}
	}

	history := make(workbook.Sheets)
	if exists(p.opts.Paths.Labeled) {
		if history, err = workbook.Read(p.opts.Paths.Labeled); err != nil {
			return StageResult{Err: err}
		}
	}

	var res StageResult
	for _, market := range models.Markets() {
		rows, summary := p.deps.Labeler.LabelOutcomes(ctx, market, enriched[market])
		history[market] = mergeLabeled(market, history[market], rows)
		res.Rows += summary.Covered + summary.Missed
		res.Skipped += summary.Unknown
	}

	if err := workbook.Write(p.opts.Paths.Labeled, workbook.LayoutLabeled, history); err != nil {
		return StageResult{Err: err}
	}
	return res
}

func (p *Pipeline) scrape(ctx context.Context, date time.Time) StageResult {
	if p.deps.Odds == nil {
		return StageResult{Err: errSkipped{"no odds source configured"}}
	}

	odds, err := p.deps.Odds.ScrapeAll(ctx, date)
	if err != nil {
		return StageResult{Err: err}
	}

	var res StageResult
	for _, rows := range odds {
		res.Rows += len(rows)
	}
	if err := workbook.WriteOdds(p.opts.Paths.Odds, odds); err != nil {
		return StageResult{Err: err}
	}
	return res
}

func (p *Pipeline) enrich(ctx context.Context, date time.Time) StageResult {
	if p.deps.NewEnricher == nil {
		return StageResult{Err: errSkipped{"no enricher configured"}}
	}

	odds, err := workbook.ReadOdds(p.opts.Paths.Odds)
	if err != nil {
		return StageResult{Err: err}
	}

	enricher := p.deps.NewEnricher(date)
	out := make(workbook.Sheets, len(odds))
	var res StageResult
	for _, market := range models.Markets() {
		report := enricher.Enrich(ctx, market, odds[market])
		out[market] = report.Rows()
		res.Rows += report.Succeeded
		res.Skipped += report.Skipped
	}

	if err := workbook.Write(p.opts.Paths.Enriched, workbook.LayoutEnriched, out); err != nil {
		return StageResult{Err: err}
	}
	return res
}

// predict trains on the labeled history when there is one, then scores today's enriched rows
func (p *Pipeline) predict() StageResult {
	if p.deps.Model == nil {
		return StageResult{Err: errSkipped{"no model configured"}}
	}

	var res StageResult
	if exists(p.opts.Paths.Labeled) {
		labeled, err := workbook.Read(p.opts.Paths.Labeled)
		if err != nil {
			return StageResult{Err: err}
		}

		var rows []models.EnrichedRow
		for _, market := range models.Markets() {
			rows = append(rows, labeled[market]...)
		}

		train, err := p.deps.Model.Train(rows, p.opts.Params, p.opts.Incremental)
		switch {
		case errors.Is(err, model.ErrNoLabeledRows):
			res.Note = "no labeled rows"
		case err != nil:
			return StageResult{Err: err}
		default:
			p.log.WithFields(logrus.Fields{
				"samples":     train.Samples,
				"positives":   train.Positives,
				"incremental": train.Incremental,
				"log_loss":    fmt.Sprintf("%.4f", train.LogLoss),
			}).Info("trained model")
			if err := p.deps.Model.Save(p.opts.Paths.Model); err != nil {
				return StageResult{Err: err}
			}
		}
	}

	if !p.deps.Model.Trained() {
		return StageResult{Err: errSkipped{"model has no training data yet"}}
	}

	enriched, err := workbook.Read(p.opts.Paths.Enriched)
	if err != nil {
		return StageResult{Err: err}
	}

	out := make(workbook.Sheets, len(enriched))
	for _, market := range models.Markets() {
		rows, err := p.deps.Model.PredictAll(enriched[market])
		if err != nil {
			return StageResult{Err: fmt.Errorf("predicting %s: %w", market, err)}
		}
		out[market] = rows
		res.Rows += len(rows)
	}

	if err := workbook.Write(p.opts.Paths.Predictions, workbook.LayoutPredictions, out); err != nil {
		return StageResult{Err: err}
	}
	return res
}

// selectBets chooses the day's bets and hands them to every configured outlet
func (p *Pipeline) selectBets(ctx context.Context, report *Report) StageResult {
	if p.deps.Selector == nil {
		return StageResult{Err: errSkipped{"no selector configured"}}
	}
	if !exists(p.opts.Paths.Predictions) {
		return StageResult{Err: errSkipped{"no predictions workbook"}}
	}

	predictions, err := workbook.Read(p.opts.Paths.Predictions)
	if err != nil {
		return StageResult{Err: err}
	}

	var picks []models.Pick
	skipped := 0
	for _, market := range models.Markets() {
		c, s := p.deps.Selector.Candidates(market, predictions[market])
		picks = append(picks, c...)
		skipped += s
	}

	sel, err := p.deps.Selector.Select(report.RunID, picks, skipped)
	if err != nil {
		return StageResult{Err: err}
	}
	report.Selection = &sel

	if err := workbook.WritePicks(p.opts.Paths.Picks, sel); err != nil {
		return StageResult{Err: err}
	}

	res := StageResult{Rows: len(sel.Straight) + len(sel.Parlay), Skipped: skipped}

	if p.deps.Dedup != nil {
		fresh, err := p.deps.Dedup.ShouldAnnounce(ctx, report.Date, sel)
		if err != nil {
			p.log.WithError(err).Warn("dedup check failed, announcing anyway")
		} else if !fresh {
			res.Note = "selection already announced"
			return res
		}
	}

	// Outlets are best effort: a failed announcement does not undo the selection
	if p.deps.Notifier != nil {
		msg := notifier.PicksMessage(selector.Render(sel), report.Date, p.opts.Paths.Picks, p.opts.Paths.Predictions)
		if err := p.deps.Notifier.Notify(ctx, msg); err != nil {
			p.log.WithError(err).Warn("failed to send notification")
		}
	}
	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.PublishSelection(ctx, sel); err != nil {
			p.log.WithError(err).Warn("failed to publish selection")
		}
	}
	if p.deps.Store != nil {
		if id, err := p.deps.Store.WriteSelection(ctx, report.Date, sel); err != nil {
			p.log.WithError(err).Warn("failed to store selection")
		} else {
			p.log.WithField("selection_id", id).Info("stored selection")
		}
	}

	return res
}

// mergeLabeled adds the labeled rows to history. A row already in history for the same
// wager date, player, market and line is replaced; rows without a label are dropped.
func mergeLabeled(market models.MarketType, history, rows []models.EnrichedRow) []models.EnrichedRow {
	index := make(map[string]int, len(history))
	for i, row := range history {
		index[labelKey(market, row)] = i
	}

	for _, row := range rows {
		if !row.Labeled() {
			continue
		}
		key := labelKey(market, row)
		if i, ok := index[key]; ok {
			history[i] = row
			continue
		}
		index[key] = len(history)
		history = append(history, row)
	}
	return history
}

func labelKey(market models.MarketType, row models.EnrichedRow) string {
	date := ""
	if !row.Date.IsZero() {
		date = row.Date.Format("2006-01-02")
	}
	line := models.NotAvailable
	if row.Line.Valid {
		line = fmt.Sprintf("%g", row.Line.Value)
	}
	return strings.Join([]string{date, strings.ToLower(strings.TrimSpace(row.PlayerName)), string(market), line}, "|")
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
