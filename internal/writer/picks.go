package writer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/settler"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	_ "github.com/lib/pq"
)

// PicksWriter stores daily selections and settles them once outcomes are known
type PicksWriter struct {
	db *sql.DB
}

// NewPicksWriter creates a new picks writer
func NewPicksWriter(db *sql.DB) *PicksWriter {
	return &PicksWriter{
		db: db,
	}
}

// EnsureSchema creates the picks tables
func (w *PicksWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create picks schema: %w", err)
	}
	return nil
}

// WriteSelection writes a selection and its straight and parlay picks
// Returns the selection ID on success
func (w *PicksWriter) WriteSelection(ctx context.Context, date time.Time, sel models.Selection) (int64, error) {
	// Start transaction
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if commit doesn't happen

	selectionQuery := `
		INSERT INTO pick_selections (
			run_id, pick_date, budget, straight_stake, parlay_stake,
			parlay_decimal_odds, expected_parlay_return, skipped_no_odds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var selectionID int64
	err = tx.QueryRowContext(
		ctx,
		selectionQuery,
		sel.RunID,
		date,
		sel.Budget,
		sel.StraightStake,
		sel.ParlayStake,
		sel.ParlayOdds,
		sel.ParlayReturn,
		sel.SkippedNoOdds,
	).Scan(&selectionID)

	if err != nil {
		return 0, fmt.Errorf("failed to insert selection: %w", err)
	}

	pickQuery := `
		INSERT INTO prop_picks (
			selection_id, run_id, pick_date, kind, teams, player_name, market,
			line, side, odds, confidence, adjusted_confidence, model_edge, stake
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	insert := func(kind string, p models.Pick, stake sql.NullString) error {
		_, err := tx.ExecContext(
			ctx,
			pickQuery,
			selectionID,
			sel.RunID,
			date,
			kind,
			p.Teams,
			p.PlayerName,
			string(p.Market),
			p.Line,
			string(p.Side),
			p.Odds(),
			p.Confidence,
			p.AdjustedConfidence,
			p.Edge,
			stake,
		)
		return err
	}

	for _, p := range sel.Straight {
		if err := insert("straight", p, sql.NullString{String: sel.StraightStake, Valid: true}); err != nil {
			return 0, fmt.Errorf("failed to insert straight pick: %w", err)
		}
	}
	// The parlay stake covers every leg together and is recorded on the selection
	for _, p := range sel.Parlay {
		if err := insert("parlay", p, sql.NullString{}); err != nil {
			return 0, fmt.Errorf("failed to insert parlay leg: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return selectionID, nil
}

// SettlePick marks the pending picks matching a labeled row as won or lost
// Returns the number of picks settled
func (w *PicksWriter) SettlePick(ctx context.Context, row models.EnrichedRow) (int64, error) {
	overResult, err := settler.Outcome(models.SideOver, row.Covered)
	if err != nil {
		return 0, err
	}
	underResult, _ := settler.Outcome(models.SideUnder, row.Covered)

	query := `
		UPDATE prop_picks
		SET result = CASE WHEN side = 'Over' THEN $1 ELSE $2 END,
		    settled_at = NOW()
		WHERE pick_date = $3
		  AND LOWER(player_name) = LOWER($4)
		  AND market = $5
		  AND line = $6
		  AND result = 'pending'
	`

	res, err := w.db.ExecContext(ctx, query,
		overResult,
		underResult,
		row.Date,
		row.PlayerName,
		string(row.Market),
		row.Line.Value,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to settle pick: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count settled picks: %w", err)
	}
	return n, nil
}

// LatestSelection reads back the most recent selection with its picks
func (w *PicksWriter) LatestSelection(ctx context.Context) (models.Selection, error) {
	selectionQuery := `
		SELECT id, run_id, budget, straight_stake, parlay_stake,
		       parlay_decimal_odds, expected_parlay_return, skipped_no_odds
		FROM pick_selections
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var id int64
	var sel models.Selection
	err := w.db.QueryRowContext(ctx, selectionQuery).Scan(
		&id,
		&sel.RunID,
		&sel.Budget,
		&sel.StraightStake,
		&sel.ParlayStake,
		&sel.ParlayOdds,
		&sel.ParlayReturn,
		&sel.SkippedNoOdds,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Selection{}, models.ErrNoSelection
		}
		return models.Selection{}, fmt.Errorf("failed to query selection: %w", err)
	}

	picksQuery := `
		SELECT kind, pick_date, teams, player_name, market, line, side, odds,
		       confidence, adjusted_confidence, model_edge
		FROM prop_picks
		WHERE selection_id = $1
		ORDER BY id
	`

	rows, err := w.db.QueryContext(ctx, picksQuery, id)
	if err != nil {
		return models.Selection{}, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, market, side string
		var odds int
		var p models.Pick
		err := rows.Scan(
			&kind,
			&p.Date,
			&p.Teams,
			&p.PlayerName,
			&market,
			&p.Line,
			&side,
			&odds,
			&p.Confidence,
			&p.AdjustedConfidence,
			&p.Edge,
		)
		if err != nil {
			return models.Selection{}, fmt.Errorf("failed to scan pick: %w", err)
		}

		p.Market = models.MarketType(market)
		p.Side = models.Side(side)
		if p.Side == models.SideOver {
			p.OddsOver = odds
			p.Prediction = 1
		} else {
			p.OddsUnder = odds
		}

		switch kind {
		case "straight":
			sel.Straight = append(sel.Straight, p)
		case "parlay":
			sel.Parlay = append(sel.Parlay, p)
		}
	}

	if err := rows.Err(); err != nil {
		return models.Selection{}, fmt.Errorf("error iterating picks: %w", err)
	}

	return sel, nil
}
