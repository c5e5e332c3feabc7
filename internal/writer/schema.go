package writer

// Schema creates the picks tables when they do not exist
const Schema = `
CREATE TABLE IF NOT EXISTS pick_selections (
	id                     BIGSERIAL PRIMARY KEY,
	run_id                 UUID NOT NULL,
	pick_date              DATE NOT NULL,
	budget                 NUMERIC(10, 2) NOT NULL,
	straight_stake         NUMERIC(10, 2) NOT NULL,
	parlay_stake           NUMERIC(10, 2) NOT NULL,
	parlay_decimal_odds    DOUBLE PRECISION NOT NULL,
	expected_parlay_return NUMERIC(10, 2) NOT NULL,
	skipped_no_odds        INTEGER NOT NULL DEFAULT 0,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS prop_picks (
	id                  BIGSERIAL PRIMARY KEY,
	selection_id        BIGINT NOT NULL REFERENCES pick_selections(id),
	run_id              UUID NOT NULL,
	pick_date           DATE NOT NULL,
	kind                TEXT NOT NULL,
	teams               TEXT NOT NULL,
	player_name         TEXT NOT NULL,
	market              TEXT NOT NULL,
	line                DOUBLE PRECISION NOT NULL,
	side                TEXT NOT NULL,
	odds                INTEGER NOT NULL,
	confidence          DOUBLE PRECISION NOT NULL,
	adjusted_confidence DOUBLE PRECISION NOT NULL,
	model_edge          DOUBLE PRECISION NOT NULL,
	stake               NUMERIC(10, 2),
	result              TEXT NOT NULL DEFAULT 'pending',
	settled_at          TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS prop_picks_pending_idx ON prop_picks (pick_date, market) WHERE result = 'pending';
`
