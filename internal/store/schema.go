package store

// schema bootstraps the provider tables. Timestamps are stored as unix
// seconds to keep scanning driver-independent.
const schema = `
CREATE TABLE IF NOT EXISTS players (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    team          TEXT NOT NULL,
    position      TEXT NOT NULL,
    price         INTEGER NOT NULL,
    start_price   INTEGER NOT NULL DEFAULT 0,
    breakeven     INTEGER NOT NULL,
    games_played  INTEGER NOT NULL DEFAULT 0,
    average       REAL NOT NULL DEFAULT 0,
    projected     REAL NOT NULL DEFAULT 0,
    consistency   TEXT NOT NULL DEFAULT 'C',
    ownership     REAL NOT NULL DEFAULT 0,
    injury_status TEXT NOT NULL DEFAULT 'healthy',
    price_change  INTEGER NOT NULL DEFAULT 0,
    updated_at    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS player_scores (
    player_id TEXT NOT NULL REFERENCES players(id),
    round     INTEGER NOT NULL,
    score     REAL NOT NULL,
    projected INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (player_id, round)
);

CREATE TABLE IF NOT EXISTS news (
    id           TEXT PRIMARY KEY,
    player_id    TEXT NOT NULL,
    type         TEXT NOT NULL,
    headline     TEXT NOT NULL,
    published_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_news_published ON news(published_at);
CREATE INDEX IF NOT EXISTS idx_news_player ON news(player_id, published_at);

CREATE TABLE IF NOT EXISTS venue_bias (
    venue    TEXT NOT NULL,
    position TEXT NOT NULL,
    bias     REAL NOT NULL DEFAULT 1.0,
    PRIMARY KEY (venue, position)
);

CREATE TABLE IF NOT EXISTS weather (
    venue      TEXT PRIMARY KEY,
    raining    INTEGER NOT NULL DEFAULT 0,
    wind_kph   REAL NOT NULL DEFAULT 0,
    temp_c     REAL NOT NULL DEFAULT 0,
    forecast   TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS dvp (
    team           TEXT NOT NULL,
    position       TEXT NOT NULL,
    points_allowed REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (team, position)
);

CREATE TABLE IF NOT EXISTS live_scores (
    player_id  TEXT NOT NULL,
    round      INTEGER NOT NULL,
    points     INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (player_id, round)
);
CREATE INDEX IF NOT EXISTS idx_live_scores_updated ON live_scores(updated_at);
`
