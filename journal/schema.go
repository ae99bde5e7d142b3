package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	symbol TEXT NOT NULL,
	action INTEGER NOT NULL,
	type INTEGER NOT NULL,
	volume REAL NOT NULL,
	price REAL NOT NULL,
	sl REAL NOT NULL,
	tp REAL NOT NULL,
	retcode INTEGER NOT NULL,
	order_ticket INTEGER NOT NULL,
	deal_ticket INTEGER NOT NULL,
	comment TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
`
