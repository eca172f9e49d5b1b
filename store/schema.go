package store

// Decimal columns are stored as TEXT: SQLite REAL would reintroduce the
// binary-float rounding the engines are built to avoid.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
	day TEXT NOT NULL,
	ticker TEXT NOT NULL,
	exchange TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	fee TEXT NOT NULL,
	currency TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_day ON orders(day);

CREATE TABLE IF NOT EXISTS disposals (
	day TEXT NOT NULL,
	ticker TEXT NOT NULL,
	exchange TEXT NOT NULL,
	quantity TEXT NOT NULL,
	proceeds TEXT NOT NULL,
	currency TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_disposals_day ON disposals(day);

CREATE TABLE IF NOT EXISTS actions (
	id TEXT PRIMARY KEY,
	day TEXT NOT NULL,
	type TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_actions_day ON actions(day);

CREATE TABLE IF NOT EXISTS dividends (
	day TEXT NOT NULL,
	ticker TEXT NOT NULL,
	exchange TEXT NOT NULL,
	amount TEXT NOT NULL,
	currency TEXT NOT NULL,
	PRIMARY KEY (day, ticker, exchange)
);

CREATE TABLE IF NOT EXISTS fx_rates (
	day TEXT NOT NULL,
	base TEXT NOT NULL,
	target TEXT NOT NULL,
	rate TEXT NOT NULL,
	PRIMARY KEY (day, base, target)
);

CREATE TABLE IF NOT EXISTS prices (
	day TEXT NOT NULL,
	ticker TEXT NOT NULL,
	exchange TEXT NOT NULL,
	price TEXT NOT NULL,
	currency TEXT NOT NULL,
	PRIMARY KEY (day, ticker, exchange)
);
`
