package app

// migrations are applied in order; the index + 1 is the version number
// recorded in schema_migrations. Never edit an applied migration,
// append a new one.
var migrations = []string{
	// 1: accounts — one row per Discord user
	`
	CREATE TABLE IF NOT EXISTS accounts (
		discord_id     TEXT PRIMARY KEY,
		bebits         BIGINT NOT NULL DEFAULT 0,
		current_streak INTEGER NOT NULL DEFAULT 0,
		last_checkin   TIMESTAMPTZ,
		total_checkins INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_bebits ON accounts (bebits DESC);
	CREATE INDEX IF NOT EXISTS idx_accounts_streak ON accounts (current_streak DESC);
	`,

	// 2: redemptions — append-only ledger of shop purchases
	`
	CREATE TABLE IF NOT EXISTS redemptions (
		id          BIGSERIAL PRIMARY KEY,
		discord_id  TEXT NOT NULL REFERENCES accounts (discord_id),
		reward_id   TEXT NOT NULL,
		reward_name TEXT NOT NULL,
		cost        BIGINT NOT NULL,
		redeemed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_redemptions_discord_id ON redemptions (discord_id);
	`,

	// 3: chat_history — shared rolling conversation with Beboa
	`
	CREATE TABLE IF NOT EXISTS chat_history (
		id         BIGSERIAL PRIMARY KEY,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_chat_history_created_at ON chat_history (created_at);
	`,
}
