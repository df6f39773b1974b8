package postgres

// schemaSQL создает таблицы сервиса объявлений, если их еще нет.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS ads (
	id                   BIGSERIAL PRIMARY KEY,
	title                TEXT NOT NULL,
	description          TEXT NOT NULL DEFAULT '',
	price                DOUBLE PRECISION NOT NULL DEFAULT 0,
	category             TEXT NOT NULL,
	category_id          INTEGER NOT NULL,
	status               TEXT NOT NULL DEFAULT 'pending',
	priority             TEXT NOT NULL DEFAULT 'normal',
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	images               TEXT[] NOT NULL DEFAULT '{}',
	characteristics      JSONB NOT NULL DEFAULT '{}'::jsonb,
	seller_id            BIGINT NOT NULL,
	seller_name          TEXT NOT NULL,
	seller_rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
	seller_total_ads     INTEGER NOT NULL DEFAULT 0,
	seller_registered_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ads_status_idx ON ads (status);
CREATE INDEX IF NOT EXISTS ads_category_idx ON ads (category_id);

CREATE TABLE IF NOT EXISTS moderation_history (
	id             UUID PRIMARY KEY,
	ad_id          BIGINT NOT NULL REFERENCES ads (id),
	moderator_id   BIGINT NOT NULL,
	moderator_name TEXT NOT NULL,
	action         TEXT NOT NULL,
	reason         TEXT,
	comment        TEXT,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS moderation_history_ad_idx ON moderation_history (ad_id, created_at);
CREATE INDEX IF NOT EXISTS moderation_history_created_idx ON moderation_history (created_at);
`
