package store

// SchemaVersion is the semantic version of the tables below. Bump the
// minor version for additive changes and the major version for anything
// older binaries cannot read.
const SchemaVersion = "v1.0.0"

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  position INTEGER PRIMARY KEY,
  type TEXT NOT NULL,
  topic TEXT NOT NULL,
  title TEXT NOT NULL,
  wording TEXT NOT NULL,
  choices TEXT NOT NULL DEFAULT '',
  solution TEXT NOT NULL DEFAULT '',
  explanation TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  counter INTEGER NOT NULL DEFAULT 0,
  last TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS questions_topic_type ON questions (topic, type);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  total_questions INTEGER NOT NULL,
  total_points REAL NOT NULL,
  blueprint_json TEXT NOT NULL,
  exports TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS llm_requests (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  model TEXT NOT NULL,
  purpose TEXT NOT NULL,
  input_tokens INTEGER NOT NULL DEFAULT 0,
  output_tokens INTEGER NOT NULL DEFAULT 0,
  latency_ms INTEGER NOT NULL DEFAULT 0,
  success INTEGER NOT NULL,
  error_message TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  position INTEGER PRIMARY KEY,
  type TEXT NOT NULL,
  topic TEXT NOT NULL,
  title TEXT NOT NULL,
  wording TEXT NOT NULL,
  choices TEXT NOT NULL DEFAULT '',
  solution TEXT NOT NULL DEFAULT '',
  explanation TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  counter INTEGER NOT NULL DEFAULT 0,
  last TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS questions_topic_type ON questions (topic, type);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  total_questions INTEGER NOT NULL,
  total_points DOUBLE PRECISION NOT NULL,
  blueprint_json TEXT NOT NULL,
  exports TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS llm_requests (
  id BIGSERIAL PRIMARY KEY,
  provider TEXT NOT NULL,
  model TEXT NOT NULL,
  purpose TEXT NOT NULL,
  input_tokens INTEGER NOT NULL DEFAULT 0,
  output_tokens INTEGER NOT NULL DEFAULT 0,
  latency_ms BIGINT NOT NULL DEFAULT 0,
  success BOOLEAN NOT NULL,
  error_message TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);
`
