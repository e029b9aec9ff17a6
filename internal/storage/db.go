// Package storage provides the sqlite-backed repositories. Entities are
// stored as JSON documents with the columns the queries filter on lifted
// out, which keeps the schema stable while models evolve.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the database and applies the schema. WAL with a
// busy timeout suits the single-writer, many-reader shape of the engine.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite is in-process; one writer connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS vaults (
	id   TEXT PRIMARY KEY,
	doc  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS dwellers (
	id                  TEXT PRIMARY KEY,
	vault_id            TEXT NOT NULL,
	is_dead             INTEGER NOT NULL DEFAULT 0,
	is_permanently_dead INTEGER NOT NULL DEFAULT 0,
	doc                 TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dwellers_vault ON dwellers(vault_id);
CREATE INDEX IF NOT EXISTS idx_dwellers_dead ON dwellers(is_dead, is_permanently_dead);
CREATE TABLE IF NOT EXISTS rooms (
	id       TEXT PRIMARY KEY,
	vault_id TEXT NOT NULL,
	doc      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rooms_vault ON rooms(vault_id);
CREATE TABLE IF NOT EXISTS game_states (
	vault_id TEXT PRIMARY KEY,
	doc      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS trainings (
	id         TEXT PRIMARY KEY,
	vault_id   TEXT NOT NULL,
	dweller_id TEXT NOT NULL,
	status     TEXT NOT NULL,
	doc        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trainings_vault ON trainings(vault_id);
CREATE INDEX IF NOT EXISTS idx_trainings_dweller ON trainings(dweller_id, status);
CREATE TABLE IF NOT EXISTS pregnancies (
	id        TEXT PRIMARY KEY,
	vault_id  TEXT NOT NULL,
	mother_id TEXT NOT NULL,
	status    TEXT NOT NULL,
	doc       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pregnancies_vault ON pregnancies(vault_id);
CREATE INDEX IF NOT EXISTS idx_pregnancies_mother ON pregnancies(mother_id, status);
CREATE TABLE IF NOT EXISTS explorations (
	id         TEXT PRIMARY KEY,
	vault_id   TEXT NOT NULL,
	dweller_id TEXT NOT NULL,
	status     TEXT NOT NULL,
	doc        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_explorations_vault ON explorations(vault_id);
CREATE INDEX IF NOT EXISTS idx_explorations_dweller ON explorations(dweller_id, status);
CREATE TABLE IF NOT EXISTS incidents (
	id       TEXT PRIMARY KEY,
	vault_id TEXT NOT NULL,
	status   TEXT NOT NULL,
	doc      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incidents_vault ON incidents(vault_id, status);
CREATE TABLE IF NOT EXISTS relationships (
	id           TEXT PRIMARY KEY,
	vault_id     TEXT NOT NULL,
	dweller_a_id TEXT NOT NULL,
	dweller_b_id TEXT NOT NULL,
	doc          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_relationships_vault ON relationships(vault_id);
CREATE INDEX IF NOT EXISTS idx_relationships_pair ON relationships(dweller_a_id, dweller_b_id);
CREATE TABLE IF NOT EXISTS quests (
	id       TEXT PRIMARY KEY,
	vault_id TEXT NOT NULL,
	doc      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quests_vault ON quests(vault_id);
CREATE TABLE IF NOT EXISTS quest_chains (
	id       TEXT PRIMARY KEY,
	vault_id TEXT NOT NULL,
	doc      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quest_chains_vault ON quest_chains(vault_id);
`
