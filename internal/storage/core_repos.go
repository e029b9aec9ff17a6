package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"overseer/internal/dweller"
	"overseer/internal/gamestate"
	"overseer/internal/room"
	"overseer/internal/vault"
)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type VaultRepo struct{ DB *sql.DB }

func (r *VaultRepo) Get(ctx context.Context, id string) (vault.Vault, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM vaults WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return vault.Vault{}, false, nil
	}
	if err != nil {
		return vault.Vault{}, false, err
	}
	var v vault.Vault
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return vault.Vault{}, false, err
	}
	return v, true, nil
}

func (r *VaultRepo) List(ctx context.Context) ([]vault.Vault, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT doc FROM vaults ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []vault.Vault{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v vault.Vault
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VaultRepo) Create(ctx context.Context, v vault.Vault) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO vaults (id, doc) VALUES (?, ?)`, v.ID, string(doc))
	return err
}

func (r *VaultRepo) Update(ctx context.Context, v vault.Vault) (vault.Vault, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return vault.Vault{}, err
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE vaults SET doc = ? WHERE id = ?`, string(doc), v.ID)
	return v, err
}

type DwellerRepo struct{ DB *sql.DB }

func (r *DwellerRepo) Get(ctx context.Context, id string) (dweller.Dweller, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM dwellers WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return dweller.Dweller{}, false, nil
	}
	if err != nil {
		return dweller.Dweller{}, false, err
	}
	var d dweller.Dweller
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return dweller.Dweller{}, false, err
	}
	return d, true, nil
}

func (r *DwellerRepo) scanMany(rows *sql.Rows) ([]dweller.Dweller, error) {
	defer rows.Close()
	out := []dweller.Dweller{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var d dweller.Dweller
		if err := json.Unmarshal([]byte(doc), &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DwellerRepo) ListByVault(ctx context.Context, vaultID string) ([]dweller.Dweller, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM dwellers WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	return r.scanMany(rows)
}

func (r *DwellerRepo) ListDead(ctx context.Context) ([]dweller.Dweller, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM dwellers WHERE is_dead = 1 AND is_permanently_dead = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return r.scanMany(rows)
}

func (r *DwellerRepo) CountAlive(ctx context.Context, vaultID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dwellers WHERE vault_id = ? AND is_dead = 0`, vaultID).Scan(&n)
	return n, err
}

func (r *DwellerRepo) Create(ctx context.Context, d dweller.Dweller) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO dwellers (id, vault_id, is_dead, is_permanently_dead, doc) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.VaultID, boolInt(d.IsDead), boolInt(d.IsPermanentlyDead), string(doc))
	return err
}

func (r *DwellerRepo) Update(ctx context.Context, d dweller.Dweller) (dweller.Dweller, error) {
	doc, err := json.Marshal(d)
	if err != nil {
		return dweller.Dweller{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE dwellers SET vault_id = ?, is_dead = ?, is_permanently_dead = ?, doc = ? WHERE id = ?`,
		d.VaultID, boolInt(d.IsDead), boolInt(d.IsPermanentlyDead), string(doc), d.ID)
	return d, err
}

type RoomRepo struct{ DB *sql.DB }

func (r *RoomRepo) Get(ctx context.Context, id string) (room.Room, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM rooms WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return room.Room{}, false, nil
	}
	if err != nil {
		return room.Room{}, false, err
	}
	var rm room.Room
	if err := json.Unmarshal([]byte(doc), &rm); err != nil {
		return room.Room{}, false, err
	}
	return rm, true, nil
}

func (r *RoomRepo) ListByVault(ctx context.Context, vaultID string) ([]room.Room, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM rooms WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []room.Room{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rm room.Room
		if err := json.Unmarshal([]byte(doc), &rm); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *RoomRepo) Create(ctx context.Context, rm room.Room) error {
	doc, err := json.Marshal(rm)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO rooms (id, vault_id, doc) VALUES (?, ?, ?)`, rm.ID, rm.VaultID, string(doc))
	return err
}

func (r *RoomRepo) Update(ctx context.Context, rm room.Room) (room.Room, error) {
	doc, err := json.Marshal(rm)
	if err != nil {
		return room.Room{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE rooms SET vault_id = ?, doc = ? WHERE id = ?`, rm.VaultID, string(doc), rm.ID)
	return rm, err
}

func (r *RoomRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type GameStateRepo struct{ DB *sql.DB }

func (r *GameStateRepo) Get(ctx context.Context, vaultID string) (gamestate.GameState, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx,
		`SELECT doc FROM game_states WHERE vault_id = ?`, vaultID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return gamestate.GameState{}, false, nil
	}
	if err != nil {
		return gamestate.GameState{}, false, err
	}
	var g gamestate.GameState
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return gamestate.GameState{}, false, err
	}
	return g, true, nil
}

func (r *GameStateRepo) List(ctx context.Context) ([]gamestate.GameState, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT doc FROM game_states ORDER BY vault_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []gamestate.GameState{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var g gamestate.GameState
		if err := json.Unmarshal([]byte(doc), &g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GameStateRepo) Create(ctx context.Context, g gamestate.GameState) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO game_states (vault_id, doc) VALUES (?, ?)`, g.VaultID, string(doc))
	return err
}

func (r *GameStateRepo) Update(ctx context.Context, g gamestate.GameState) (gamestate.GameState, error) {
	doc, err := json.Marshal(g)
	if err != nil {
		return gamestate.GameState{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE game_states SET doc = ? WHERE vault_id = ?`, string(doc), g.VaultID)
	return g, err
}
