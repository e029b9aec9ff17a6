package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"overseer/internal/exploration"
	"overseer/internal/pregnancy"
	"overseer/internal/training"
)

type TrainingRepo struct{ DB *sql.DB }

func (r *TrainingRepo) Get(ctx context.Context, id string) (training.Training, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM trainings WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return training.Training{}, false, nil
	}
	if err != nil {
		return training.Training{}, false, err
	}
	var t training.Training
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return training.Training{}, false, err
	}
	return t, true, nil
}

func (r *TrainingRepo) ListByVault(ctx context.Context, vaultID string) ([]training.Training, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM trainings WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []training.Training{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var t training.Training
		if err := json.Unmarshal([]byte(doc), &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TrainingRepo) ActiveForDweller(ctx context.Context, dwellerID string) (training.Training, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx,
		`SELECT doc FROM trainings WHERE dweller_id = ? AND status = ? LIMIT 1`,
		dwellerID, string(training.StatusActive)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return training.Training{}, false, nil
	}
	if err != nil {
		return training.Training{}, false, err
	}
	var t training.Training
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return training.Training{}, false, err
	}
	return t, true, nil
}

func (r *TrainingRepo) Create(ctx context.Context, t training.Training) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO trainings (id, vault_id, dweller_id, status, doc) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.VaultID, t.DwellerID, string(t.Status), string(doc))
	return err
}

func (r *TrainingRepo) Update(ctx context.Context, t training.Training) (training.Training, error) {
	doc, err := json.Marshal(t)
	if err != nil {
		return training.Training{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE trainings SET status = ?, doc = ? WHERE id = ?`,
		string(t.Status), string(doc), t.ID)
	return t, err
}

type PregnancyRepo struct{ DB *sql.DB }

func (r *PregnancyRepo) Get(ctx context.Context, id string) (pregnancy.Pregnancy, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM pregnancies WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return pregnancy.Pregnancy{}, false, nil
	}
	if err != nil {
		return pregnancy.Pregnancy{}, false, err
	}
	var p pregnancy.Pregnancy
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return pregnancy.Pregnancy{}, false, err
	}
	return p, true, nil
}

func (r *PregnancyRepo) ListByVault(ctx context.Context, vaultID string) ([]pregnancy.Pregnancy, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM pregnancies WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []pregnancy.Pregnancy{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p pregnancy.Pregnancy
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PregnancyRepo) ActiveForMother(ctx context.Context, motherID string) (pregnancy.Pregnancy, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx,
		`SELECT doc FROM pregnancies WHERE mother_id = ? AND status = ? LIMIT 1`,
		motherID, string(pregnancy.StatusPregnant)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return pregnancy.Pregnancy{}, false, nil
	}
	if err != nil {
		return pregnancy.Pregnancy{}, false, err
	}
	var p pregnancy.Pregnancy
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return pregnancy.Pregnancy{}, false, err
	}
	return p, true, nil
}

func (r *PregnancyRepo) Create(ctx context.Context, p pregnancy.Pregnancy) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO pregnancies (id, vault_id, mother_id, status, doc) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.VaultID, p.MotherID, string(p.Status), string(doc))
	return err
}

func (r *PregnancyRepo) Update(ctx context.Context, p pregnancy.Pregnancy) (pregnancy.Pregnancy, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return pregnancy.Pregnancy{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE pregnancies SET status = ?, doc = ? WHERE id = ?`,
		string(p.Status), string(doc), p.ID)
	return p, err
}

type ExplorationRepo struct{ DB *sql.DB }

func (r *ExplorationRepo) Get(ctx context.Context, id string) (exploration.Exploration, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM explorations WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return exploration.Exploration{}, false, nil
	}
	if err != nil {
		return exploration.Exploration{}, false, err
	}
	var e exploration.Exploration
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return exploration.Exploration{}, false, err
	}
	return e, true, nil
}

func (r *ExplorationRepo) ListByVault(ctx context.Context, vaultID string) ([]exploration.Exploration, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM explorations WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []exploration.Exploration{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var e exploration.Exploration
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExplorationRepo) ActiveForDweller(ctx context.Context, dwellerID string) (exploration.Exploration, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx,
		`SELECT doc FROM explorations WHERE dweller_id = ? AND status = ? LIMIT 1`,
		dwellerID, string(exploration.StatusActive)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return exploration.Exploration{}, false, nil
	}
	if err != nil {
		return exploration.Exploration{}, false, err
	}
	var e exploration.Exploration
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return exploration.Exploration{}, false, err
	}
	return e, true, nil
}

func (r *ExplorationRepo) Create(ctx context.Context, e exploration.Exploration) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO explorations (id, vault_id, dweller_id, status, doc) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.VaultID, e.DwellerID, string(e.Status), string(doc))
	return err
}

func (r *ExplorationRepo) Update(ctx context.Context, e exploration.Exploration) (exploration.Exploration, error) {
	doc, err := json.Marshal(e)
	if err != nil {
		return exploration.Exploration{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE explorations SET status = ?, doc = ? WHERE id = ?`,
		string(e.Status), string(doc), e.ID)
	return e, err
}
