package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"overseer/internal/incident"
	"overseer/internal/quest"
	"overseer/internal/relationship"
)

type IncidentRepo struct{ DB *sql.DB }

func (r *IncidentRepo) Get(ctx context.Context, id string) (incident.Incident, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM incidents WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return incident.Incident{}, false, nil
	}
	if err != nil {
		return incident.Incident{}, false, err
	}
	var inc incident.Incident
	if err := json.Unmarshal([]byte(doc), &inc); err != nil {
		return incident.Incident{}, false, err
	}
	return inc, true, nil
}

func (r *IncidentRepo) list(ctx context.Context, query string, args ...any) ([]incident.Incident, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []incident.Incident{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var inc incident.Incident
		if err := json.Unmarshal([]byte(doc), &inc); err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (r *IncidentRepo) ListByVault(ctx context.Context, vaultID string) ([]incident.Incident, error) {
	return r.list(ctx, `SELECT doc FROM incidents WHERE vault_id = ? ORDER BY id`, vaultID)
}

func (r *IncidentRepo) ListLive(ctx context.Context, vaultID string) ([]incident.Incident, error) {
	return r.list(ctx,
		`SELECT doc FROM incidents WHERE vault_id = ? AND status IN (?, ?) ORDER BY id`,
		vaultID, string(incident.StatusActive), string(incident.StatusSpreading))
}

func (r *IncidentRepo) Create(ctx context.Context, inc incident.Incident) error {
	doc, err := json.Marshal(inc)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO incidents (id, vault_id, status, doc) VALUES (?, ?, ?, ?)`,
		inc.ID, inc.VaultID, string(inc.Status), string(doc))
	return err
}

func (r *IncidentRepo) Update(ctx context.Context, inc incident.Incident) (incident.Incident, error) {
	doc, err := json.Marshal(inc)
	if err != nil {
		return incident.Incident{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE incidents SET status = ?, doc = ? WHERE id = ?`,
		string(inc.Status), string(doc), inc.ID)
	return inc, err
}

type RelationshipRepo struct{ DB *sql.DB }

func (r *RelationshipRepo) scanOne(row *sql.Row) (relationship.Relationship, bool, error) {
	var doc string
	err := row.Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return relationship.Relationship{}, false, nil
	}
	if err != nil {
		return relationship.Relationship{}, false, err
	}
	var rel relationship.Relationship
	if err := json.Unmarshal([]byte(doc), &rel); err != nil {
		return relationship.Relationship{}, false, err
	}
	return rel, true, nil
}

func (r *RelationshipRepo) Get(ctx context.Context, id string) (relationship.Relationship, bool, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, `SELECT doc FROM relationships WHERE id = ?`, id))
}

func (r *RelationshipRepo) GetPair(ctx context.Context, a, b string) (relationship.Relationship, bool, error) {
	a, b = relationship.PairKey(a, b)
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT doc FROM relationships WHERE dweller_a_id = ? AND dweller_b_id = ?`, a, b))
}

func (r *RelationshipRepo) list(ctx context.Context, query string, args ...any) ([]relationship.Relationship, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []relationship.Relationship{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rel relationship.Relationship
		if err := json.Unmarshal([]byte(doc), &rel); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func (r *RelationshipRepo) ListByVault(ctx context.Context, vaultID string) ([]relationship.Relationship, error) {
	return r.list(ctx, `SELECT doc FROM relationships WHERE vault_id = ? ORDER BY id`, vaultID)
}

func (r *RelationshipRepo) ListForDweller(ctx context.Context, dwellerID string) ([]relationship.Relationship, error) {
	return r.list(ctx,
		`SELECT doc FROM relationships WHERE dweller_a_id = ? OR dweller_b_id = ? ORDER BY id`,
		dwellerID, dwellerID)
}

func (r *RelationshipRepo) Create(ctx context.Context, rel relationship.Relationship) error {
	doc, err := json.Marshal(rel)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO relationships (id, vault_id, dweller_a_id, dweller_b_id, doc) VALUES (?, ?, ?, ?, ?)`,
		rel.ID, rel.VaultID, rel.DwellerAID, rel.DwellerBID, string(doc))
	return err
}

func (r *RelationshipRepo) Update(ctx context.Context, rel relationship.Relationship) (relationship.Relationship, error) {
	doc, err := json.Marshal(rel)
	if err != nil {
		return relationship.Relationship{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE relationships SET doc = ? WHERE id = ?`, string(doc), rel.ID)
	return rel, err
}

func (r *RelationshipRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
	return err
}

type QuestRepo struct{ DB *sql.DB }

func (r *QuestRepo) GetQuest(ctx context.Context, id string) (quest.Quest, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM quests WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return quest.Quest{}, false, nil
	}
	if err != nil {
		return quest.Quest{}, false, err
	}
	var q quest.Quest
	if err := json.Unmarshal([]byte(doc), &q); err != nil {
		return quest.Quest{}, false, err
	}
	return q, true, nil
}

func (r *QuestRepo) ListQuestsByVault(ctx context.Context, vaultID string) ([]quest.Quest, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM quests WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []quest.Quest{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var q quest.Quest
		if err := json.Unmarshal([]byte(doc), &q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *QuestRepo) CreateQuest(ctx context.Context, q quest.Quest) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO quests (id, vault_id, doc) VALUES (?, ?, ?)`, q.ID, q.VaultID, string(doc))
	return err
}

func (r *QuestRepo) UpdateQuest(ctx context.Context, q quest.Quest) (quest.Quest, error) {
	doc, err := json.Marshal(q)
	if err != nil {
		return quest.Quest{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE quests SET doc = ? WHERE id = ?`, string(doc), q.ID)
	return q, err
}

func (r *QuestRepo) GetChain(ctx context.Context, id string) (quest.Chain, bool, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM quest_chains WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return quest.Chain{}, false, nil
	}
	if err != nil {
		return quest.Chain{}, false, err
	}
	var c quest.Chain
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return quest.Chain{}, false, err
	}
	return c, true, nil
}

func (r *QuestRepo) ListChainsByVault(ctx context.Context, vaultID string) ([]quest.Chain, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT doc FROM quest_chains WHERE vault_id = ? ORDER BY id`, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []quest.Chain{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var c quest.Chain
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *QuestRepo) CreateChain(ctx context.Context, c quest.Chain) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO quest_chains (id, vault_id, doc) VALUES (?, ?, ?)`, c.ID, c.VaultID, string(doc))
	return err
}

func (r *QuestRepo) UpdateChain(ctx context.Context, c quest.Chain) (quest.Chain, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return quest.Chain{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE quest_chains SET doc = ? WHERE id = ?`, string(doc), c.ID)
	return c, err
}
