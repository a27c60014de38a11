// Package preset persists named snapshots of the parameter cache. A preset
// only ever contains addresses that had a known value at save time; controls
// the user never touched are silently absent, a limitation inherent to the
// device's set-only protocol.
package preset

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wavekit/synthdeck/internal/param"
)

const schema = `
CREATE TABLE IF NOT EXISTS presets (
	name        TEXT PRIMARY KEY,
	id          TEXT NOT NULL,
	values_json TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);`

// Repository stores presets keyed by name in a SQLite database.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if necessary) the preset database at path.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open preset db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate preset db: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save stores the snapshot under name, overwriting any prior preset with the
// same name.
func (r *Repository) Save(name string, values map[param.Address]uint8) error {
	encoded, err := encodeValues(values)
	if err != nil {
		return fmt.Errorf("save preset %q: %w", name, err)
	}

	_, err = r.db.Exec(`
		INSERT INTO presets (name, id, values_json, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET values_json = excluded.values_json, updated_at = excluded.updated_at`,
		name, uuid.New().String(), encoded, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save preset %q: %w", name, err)
	}
	return nil
}

// List returns all preset names in lexicographic order.
func (r *Repository) List() ([]string, error) {
	rows, err := r.db.Query(`SELECT name FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list presets: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Load returns the stored snapshot for name. A missing name is not an
// error: the second return is false.
func (r *Repository) Load(name string) (map[param.Address]uint8, bool, error) {
	var encoded string
	err := r.db.QueryRow(`SELECT values_json FROM presets WHERE name = ?`, name).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load preset %q: %w", name, err)
	}

	values, err := decodeValues(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("load preset %q: %w", name, err)
	}
	return values, true, nil
}

// Delete removes the preset. Deleting an absent name is a no-op.
func (r *Repository) Delete(name string) error {
	if _, err := r.db.Exec(`DELETE FROM presets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	return nil
}

func encodeValues(values map[param.Address]uint8) (string, error) {
	byKey := make(map[string]uint8, len(values))
	for a, v := range values {
		byKey[strconv.Itoa(int(a))] = v
	}
	data, err := json.Marshal(byKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeValues(encoded string) (map[param.Address]uint8, error) {
	var byKey map[string]uint8
	if err := json.Unmarshal([]byte(encoded), &byKey); err != nil {
		return nil, err
	}
	values := make(map[param.Address]uint8, len(byKey))
	for k, v := range byKey {
		a, err := strconv.Atoi(k)
		if err != nil || a < 0 || a > param.DomainMax {
			return nil, fmt.Errorf("bad address key %q", k)
		}
		values[param.Address(a)] = v
	}
	return values, nil
}
