package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NumWeaponSlots bounds the slot numbers a section may store.
const NumWeaponSlots = 10

// ErrSectionNotFound is returned when a section has no stored slots.
var ErrSectionNotFound = errors.New("slot section not found")

// Sections is an in-memory snapshot of every stored section, keyed by
// lower-cased section name and then by slot number.
type Sections map[string]map[int]string

// Section returns the slot lists of the named section. Lookup is
// case-insensitive.
//
// Postcondition: ok is false iff no slot of the section is stored.
func (s Sections) Section(name string) (map[int]string, bool) {
	lists, ok := s[strings.ToLower(name)]
	return lists, ok
}

// SlotSectionRepository stores user slot lists in weapon_slot_sections.
type SlotSectionRepository struct {
	db *pgxpool.Pool
}

// NewSlotSectionRepository creates a SlotSectionRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSlotSectionRepository(db *pgxpool.Pool) *SlotSectionRepository {
	return &SlotSectionRepository{db: db}
}

func normalizeSection(section string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(section))
	if s == "" {
		return "", errors.New("section must not be empty")
	}
	return s, nil
}

// Save stores the weapon list of one slot of a section, replacing any list
// already stored for that slot.
//
// Precondition: section must be non-empty; slot must be in [0, NumWeaponSlots).
// Postcondition: Load returns weapons for (section, slot).
func (r *SlotSectionRepository) Save(ctx context.Context, section string, slot int, weapons string) error {
	s, err := normalizeSection(section)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if slot < 0 || slot >= NumWeaponSlots {
		return fmt.Errorf("Save: slot must be 0-%d, got %d", NumWeaponSlots-1, slot)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO weapon_slot_sections (section, slot, weapons)
		VALUES ($1, $2, $3)
		ON CONFLICT (section, slot) DO UPDATE
		SET weapons = EXCLUDED.weapons, updated_at = NOW()`,
		s, slot, weapons,
	)
	if err != nil {
		return fmt.Errorf("Save: upserting %s slot %d: %w", s, slot, err)
	}
	return nil
}

// Delete removes every stored slot of a section.
//
// Postcondition: Returns ErrSectionNotFound if nothing was stored.
func (r *SlotSectionRepository) Delete(ctx context.Context, section string) error {
	s, err := normalizeSection(section)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM weapon_slot_sections WHERE section = $1`, s)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// Load reads every stored section.
//
// Postcondition: Returns a non-nil snapshot, possibly empty, or an error.
func (r *SlotSectionRepository) Load(ctx context.Context) (Sections, error) {
	rows, err := r.db.Query(ctx, `
		SELECT section, slot, weapons
		FROM weapon_slot_sections
		ORDER BY section, slot`)
	if err != nil {
		return nil, fmt.Errorf("Load: querying sections: %w", err)
	}
	defer rows.Close()

	out := Sections{}
	for rows.Next() {
		var (
			section string
			slot    int
			weapons string
		)
		if err := rows.Scan(&section, &slot, &weapons); err != nil {
			return nil, fmt.Errorf("Load: scanning section: %w", err)
		}
		if out[section] == nil {
			out[section] = make(map[int]string)
		}
		out[section][slot] = weapons
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	return out, nil
}
