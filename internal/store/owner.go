package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/model"
)

type OwnerStore struct {
	db *sql.DB
}

func NewOwnerStore(db *sql.DB) *OwnerStore {
	return &OwnerStore{db: db}
}

func scanOwner(scanner interface{ Scan(...any) error }) (*model.Owner, error) {
	var o model.Owner
	err := scanner.Scan(&o.ID, &o.Email, &o.Name, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const ownerCols = `id, email, name, password_hash, created_at, updated_at`

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts an owner with a fresh id. The id is used as the owner's
// menu id, so it is a uuid rather than a row number.
func (s *OwnerStore) Create(email, name, passwordHash string) (*model.Owner, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO owners (id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		id, normalizeEmail(email), strings.TrimSpace(name), passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert owner: %w", err)
	}
	return s.GetByID(id)
}

func (s *OwnerStore) GetByID(id string) (*model.Owner, error) {
	row := s.db.QueryRow(`SELECT `+ownerCols+` FROM owners WHERE id = ?`, id)
	o, err := scanOwner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return o, nil
}

func (s *OwnerStore) GetByEmail(email string) (*model.Owner, error) {
	row := s.db.QueryRow(`SELECT `+ownerCols+` FROM owners WHERE email = ?`, normalizeEmail(email))
	o, err := scanOwner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get owner by email: %w", err)
	}
	return o, nil
}
