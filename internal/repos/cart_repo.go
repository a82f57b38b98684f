package repos

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"megastore/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartItemRow struct {
	Position   int    `db:"position"`
	DocumentID string `db:"document_id"`
	Snapshot   string `db:"snapshot"`
}

// Load returns the stored cart for a session, empty when none was saved.
func (r *CartRepo) Load(sessionID string) (*domain.Cart, error) {
	var rows []cartItemRow
	if err := r.db.Select(&rows, `
	  SELECT position, document_id, snapshot
	  FROM cart_items
	  WHERE session_id = ?
	  ORDER BY position
	`, sessionID); err != nil {
		return nil, err
	}

	cart := domain.NewCart()
	for _, row := range rows {
		var p domain.Product
		if err := json.Unmarshal([]byte(row.Snapshot), &p); err != nil {
			return nil, fmt.Errorf("cart item %d (%s): %w", row.Position, row.DocumentID, err)
		}
		cart.Items = append(cart.Items, p)
	}
	return cart, nil
}

// Save replaces the stored lines for a session with cart's lines.
func (r *CartRepo) Save(sessionID string, cart *domain.Cart) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO carts(session_id, updated_at) VALUES(?, ?)
		ON CONFLICT(session_id) DO UPDATE SET updated_at = excluded.updated_at
	`, sessionID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	for i, p := range cart.Items {
		snap, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO cart_items(session_id, position, document_id, snapshot)
			VALUES(?, ?, ?, ?)
		`, sessionID, i, p.DocumentID, string(snap)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Clear drops every line of the session's cart.
func (r *CartRepo) Clear(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE session_id = ?`, sessionID)
	return err
}
