package repos

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/blake2b"

	"megastore/internal/domain"
)

// fixed width so created_at sorts lexically
const journalTime = "2006-01-02T15:04:05.000000000Z07:00"

// OrderRepo keeps the local journal of checkout attempts.
type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// PhoneDigest fingerprints a phone number so the journal never stores it in clear.
func PhoneDigest(phone string) string {
	sum := blake2b.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:])
}

// Record stores one submission attempt and returns the stored entry.
func (r *OrderRepo) Record(sessionID string, o domain.Order, status string, cause error) (domain.JournalEntry, error) {
	e := domain.JournalEntry{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		ClientName:   o.ClientName,
		PhoneDigest:  PhoneDigest(o.ClientPhone),
		Total:        o.Total,
		OrderDetails: o.OrderDetails,
		Status:       status,
		CreatedAt:    time.Now().UTC().Format(journalTime),
	}
	if cause != nil {
		e.Err = cause.Error()
	}
	_, err := r.db.NamedExec(`
	  INSERT INTO orders
	    (id, session_id, client_name, phone_digest, total, order_details, status, err, created_at)
	  VALUES
	    (:id, :session_id, :client_name, :phone_digest, :total, :order_details, :status, :err, :created_at)
	`, e)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return e, nil
}

// ListBySession returns the session's attempts, newest first.
func (r *OrderRepo) ListBySession(sessionID string) ([]domain.JournalEntry, error) {
	out := []domain.JournalEntry{}
	err := r.db.Select(&out, `
		SELECT id, session_id, client_name, phone_digest, total, order_details, status, err, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) Get(id string) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := r.db.Get(&e, `
		SELECT id, session_id, client_name, phone_digest, total, order_details, status, err, created_at
		FROM orders WHERE id = ?
	`, id)
	return e, err
}
