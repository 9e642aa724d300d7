package repos

import (
	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

// EmailRepo is the append-only notification log standing in for a real
// mail transport.
type EmailRepo struct{ db *sqlx.DB }

func NewEmailRepo(db *sqlx.DB) *EmailRepo { return &EmailRepo{db: db} }

func (r *EmailRepo) Append(e domain.EmailRecord) error {
	_, err := r.db.Exec(`
	  INSERT INTO emails(id,recipient,subject,body,created_at)
	  VALUES(?,?,?,?,?)
	`, e.ID, e.To, e.Subject, e.Body, e.CreatedAt)
	return err
}

func (r *EmailRepo) ListByRecipient(to string) ([]domain.EmailRecord, error) {
	out := []domain.EmailRecord{}
	err := r.db.Select(&out, `
	  SELECT id, recipient, subject, body, created_at
	  FROM emails WHERE recipient=? ORDER BY created_at
	`, to)
	return out, err
}
