package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/equiptrack/inventory-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredential(email string) (*auth.Credential, error) {
	query := `SELECT id, email, name, role, password_hash, is_active FROM users WHERE email = ?`
	return r.scanCredential(r.db.Raw(query, email).Row())
}

func (r *Repository) GetCredentialByUserID(userID int64) (*auth.Credential, error) {
	query := `SELECT id, email, name, role, password_hash, is_active FROM users WHERE id = ?`
	return r.scanCredential(r.db.Raw(query, userID).Row())
}

func (r *Repository) scanCredential(row *sql.Row) (*auth.Credential, error) {
	var cred auth.Credential
	if err := row.Scan(&cred.UserID, &cred.Email, &cred.Name, &cred.Role, &cred.PasswordHash, &cred.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &cred, nil
}

func (r *Repository) UpdatePasswordHash(userID int64, hash string) error {
	query := `UPDATE users SET password_hash = ?, password_changed_at = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	return r.db.Exec(query, hash, now, now, userID).Error
}
