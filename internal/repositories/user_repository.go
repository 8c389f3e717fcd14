package repositories

import (
	"database/sql"
	"strings"

	"busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) GetUser(id int64) (models.User, error) {
	var u models.User
	err := r.DB.QueryRow(`
		SELECT id, first_name, last_name, email, COALESCE(phone,''), role, status
		FROM users
		WHERE id=?
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) EmailExists(email string) (bool, error) {
	var count int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email=?`, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r UserRepository) CreateUser(u models.User, passwordHash string) (models.User, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users (first_name, last_name, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.FirstName, u.LastName, u.Email, db.NullIfEmpty(u.Phone), passwordHash, u.Role, u.Status)
	if err != nil {
		return models.User{}, err
	}
	u.ID, _ = res.LastInsertId()
	return u, nil
}

func (r UserRepository) DeleteUser(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

func (r UserRepository) ListUsersByIDs(ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.DB.Query(`
		SELECT id, first_name, last_name, email, COALESCE(phone,''), role, status
		FROM users
		WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.Status); err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
