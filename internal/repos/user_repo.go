package repos

import (
	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,phone,dark_mode,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,phone,dark_mode,role FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(email, name, hash string) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO users(email,name,password_hash) VALUES(?,?,?)`, email, name, hash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateSettings applies only the fields the caller supplied.
func (r *UserRepo) UpdateSettings(userID int64, phone *string, darkMode *bool) error {
	if phone != nil {
		if _, err := r.DB.Exec(`UPDATE users SET phone=? WHERE id=?`, *phone, userID); err != nil {
			return err
		}
	}
	if darkMode != nil {
		if _, err := r.DB.Exec(`UPDATE users SET dark_mode=? WHERE id=?`, *darkMode, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepo) Addresses(userID int64) ([]domain.Address, error) {
	out := []domain.Address{}
	err := r.DB.Select(&out, `
		SELECT id,user_id,name,phone,street,city,state,zip,created_at
		FROM addresses WHERE user_id=? ORDER BY id`, userID)
	return out, err
}

func (r *UserRepo) AddAddress(a domain.Address) error {
	_, err := r.DB.Exec(`
		INSERT INTO addresses(user_id,name,phone,street,city,state,zip)
		VALUES(?,?,?,?,?,?,?)`,
		a.UserID, a.Name, a.Phone, a.Street, a.City, a.State, a.Zip)
	return err
}

func (r *UserRepo) DeleteAddress(userID, addressID int64) error {
	_, err := r.DB.Exec(`DELETE FROM addresses WHERE user_id=? AND id=?`, userID, addressID)
	return err
}

func (r *UserRepo) BindSession(sid string, userID int64) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.phone,u.dark_mode,u.role
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

func (r *UserRepo) CountUsers() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users`)
	return n, err
}
