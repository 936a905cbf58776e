package inkwell

import (
	"context"
	"database/sql"
	"time"
)

var userOrderColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
}

// CreateUser inserts a user with an already-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string, role Role) (User, error) {
	if !role.Valid() {
		role = RoleUser
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, email, passwordHash, role, now)
	if err != nil {
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Username: username, Email: email, Role: role, CreatedAt: now}, nil
}

// UpdateUser applies the non-zero fields. An empty passwordHash keeps the
// current secret.
func (s *Store) UpdateUser(ctx context.Context, id int64, username, email, passwordHash string, role Role) (User, error) {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if username != "" {
		current.Username = username
	}
	if email != "" {
		current.Email = email
	}
	if passwordHash != "" {
		current.PasswordHash = passwordHash
	}
	if role.Valid() {
		current.Role = role
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, role = ? WHERE id = ?`,
		current.Username, current.Email, current.PasswordHash, current.Role, id)
	if err != nil {
		return User{}, err
	}
	return current, nil
}

// DeleteUser removes a user; ErrNotFound if the row does not exist.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = ?`, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at FROM users WHERE username = ?`, username))
}

func (s *Store) ListUsers(ctx context.Context, q ListQuery) ([]User, error) {
	query := `SELECT id, username, email, password_hash, role, created_at FROM users ORDER BY ` +
		orderClause(q, userOrderColumns, "created_at DESC") + limitClause(q)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	u.Role = Role(role)
	return u, nil
}

func scanUserRow(rows *sql.Rows) (User, error) {
	var u User
	var role string
	err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	u.Role = Role(role)
	return u, nil
}

// requireAffected converts a zero-row mutation into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
