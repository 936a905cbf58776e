package inkwell

import "context"

// GrantPermission records a (user, category) grant and returns it with the
// user and category attached. Granting an existing pair again is a no-op.
func (s *Store) GrantPermission(ctx context.Context, userID, categoryID int64) (Permission, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return Permission{}, err
	}
	category, err := s.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return Permission{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO permissions (user_id, category_id) VALUES (?, ?)`, userID, categoryID); err != nil {
		return Permission{}, err
	}
	return Permission{
		UserID:     userID,
		CategoryID: categoryID,
		User:       &UserRef{ID: user.ID, Username: user.Username},
		Category:   &category,
	}, nil
}

// RevokePermission deletes the grant row; ErrNotFound if it never existed.
func (s *Store) RevokePermission(ctx context.Context, userID, categoryID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM permissions WHERE user_id = ? AND category_id = ?`, userID, categoryID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// HasPermission reports whether a grant row exists. ADMIN principals never
// reach this check.
func (s *Store) HasPermission(ctx context.Context, userID, categoryID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM permissions WHERE user_id = ? AND category_id = ?`,
		userID, categoryID).Scan(&n)
	return n > 0, err
}

// ListUserPermissions returns all grants held by one user.
func (s *Store) ListUserPermissions(ctx context.Context, userID int64) ([]Permission, error) {
	return s.queryPermissions(ctx, `
		SELECT pm.user_id, pm.category_id, u.username, c.name, c.slug
		FROM permissions pm
		JOIN users u ON u.id = pm.user_id
		JOIN categories c ON c.id = pm.category_id
		WHERE pm.user_id = ?`, userID)
}

// ListCategoryPermissions returns all grants over one category.
func (s *Store) ListCategoryPermissions(ctx context.Context, categoryID int64) ([]Permission, error) {
	return s.queryPermissions(ctx, `
		SELECT pm.user_id, pm.category_id, u.username, c.name, c.slug
		FROM permissions pm
		JOIN users u ON u.id = pm.user_id
		JOIN categories c ON c.id = pm.category_id
		WHERE pm.category_id = ?`, categoryID)
}

// ManageableCategories returns the categories a principal may mutate:
// everything for ADMIN, granted categories otherwise.
func (s *Store) ManageableCategories(ctx context.Context, claims Claims) ([]Category, error) {
	if claims.Role == RoleAdmin {
		return s.ListCategories(ctx)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug
		FROM permissions pm JOIN categories c ON c.id = pm.category_id
		WHERE pm.user_id = ? ORDER BY c.name ASC`, claims.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) queryPermissions(ctx context.Context, query string, args ...any) ([]Permission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := []Permission{}
	for rows.Next() {
		var p Permission
		var username, name, slug string
		if err := rows.Scan(&p.UserID, &p.CategoryID, &username, &name, &slug); err != nil {
			return nil, err
		}
		p.User = &UserRef{ID: p.UserID, Username: username}
		p.Category = &Category{ID: p.CategoryID, Name: name, Slug: slug}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
