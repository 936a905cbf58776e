package inkwell

import "context"

// CreateCategory inserts a category; the slug must be unique.
func (s *Store) CreateCategory(ctx context.Context, name, slug string) (Category, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name, slug) VALUES (?, ?)`, name, slug)
	if err != nil {
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return Category{ID: id, Name: name, Slug: slug}, nil
}

// UpdateCategory applies the non-empty fields.
func (s *Store) UpdateCategory(ctx context.Context, id int64, name, slug string) (Category, error) {
	current, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if name != "" {
		current.Name = name
	}
	if slug != "" {
		current.Slug = slug
	}
	_, err = s.db.ExecContext(ctx, `UPDATE categories SET name = ?, slug = ? WHERE id = ?`,
		current.Name, current.Slug, id)
	if err != nil {
		return Category{}, err
	}
	return current, nil
}

// DeleteCategory removes a category. The foreign key cascades to its posts
// (and from there to post_tags), which is the intended behavior.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.slug, COUNT(p.id)
		FROM categories c LEFT JOIN posts p ON p.category_id = c.id
		WHERE c.id = ? GROUP BY c.id`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.PostCount)
	return c, err
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.slug, COUNT(p.id)
		FROM categories c LEFT JOIN posts p ON p.category_id = c.id
		WHERE c.slug = ? GROUP BY c.id`, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.PostCount)
	return c, err
}

// ListCategories returns all categories with post counts, by name ascending.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, COUNT(p.id)
		FROM categories c LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.PostCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
