package inkwell

import "context"

// CreateTag inserts a tag; the slug must be unique.
func (s *Store) CreateTag(ctx context.Context, name, slug string) (Tag, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO tags (name, slug) VALUES (?, ?)`, name, slug)
	if err != nil {
		return Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tag{}, err
	}
	return Tag{ID: id, Name: name, Slug: slug}, nil
}

// UpdateTag applies the non-empty fields.
func (s *Store) UpdateTag(ctx context.Context, id int64, name, slug string) (Tag, error) {
	current, err := s.GetTagByID(ctx, id)
	if err != nil {
		return Tag{}, err
	}
	if name != "" {
		current.Name = name
	}
	if slug != "" {
		current.Slug = slug
	}
	_, err = s.db.ExecContext(ctx, `UPDATE tags SET name = ?, slug = ? WHERE id = ?`,
		current.Name, current.Slug, id)
	if err != nil {
		return Tag{}, err
	}
	return current, nil
}

// DeleteTag removes a tag and, via cascade, its post associations.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) GetTagByID(ctx context.Context, id int64) (Tag, error) {
	var t Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name, slug FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Slug)
	return t, err
}

func (s *Store) GetTagBySlug(ctx context.Context, slug string) (Tag, error) {
	var t Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name, slug FROM tags WHERE slug = ?`, slug).
		Scan(&t.ID, &t.Name, &t.Slug)
	return t, err
}

// ListTags returns all tags by name ascending.
func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
