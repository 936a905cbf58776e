package inkwell

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var postOrderColumns = map[string]string{
	"createdAt":   "p.created_at",
	"updatedAt":   "p.updated_at",
	"publishedAt": "p.published_at",
	"title":       "p.title",
	"views":       "p.views",
}

const postColumns = `p.id, p.title, p.slug, p.summary, p.cover_image_url,
	p.published_at, p.views, p.read_time, p.created_at, p.updated_at,
	u.id, u.username, c.id, c.name, c.slug`

const postFrom = ` FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id`

// CreatePost inserts a post with its tag associations in one transaction.
// The read-time estimate is derived from the content at this point.
func (s *Store) CreatePost(ctx context.Context, in PostInput, authorID int64) (Post, error) {
	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO posts (title, slug, content, summary, cover_image_url,
			category_id, author_id, published_at, read_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Slug, in.Content, in.Summary, in.CoverImageURL,
		in.CategoryID, authorID, in.PublishedAt, EstimateReadTime(in.Content), now, now)
	if err != nil {
		return Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, err
	}
	if err := replaceTags(ctx, tx, id, in.TagIDs); err != nil {
		return Post{}, err
	}
	if err := tx.Commit(); err != nil {
		return Post{}, err
	}
	return s.GetPostByID(ctx, id)
}

// UpdatePost applies the provided fields. Content changes recompute the
// read-time estimate; a non-nil TagIDs slice replaces all tag associations.
func (s *Store) UpdatePost(ctx context.Context, id int64, in PostInput) (Post, error) {
	if _, err := s.GetPostByID(ctx, id); err != nil {
		return Post{}, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if in.Title != "" {
		add("title", in.Title)
	}
	if in.Slug != "" {
		add("slug", in.Slug)
	}
	if in.Content != "" {
		add("content", in.Content)
		add("read_time", EstimateReadTime(in.Content))
	}
	if in.Summary != "" {
		add("summary", in.Summary)
	}
	if in.CoverImageURL != "" {
		add("cover_image_url", in.CoverImageURL)
	}
	if in.CategoryID != 0 {
		add("category_id", in.CategoryID)
	}
	if in.PublishedAt != nil {
		add("published_at", in.PublishedAt)
	}
	args = append(args, id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return Post{}, err
	}
	if in.TagIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
			return Post{}, err
		}
		if err := replaceTags(ctx, tx, id, in.TagIDs); err != nil {
			return Post{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Post{}, err
	}
	return s.GetPostByID(ctx, id)
}

// DeletePost removes a post and its tag associations; the join rows go first
// so no orphans survive a partial failure.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// GetPostByID returns the full post including content.
func (s *Store) GetPostByID(ctx context.Context, id int64) (Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT p.content, `+postColumns+postFrom+` WHERE p.id = ?`, id)

	var p Post
	var publishedAt sql.NullTime
	err := row.Scan(&p.Content, &p.ID, &p.Title, &p.Slug, &p.Summary, &p.CoverImageURL,
		&publishedAt, &p.Views, &p.ReadTime, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Category.ID, &p.Category.Name, &p.Category.Slug)
	if err != nil {
		return Post{}, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	tags, err := s.tagsForPosts(ctx, []int64{p.ID})
	if err != nil {
		return Post{}, err
	}
	p.Tags = tags[p.ID]
	if p.Tags == nil {
		p.Tags = []Tag{}
	}
	return p, nil
}

// ListPosts returns post summaries (no content). With publishedOnly set, only
// posts with a publish timestamp are returned and the default order switches
// to published_at descending.
func (s *Store) ListPosts(ctx context.Context, q ListQuery, publishedOnly bool) ([]Post, error) {
	where, def := "", "p.created_at DESC"
	if publishedOnly {
		where = " WHERE p.published_at IS NOT NULL"
		def = "p.published_at DESC"
	}
	query := `SELECT ` + postColumns + postFrom + where +
		` ORDER BY ` + orderClause(q, postOrderColumns, def) + limitClause(q)
	return s.queryPosts(ctx, query)
}

// ListPostsByCategory returns published posts in one category.
func (s *Store) ListPostsByCategory(ctx context.Context, categoryID int64) ([]Post, error) {
	query := `SELECT ` + postColumns + postFrom +
		` WHERE p.category_id = ? AND p.published_at IS NOT NULL ORDER BY p.published_at DESC`
	return s.queryPosts(ctx, query, categoryID)
}

// ListPostsByTag returns published posts carrying one tag.
func (s *Store) ListPostsByTag(ctx context.Context, tagID int64) ([]Post, error) {
	query := `SELECT ` + postColumns + postFrom +
		` JOIN post_tags pt ON pt.post_id = p.id
		 WHERE pt.tag_id = ? AND p.published_at IS NOT NULL ORDER BY p.published_at DESC`
	return s.queryPosts(ctx, query, tagID)
}

// ListPostsByYear returns published posts whose publish year matches.
func (s *Store) ListPostsByYear(ctx context.Context, year int) ([]Post, error) {
	query := `SELECT ` + postColumns + postFrom +
		` WHERE p.published_at IS NOT NULL
		   AND CAST(strftime('%Y', p.published_at) AS INTEGER) = ?
		 ORDER BY p.published_at DESC`
	return s.queryPosts(ctx, query, year)
}

// ArchiveStatistics groups published posts by publish year, newest year first.
func (s *Store) ArchiveStatistics(ctx context.Context) ([]ArchiveStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%Y', published_at) AS INTEGER) AS year, COUNT(*)
		FROM posts WHERE published_at IS NOT NULL
		GROUP BY year ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []ArchiveStat{}
	for rows.Next() {
		var st ArchiveStat
		if err := rows.Scan(&st.Year, &st.Count); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// IncrementView bumps the post's view counter unless the same client counted
// a view within the throttle window. Returns whether the counter moved.
func (s *Store) IncrementView(ctx context.Context, postID int64, clientAddr string) (bool, error) {
	key := clientAddr + ":" + strconv.FormatInt(postID, 10)
	if !s.views.CheckAndRecord(key) {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = ?`, postID)
	if err != nil {
		return false, err
	}
	if err := requireAffected(res); err != nil {
		return false, err
	}
	return true, nil
}

// Stats returns the dashboard counters in one round-trip per table.
func (s *Store) Stats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE published_at IS NOT NULL),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM tags),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(views), 0) FROM posts WHERE published_at IS NOT NULL)`).
		Scan(&st.Posts, &st.Categories, &st.Tags, &st.Users, &st.TotalViews)
	return st, err
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	ids := []int64{}
	for rows.Next() {
		var p Post
		var publishedAt sql.NullTime
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Summary, &p.CoverImageURL,
			&publishedAt, &p.Views, &p.ReadTime, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.ID, &p.Author.Username, &p.Category.ID, &p.Category.Name, &p.Category.Slug)
		if err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			p.PublishedAt = &t
		}
		p.Tags = []Tag{}
		posts = append(posts, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := s.tagsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if t := tags[posts[i].ID]; t != nil {
			posts[i].Tags = t
		}
	}
	return posts, nil
}

// tagsForPosts loads the tags for a set of posts in one query.
func (s *Store) tagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]Tag, error) {
	if len(postIDs) == 0 {
		return map[int64][]Tag{}, nil
	}
	placeholders := strings.Repeat("?,", len(postIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (%s) ORDER BY t.name ASC`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64][]Tag{}
	for rows.Next() {
		var postID int64
		var t Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out[postID] = append(out[postID], t)
	}
	return out, rows.Err()
}

func replaceTags(ctx context.Context, tx *sql.Tx, postID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}
