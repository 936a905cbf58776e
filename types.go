package inkwell

import "time"

// Role is the authority level carried by a user and embedded in session tokens.
// Ordering is USER < EDITOR < ADMIN; ADMIN implicitly holds every category grant.
type Role string

const (
	RoleUser   Role = "USER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// User is an account that can authenticate and, depending on role, manage content.
// PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"-"`
}

// UserRef is the embedded author shape on posts and permissions.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Category groups posts. Deleting a category cascades to its posts.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"postCount,omitempty"`
}

// Tag labels posts through the post_tags join table.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is the core content entity. A nil PublishedAt means draft.
type Post struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content,omitempty"`
	Summary       string     `json:"summary"`
	CoverImageURL string     `json:"coverImageUrl"`
	Author        UserRef    `json:"author"`
	Category      Category   `json:"category"`
	Tags          []Tag      `json:"tags"`
	PublishedAt   *time.Time `json:"publishedAt"`
	Views         int64      `json:"views"`
	ReadTime      int        `json:"readTime"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Published reports whether the post has a publish timestamp.
func (p Post) Published() bool {
	return p.PublishedAt != nil
}

// PostInput is the mutation payload for creating and updating posts.
type PostInput struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Summary       string     `json:"summary"`
	CoverImageURL string     `json:"coverImageUrl"`
	CategoryID    int64      `json:"categoryId"`
	TagIDs        []int64    `json:"tagIds"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// Permission grants one EDITOR-role user management rights over one category.
type Permission struct {
	UserID     int64     `json:"userId"`
	CategoryID int64     `json:"categoryId"`
	User       *UserRef  `json:"user,omitempty"`
	Category   *Category `json:"category,omitempty"`
}

// ArchiveStat is one year's worth of published posts.
type ArchiveStat struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// DashboardStats summarizes content volume for the admin dashboard.
type DashboardStats struct {
	Posts      int   `json:"posts"`
	Categories int   `json:"categories"`
	Tags       int   `json:"tags"`
	Users      int   `json:"users"`
	TotalViews int64 `json:"totalViews"`
}

// ListQuery is the pagination/ordering query accepted by list endpoints.
// Page and Limit must both be positive for paging to apply; OrderBy is
// checked against a per-entity column allow-list before reaching SQL.
type ListQuery struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	OrderBy string `query:"orderBy"`
	Order   string `query:"order"`
}
