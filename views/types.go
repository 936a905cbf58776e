package views

// Site holds the site-wide settings every layout render receives.
type Site struct {
	Name        string
	BaseURL     string
	Description string
	Author      string
}

// DocumentProps configures the outer HTML shell.
type DocumentProps struct {
	Title       string
	Description string
	Lang        string
	Styles      []string
	Scripts     []string
	InitialData string // pre-marshaled JSON, empty to skip the bootstrap script
}

// Post is the render shape for a blog post.
type Post struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Summary       string
	CoverImageURL string
	Author        string
	Category      Category
	Tags          []Tag
	PublishedAt   string
	Views         int64
	ReadTime      int
}

type Category struct {
	ID        int64
	Name      string
	Slug      string
	PostCount int
}

type Tag struct {
	ID   int64
	Name string
	Slug string
}

type ArchiveStat struct {
	Year  int
	Count int
}

type DashboardStats struct {
	Posts      int
	Categories int
	Tags       int
	Users      int
	TotalViews int64
}
