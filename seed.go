package inkwell

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Seed populates an empty database with an admin account and starter
// content. It is idempotent: when the admin user already exists it does
// nothing, so running it against a live database is safe.
func (a *App) Seed(ctx context.Context, adminPassword string) error {
	if _, err := a.store.GetUserByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin, err := a.store.CreateUser(ctx, "admin", "admin@example.com", hash, RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	general, err := a.store.CreateCategory(ctx, "General", "general")
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	notes, err := a.store.CreateCategory(ctx, "Notes", "notes")
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	welcome, err := a.store.CreateTag(ctx, "Welcome", "welcome")
	if err != nil {
		return fmt.Errorf("seed tag: %w", err)
	}
	meta, err := a.store.CreateTag(ctx, "Meta", "meta")
	if err != nil {
		return fmt.Errorf("seed tag: %w", err)
	}

	now := time.Now().UTC()
	_, err = a.store.CreatePost(ctx, PostInput{
		Title:       "Hello, world",
		Slug:        "hello-world",
		Summary:     "The first post on this site.",
		Content:     "# Hello\n\nThis site is up and running. Sign in at `/admin/login` to start writing.\n\n- Create categories and tags\n- Grant editors access per category\n- Publish when ready",
		CategoryID:  general.ID,
		TagIDs:      []int64{welcome.ID, meta.ID},
		PublishedAt: &now,
	}, admin.ID)
	if err != nil {
		return fmt.Errorf("seed post: %w", err)
	}

	_, err = a.store.CreatePost(ctx, PostInput{
		Title:      "Draft: editing notes",
		Slug:       "editing-notes",
		Summary:    "An unpublished draft, visible only from the dashboard.",
		Content:    "Drafts have no publish date and never appear on public pages.",
		CategoryID: notes.ID,
		TagIDs:     []int64{meta.ID},
	}, admin.ID)
	if err != nil {
		return fmt.Errorf("seed draft: %w", err)
	}
	return nil
}
