package database

import (
	"context"
	"errors"
	"testing"
)

func TestCreateKeywordIsCaseInsensitiveUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewKeywordRepository(newTestDB(t))

	kw, created, err := repo.CreateKeyword(ctx, "Budget")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !created {
		t.Error("Expected keyword to be created")
	}

	again, created, err := repo.CreateKeyword(ctx, " budget ")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created {
		t.Error("Expected differently cased keyword to be treated as existing")
	}
	if again.ID != kw.ID || again.Text != "Budget" {
		t.Errorf("Expected existing keyword %d 'Budget', got %d '%s'", kw.ID, again.ID, again.Text)
	}

	keywords, err := repo.ListKeywords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keywords) != 1 {
		t.Errorf("Expected 1 keyword, got %d", len(keywords))
	}
}

func TestCreateKeywordRejectsEmpty(t *testing.T) {
	repo := NewKeywordRepository(newTestDB(t))

	if _, _, err := repo.CreateKeyword(context.Background(), "  "); !errors.Is(err, ErrEmptyKeyword) {
		t.Errorf("Expected ErrEmptyKeyword, got: %v", err)
	}
}

func TestDeleteKeyword(t *testing.T) {
	ctx := context.Background()
	repo := NewKeywordRepository(newTestDB(t))

	first, _, _ := repo.CreateKeyword(ctx, "election")
	second, _, _ := repo.CreateKeyword(ctx, "budget")

	if err := repo.DeleteKeyword(ctx, first.ID); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := repo.DeleteKeyword(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got: %v", err)
	}

	keywords, err := repo.ListKeywords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keywords) != 1 || keywords[0].ID != second.ID {
		t.Errorf("Expected only keyword %d to remain, got %+v", second.ID, keywords)
	}

	third, _, _ := repo.CreateKeyword(ctx, "election")
	if third.ID <= second.ID {
		t.Errorf("Expected new id above %d, got %d", second.ID, third.ID)
	}
}
