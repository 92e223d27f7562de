package editor

import (
	"testing"

	"github.com/hammamikhairi/larder/internal/domain"
)

func TestNavigationWraps(t *testing.T) {
	s, _, _, ctx := setupSession(t, recipeNamed("A"), recipeNamed("B"), recipeNamed("C"))

	s.Next(ctx)
	s.Next(ctx)
	if s.Index() != 2 {
		t.Fatalf("expected index 2, got %d", s.Index())
	}
	s.Next(ctx)
	if s.Index() != 0 {
		t.Errorf("next from last: index %d, want 0", s.Index())
	}
	s.Previous(ctx)
	if s.Index() != 2 {
		t.Errorf("previous from first: index %d, want 2", s.Index())
	}
	if got := s.Snapshot().Title; got != "C" {
		t.Errorf("title draft = %q, want C", got)
	}
}

func TestNavigationFlushesDrafts(t *testing.T) {
	s, store, _, ctx := setupSession(t, recipeNamed("A"), recipeNamed("B"))

	s.Edit(domain.FieldSteps, "Bake.")
	s.Next(ctx)
	if got := storedRecipes(t, store)[0].Steps; got != "Bake." {
		t.Errorf("steps not flushed on navigation: %q", got)
	}
}

func TestCreateStartsSuspended(t *testing.T) {
	s, _, _, ctx := setupSession(t, recipeNamed("A"), recipeNamed("B"))

	s.Create(ctx)
	if s.Index() != 2 || s.State() != TitleSuspended {
		t.Fatalf("index=%d state=%s", s.Index(), s.State())
	}
	// A second create reuses the blank recipe.
	s.Create(ctx)
	if n := len(s.Recipes()); n != 3 {
		t.Errorf("expected 3 recipes, got %d", n)
	}

	// Leaving the untitled recipe discards it.
	s.Next(ctx)
	if n := len(s.Recipes()); n != 2 {
		t.Errorf("expected untitled recipe discarded, got %d recipes", n)
	}
	if s.Index() != 0 {
		t.Errorf("index = %d, want 0", s.Index())
	}
}

func TestCreateThenTitle(t *testing.T) {
	s, store, _, ctx := setupSession(t, recipeNamed("A"))

	s.Create(ctx)
	s.Edit(domain.FieldTitle, "Fresh")
	s.AutoSave(ctx)
	if s.State() != Editable {
		t.Fatalf("state = %s", s.State())
	}
	if stored := storedRecipes(t, store); len(stored) != 2 || stored[1].Title != "Fresh" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestDeleteMovesToFollowingRecipe(t *testing.T) {
	s, store, _, ctx := setupSession(t, recipeNamed("A"), recipeNamed("B"), recipeNamed("C"))

	s.Next(ctx)
	if err := s.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := s.Current().Title; got != "C" || s.Index() != 1 {
		t.Errorf("current = %q at %d, want C at 1", got, s.Index())
	}

	s.Delete(ctx)
	if got := s.Current().Title; got != "A" || s.Index() != 0 {
		t.Errorf("deleting the last wraps: current = %q at %d", got, s.Index())
	}
	if stored := storedRecipes(t, store); len(stored) != 1 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestDeleteToEmptyCreates(t *testing.T) {
	s, store, _, ctx := setupSession(t, recipeNamed("Only", "Salt"))

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	recipes := s.Recipes()
	if len(recipes) != 1 || recipes[0].Title != "" {
		t.Fatalf("expected one blank recipe, got %+v", recipes)
	}
	if s.State() != TitleSuspended {
		t.Errorf("state = %s", s.State())
	}
	if stored := storedRecipes(t, store); len(stored) != 0 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCloseAbandonsUnresolvedTitle(t *testing.T) {
	t.Run("untitled", func(t *testing.T) {
		s, _, _, ctx := setupSession(t, recipeNamed("A"))
		s.Create(ctx)
		s.Close(ctx)
		if n := len(s.Recipes()); n != 1 {
			t.Errorf("expected untitled recipe discarded, got %d", n)
		}
	})
	t.Run("colliding rename", func(t *testing.T) {
		s, store, _, ctx := setupSession(t, recipeNamed("A"), recipeNamed("B"))
		s.Next(ctx)
		s.Edit(domain.FieldTitle, "A")
		s.Commit(ctx, domain.FieldTitle)
		s.Close(ctx)
		if s.State() != Editable || s.Snapshot().Title != "B" {
			t.Errorf("state=%s title=%q", s.State(), s.Snapshot().Title)
		}
		if stored := storedRecipes(t, store); len(stored) != 2 {
			t.Errorf("stored = %+v", stored)
		}
	})
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	store := newRecordingStore()
	store.failOn("LoadRecipes", domain.ErrStorage)
	notifier := &recordingNotifier{}
	s := New(store, notifier, testLogger(), WithClock(fixedClock))

	if err := s.Load(t.Context()); err == nil {
		t.Fatal("expected load error")
	}
	if recipes := s.Recipes(); len(recipes) != 1 || recipes[0].Title != "" {
		t.Errorf("expected blank recipe, got %+v", recipes)
	}
	if s.State() != TitleSuspended {
		t.Errorf("state = %s", s.State())
	}
	if _, urgent := notifier.counts(); urgent != 1 {
		t.Errorf("expected urgent notification, got %d", urgent)
	}
}
