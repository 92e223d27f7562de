package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/recipe"
)

// ImportResult lists what an import did.
type ImportResult struct {
	Imported []string
	Dropped  []string // titles that were blank, already present, or failed to save
}

// Export flushes pending edits and writes every titled recipe.
func (s *Session) Export(ctx context.Context, w io.Writer, format recipe.Format) error {
	return s.do(ctx, func() error {
		s.sweep(ctx)
		var out []*domain.Recipe
		for _, r := range s.recipes {
			if r.Title != "" {
				out = append(out, r)
			}
		}
		if err := recipe.Encode(w, format, out); err != nil {
			return fmt.Errorf("exporting recipes: %w", err)
		}
		s.log.Info("exported %d recipes as %s", len(out), format)
		return nil
	})
}

// Import reads recipes and stores the ones whose title is not taken.
// Colliding recipes are dropped silently. When the current recipe is the
// untitled placeholder and something was imported, the placeholder is
// replaced by the first imported recipe.
func (s *Session) Import(ctx context.Context, r io.Reader, format recipe.Format) (ImportResult, error) {
	var res ImportResult
	batch, err := recipe.Decode(r, format)
	if err != nil {
		return res, fmt.Errorf("importing recipes: %w", err)
	}

	err = s.do(ctx, func() error {
		s.sweep(ctx)
		placeholder := s.abandonable()
		first := len(s.recipes)

		for _, rec := range batch {
			if rec.Title == "" || s.hasTitle(rec.Title) {
				res.Dropped = append(res.Dropped, rec.Title)
				continue
			}
			err := s.call(ctx, func(ctx context.Context) error { return s.store.InsertRecipe(ctx, rec) })
			if err != nil {
				if !errors.Is(err, domain.ErrDuplicateKey) {
					s.reportStoreError(fmt.Sprintf("import %q", rec.Title), err)
				}
				res.Dropped = append(res.Dropped, rec.Title)
				continue
			}
			s.recipes = append(s.recipes, rec)
			res.Imported = append(res.Imported, rec.Title)
		}

		if placeholder && len(res.Imported) > 0 {
			s.dropCurrent()
			s.index = first - 1
			s.enter()
		}
		s.refreshKnownTags(ctx)
		s.log.Info("imported %d recipes, dropped %d", len(res.Imported), len(res.Dropped))
		return nil
	})
	return res, err
}

func (s *Session) hasTitle(title string) bool {
	for _, r := range s.recipes {
		if r.Title == title {
			return true
		}
	}
	return false
}
