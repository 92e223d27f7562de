package editor

import (
	"context"
	"strings"

	"github.com/hammamikhairi/larder/internal/domain"
)

// AutoSave force-commits every pending edit of the current recipe. The
// title resolves first because child rows are keyed by it; tag and
// ingredient names resolve before the fields that depend on them. Errors
// are reported through the notifier, not returned.
func (s *Session) AutoSave(ctx context.Context) {
	s.do(ctx, func() error {
		s.sweep(ctx)
		return nil
	})
}

func (s *Session) sweep(ctx context.Context) {
	if strings.TrimSpace(s.drafts[domain.FieldTitle]) == "" {
		return
	}

	s.commitTitle(ctx)

	s.commitAllTags(ctx)
	for _, row := range s.rows {
		s.commitIngredientName(ctx, row)
	}

	if s.state == TitleSuspended {
		return
	}

	for _, f := range []domain.Field{
		domain.FieldDuration,
		domain.FieldUnit,
		domain.FieldPortions,
		domain.FieldCategory,
		domain.FieldSteps,
	} {
		s.commitScalar(ctx, f)
	}

	for _, row := range s.rows {
		if !row.controlsEnabled() {
			continue
		}
		s.commitIngredientQuantity(ctx, row)
		s.commitIngredientUnit(ctx, row)
	}

	s.recompute()
}
