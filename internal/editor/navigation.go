package editor

import (
	"context"
	"fmt"
	"slices"

	"github.com/hammamikhairi/larder/internal/domain"
)

// Next flushes pending edits and moves to the following recipe, wrapping
// to the first.
func (s *Session) Next(ctx context.Context) {
	s.do(ctx, func() error {
		s.move(ctx, +1)
		return nil
	})
}

// Previous flushes pending edits and moves to the preceding recipe,
// wrapping to the last.
func (s *Session) Previous(ctx context.Context) {
	s.do(ctx, func() error {
		s.move(ctx, -1)
		return nil
	})
}

func (s *Session) move(ctx context.Context, step int) {
	s.sweep(ctx)

	n := len(s.recipes)
	i := s.index
	if s.abandonable() && n > 1 {
		s.dropCurrent()
		n--
		if step > 0 {
			s.index = i % n
		} else {
			s.index = wrapBack(i, n)
		}
	} else if step > 0 {
		s.index = (i + 1) % n
	} else {
		s.index = wrapBack(i, n)
	}
	s.enter()
	s.log.Debug("moved to recipe %d/%d", s.index+1, len(s.recipes))
}

func wrapBack(i, n int) int {
	i--
	if i < 0 {
		return n - 1
	}
	return i
}

// abandonable reports whether the current recipe exists only in memory
// and has no usable title. Leaving such a recipe discards it.
func (s *Session) abandonable() bool {
	return s.state == TitleSuspended && s.current().Title == ""
}

func (s *Session) dropCurrent() {
	s.recipes = slices.Delete(s.recipes, s.index, s.index+1)
	s.log.Debug("dropped recipe %d from the session", s.index)
}

// Create flushes pending edits and appends a blank recipe, which starts
// with a suspended title. If the current recipe is already blank and
// untitled it is reused.
func (s *Session) Create(ctx context.Context) {
	s.do(ctx, func() error {
		s.sweep(ctx)
		if s.abandonable() {
			s.enter()
			return nil
		}
		s.recipes = append(s.recipes, domain.NewRecipe())
		s.index = len(s.recipes) - 1
		s.enter()
		s.log.Debug("created blank recipe at %d", s.index)
		return nil
	})
}

// Delete removes the current recipe and its stored rows. The recipe that
// followed it becomes current, wrapping to the first. Deleting the last
// recipe starts the create flow.
func (s *Session) Delete(ctx context.Context) error {
	return s.do(ctx, func() error {
		r := s.current()
		if r.Title != "" {
			err := s.call(ctx, func(ctx context.Context) error { return s.store.DeleteRecipe(ctx, r.Title) })
			if err != nil {
				return s.reportStoreError(fmt.Sprintf("delete %q", r.Title), err)
			}
			s.log.Info("deleted recipe %q", r.Title)
		}

		s.dropCurrent()
		if len(s.recipes) == 0 {
			s.recipes = append(s.recipes, domain.NewRecipe())
			s.index = 0
		} else {
			s.index %= len(s.recipes)
		}
		s.enter()
		s.refreshKnownTags(ctx)
		return nil
	})
}

// Close flushes pending edits before the session ends. An unresolved
// title is abandoned: an untitled recipe is discarded and a colliding
// rename falls back to the stored title.
func (s *Session) Close(ctx context.Context) {
	s.do(ctx, func() error {
		s.sweep(ctx)
		if s.state != TitleSuspended {
			return nil
		}
		if s.abandonable() {
			s.dropCurrent()
			if len(s.recipes) == 0 {
				s.recipes = append(s.recipes, domain.NewRecipe())
			}
			s.index %= len(s.recipes)
		}
		s.enter()
		s.log.Info("abandoned unresolved title on close")
		return nil
	})
}
