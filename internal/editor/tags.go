package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hammamikhairi/larder/internal/domain"
)

// tagSlot is one tag input. tag is the committed value, empty for the
// trailing add slot.
type tagSlot struct {
	text string
	tag  string
}

// EditTag replaces the draft text of tag slot i.
func (s *Session) EditTag(i int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.tags) {
		return fmt.Errorf("tag slot %d out of range [0,%d)", i, len(s.tags))
	}
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	s.tags[i].text = text
	return nil
}

// CommitTag reconciles tag slot i with the recipe's tag list and the
// stored tag rows. There is always exactly one trailing blank slot after a
// successful commit.
func (s *Session) CommitTag(ctx context.Context, i int) error {
	return s.do(ctx, func() error {
		if i < 0 || i >= len(s.tags) {
			return fmt.Errorf("tag slot %d out of range [0,%d)", i, len(s.tags))
		}
		return s.commitTag(ctx, i)
	})
}

func (s *Session) commitTag(ctx context.Context, i int) error {
	slot := &s.tags[i]
	text := strings.TrimSpace(slot.text)
	old := slot.tag

	if text == old {
		return nil
	}
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	r := s.current()

	if text == "" {
		err := s.call(ctx, func(ctx context.Context) error { return s.store.DeleteTag(ctx, r.Title, old) })
		if err != nil {
			return s.reportStoreError(fmt.Sprintf("remove tag %q", old), err)
		}
		r.Tags = slices.Delete(r.Tags, i, i+1)
		s.tags = slices.Delete(s.tags, i, i+1)
		s.log.Debug("removed tag %q from %q", old, r.Title)
		s.refreshKnownTags(ctx)
		return nil
	}

	if r.HasTag(text) {
		// Already represented; the slot goes back to what it held.
		slot.text = old
		return nil
	}

	if old != "" {
		err := s.call(ctx, func(ctx context.Context) error { return s.store.DeleteTag(ctx, r.Title, old) })
		if err != nil {
			return s.reportStoreError(fmt.Sprintf("replace tag %q", old), err)
		}
	}
	err := s.call(ctx, func(ctx context.Context) error { return s.store.InsertTag(ctx, r.Title, text) })
	if err != nil && !errors.Is(err, domain.ErrDuplicateKey) {
		return s.reportStoreError(fmt.Sprintf("save tag %q", text), err)
	}

	if i < len(r.Tags) {
		r.Tags[i] = text
	} else {
		r.Tags = append(r.Tags, text)
	}
	slot.tag = text
	if i == len(s.tags)-1 {
		s.tags = append(s.tags, tagSlot{})
	}
	s.log.Debug("tag slot %d of %q set to %q", i, r.Title, text)
	s.refreshKnownTags(ctx)
	return nil
}

// commitAllTags commits every slot, accounting for slots that disappear
// when their tag is cleared.
func (s *Session) commitAllTags(ctx context.Context) {
	for i := 0; i < len(s.tags); {
		before := len(s.tags)
		s.commitTag(ctx, i)
		if len(s.tags) < before {
			continue
		}
		i++
	}
}
