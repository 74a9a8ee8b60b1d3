package notification

import (
	"context"
	"log"
)

// Service serves the two notification feeds. Cache failures are logged and
// absorbed; a broken cache degrades to direct database reads, never to an
// error surfaced at the API.
type Service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns the feed for the space, newest first.
func (s *Service) List(ctx context.Context, space Space, userID string) ([]Notification, error) {
	if space == SpaceAdmin {
		return s.repo.ListAdmin(ctx)
	}
	return s.repo.ListForUser(ctx, userID)
}

// UnreadCount returns the unread badge counter, cached when possible.
func (s *Service) UnreadCount(ctx context.Context, space Space, userID string) (int64, error) {
	key := s.key(space, userID)
	if s.cache != nil {
		if count, ok, err := s.cache.GetUnread(ctx, key); err != nil {
			log.Printf("notification: cache read failed: %v", err)
		} else if ok {
			return count, nil
		}
	}

	var (
		count int64
		err   error
	)
	if space == SpaceAdmin {
		count, err = s.repo.UnreadCountAdmin(ctx)
	} else {
		count, err = s.repo.UnreadCountForUser(ctx, userID)
	}
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetUnread(ctx, key, count); err != nil {
			log.Printf("notification: cache write failed: %v", err)
		}
	}
	return count, nil
}

// MarkRead flips one notification's read flag and invalidates the cached
// counter for the space.
func (s *Service) MarkRead(ctx context.Context, space Space, id, userID string) error {
	if err := s.repo.MarkRead(ctx, space, id, userID); err != nil {
		return err
	}
	s.invalidate(ctx, space, userID)
	return nil
}

// MarkAllRead marks the entire space read and invalidates its counter.
func (s *Service) MarkAllRead(ctx context.Context, space Space, userID string) error {
	if err := s.repo.MarkAllRead(ctx, space, userID); err != nil {
		return err
	}
	s.invalidate(ctx, space, userID)
	return nil
}

// InvalidateUnread drops cached counters after out-of-band writes (the
// complaint status service and the escalation worker insert rows in their own
// transactions).
func (s *Service) InvalidateUnread(ctx context.Context, space Space, userID string) {
	s.invalidate(ctx, space, userID)
}

func (s *Service) invalidate(ctx context.Context, space Space, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, s.key(space, userID)); err != nil {
		log.Printf("notification: cache invalidate failed: %v", err)
	}
}

func (s *Service) key(space Space, userID string) string {
	if space == SpaceAdmin {
		return adminUnreadKey()
	}
	return userUnreadKey(userID)
}
