package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vibesync/server/internal/repository/catalog"
	"github.com/vibesync/server/pkg/saavn"
)

var (
	ErrSongNotFound    = errors.New("song not found")
	ErrExternalService = errors.New("catalog service unavailable")
)

type iProvider interface {
	Search(ctx context.Context, query string, limit int) ([]saavn.Song, error)
	GetSong(ctx context.Context, songId string) (saavn.Song, error)
	GetSuggestions(ctx context.Context, songId string, limit int) ([]saavn.Song, error)
}

type Cache interface {
	GetSong(ctx context.Context, songId string) (saavn.Song, error)
	SetSong(ctx context.Context, song saavn.Song) error
	GetSearch(ctx context.Context, query string, limit int) ([]saavn.Song, error)
	SetSearch(ctx context.Context, query string, limit int, songs []saavn.Song) error
}

type service struct {
	provider iProvider
	// cache is optional; nil disables caching entirely.
	cache  Cache
	logger *slog.Logger
}

func NewService(provider iProvider, cache Cache, logger *slog.Logger) *service {
	return &service{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}
}

func (s service) SearchSongs(ctx context.Context, query string, limit int) ([]saavn.Song, error) {
	if s.cache != nil {
		songs, err := s.cache.GetSearch(ctx, query, limit)
		if err == nil {
			return songs, nil
		}
		if !errors.Is(err, catalog.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "search cache read failed", "error", err)
		}
	}

	songs, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalService, err)
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, query, limit, songs); err != nil {
			s.logger.WarnContext(ctx, "search cache write failed", "error", err)
		}
	}

	return songs, nil
}

// GetSongDetails resolves a catalog song by id. Absence is ErrSongNotFound;
// provider failure is ErrExternalService.
func (s service) GetSongDetails(ctx context.Context, songId string) (saavn.Song, error) {
	if s.cache != nil {
		song, err := s.cache.GetSong(ctx, songId)
		if err == nil {
			return song, nil
		}
		if !errors.Is(err, catalog.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "song cache read failed", "error", err)
		}
	}

	song, err := s.provider.GetSong(ctx, songId)
	if err != nil {
		if errors.Is(err, saavn.ErrSongNotFound) {
			return saavn.Song{}, ErrSongNotFound
		}
		return saavn.Song{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}

	if s.cache != nil {
		if err := s.cache.SetSong(ctx, song); err != nil {
			s.logger.WarnContext(ctx, "song cache write failed", "error", err)
		}
	}

	return song, nil
}

// GetSuggestions is best effort: provider failures degrade to an empty list
// instead of failing the request.
func (s service) GetSuggestions(ctx context.Context, songId string, limit int) []saavn.Song {
	songs, err := s.provider.GetSuggestions(ctx, songId, limit)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to get suggestions", "song_id", songId, "error", err)
		return []saavn.Song{}
	}

	return songs
}
