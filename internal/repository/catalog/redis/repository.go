// Package redis caches catalog-provider responses. Room state never touches
// Redis; only song lookups do, so a cold or absent cache just means another
// provider round trip.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vibesync/server/internal/repository/catalog"
	"github.com/vibesync/server/pkg/saavn"
)

type repo struct {
	rc  *redis.Client
	exp time.Duration
}

func NewRepo(rc *redis.Client, exp time.Duration) *repo {
	return &repo{
		rc:  rc,
		exp: exp,
	}
}

func (r repo) getSongKey(songId string) string {
	return "catalog:song:" + songId
}

func (r repo) getSearchKey(query string, limit int) string {
	return "catalog:search:" + query + ":" + strconv.Itoa(limit)
}

func (r repo) GetSong(ctx context.Context, songId string) (saavn.Song, error) {
	raw, err := r.rc.Get(ctx, r.getSongKey(songId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return saavn.Song{}, catalog.ErrCacheMiss
		}
		return saavn.Song{}, fmt.Errorf("failed to get cached song: %w", err)
	}

	var song saavn.Song
	if err := json.Unmarshal(raw, &song); err != nil {
		return saavn.Song{}, fmt.Errorf("failed to unmarshal cached song: %w", err)
	}

	return song, nil
}

func (r repo) SetSong(ctx context.Context, song saavn.Song) error {
	raw, err := json.Marshal(song)
	if err != nil {
		return fmt.Errorf("failed to marshal song: %w", err)
	}

	if err := r.rc.Set(ctx, r.getSongKey(song.Id), raw, r.exp).Err(); err != nil {
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}

func (r repo) GetSearch(ctx context.Context, query string, limit int) ([]saavn.Song, error) {
	raw, err := r.rc.Get(ctx, r.getSearchKey(query, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, catalog.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached search: %w", err)
	}

	var songs []saavn.Song
	if err := json.Unmarshal(raw, &songs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached search: %w", err)
	}

	return songs, nil
}

func (r repo) SetSearch(ctx context.Context, query string, limit int, songs []saavn.Song) error {
	raw, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}

	if err := r.rc.Set(ctx, r.getSearchKey(query, limit), raw, r.exp).Err(); err != nil {
		return fmt.Errorf("failed to cache search results: %w", err)
	}

	return nil
}
