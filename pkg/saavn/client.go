// Package saavn is a client for the JioSaavn song-catalog API. The upstream
// responses vary in shape between deployments, so the parser normalizes them
// into the fixed Song record.
package saavn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrSongNotFound = errors.New("song not found")
	ErrUnavailable  = errors.New("saavn api unavailable")
)

type SongQuality struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
	Bitrate *int   `json:"bitrate"`
}

type Thumbnail struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Width   *int   `json:"width"`
	Height  *int   `json:"height"`
}

type Artist struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	ImageURL *string `json:"image_url"`
}

type ArtistDetailed struct {
	Artist
	Bio           *string `json:"bio"`
	FollowerCount *int    `json:"follower_count"`
	IsVerified    *bool   `json:"is_verified"`
	URL           *string `json:"url"`
}

// Song is the normalized track record. DownloadURL and ImageURL carry the
// highest-quality entries of DownloadURLs and Thumbnails.
type Song struct {
	Id              string           `json:"id"`
	Name            string           `json:"name"`
	Artists         string           `json:"artists"`
	Album           string           `json:"album"`
	Duration        int              `json:"duration"`
	ImageURL        *string          `json:"image_url"`
	DownloadURL     *string          `json:"download_url"`
	DownloadURLs    []SongQuality    `json:"download_urls"`
	Thumbnails      []Thumbnail      `json:"thumbnails"`
	ArtistsSimple   []Artist         `json:"artists_simplified"`
	ArtistsDetailed []ArtistDetailed `json:"artists_detailed"`
	Language        *string          `json:"language,omitempty"`
	Year            *string          `json:"year,omitempty"`
	PlayCount       *int             `json:"play_count,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c Client) get(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSongNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrUnavailable, err)
	}

	return payload, nil
}

func (c Client) Search(ctx context.Context, query string, limit int) ([]Song, error) {
	payload, err := c.get(ctx, "/api/search/songs", url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}

	return parseSongList(extractResults(payload)), nil
}

// GetSong fetches details for one song. Absence is signalled with
// ErrSongNotFound, distinct from provider failure.
func (c Client) GetSong(ctx context.Context, songId string) (Song, error) {
	payload, err := c.get(ctx, "/api/songs/"+url.PathEscape(songId), nil)
	if err != nil {
		return Song{}, fmt.Errorf("failed to get song: %w", err)
	}

	raw := extractSingle(payload)
	if raw == nil {
		return Song{}, ErrSongNotFound
	}

	return parseSong(raw), nil
}

func (c Client) GetSuggestions(ctx context.Context, songId string, limit int) ([]Song, error) {
	payload, err := c.get(ctx, "/api/songs/"+url.PathEscape(songId)+"/suggestions", url.Values{
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	songs := parseSongList(extractResults(payload))
	if len(songs) > limit {
		songs = songs[:limit]
	}

	return songs, nil
}
