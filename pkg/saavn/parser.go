package saavn

import "strconv"

// extractResults digs the result list out of the payload. Deployments differ:
// results may live under "data.results", "data" directly, or "results".
func extractResults(payload map[string]any) []any {
	if data, ok := payload["data"]; ok {
		switch inner := data.(type) {
		case map[string]any:
			if results, ok := inner["results"].([]any); ok {
				return results
			}
		case []any:
			return inner
		}
	}

	if results, ok := payload["results"].([]any); ok {
		return results
	}

	return nil
}

// extractSingle returns the song object of a details response, which may be
// the payload itself, "data" as an object, or the first element of "data".
func extractSingle(payload map[string]any) map[string]any {
	if data, ok := payload["data"]; ok {
		switch inner := data.(type) {
		case map[string]any:
			return inner
		case []any:
			if len(inner) == 0 {
				return nil
			}
			if song, ok := inner[0].(map[string]any); ok {
				return song
			}
			return nil
		}
	}

	if _, ok := payload["id"]; ok {
		return payload
	}

	return nil
}

func parseSongList(raw []any) []Song {
	songs := make([]Song, 0, len(raw))
	for _, item := range raw {
		if data, ok := item.(map[string]any); ok {
			songs = append(songs, parseSong(data))
		}
	}

	return songs
}

func parseSong(data map[string]any) Song {
	thumbnails := parseThumbnails(data["image"])

	var imageURL *string
	if len(thumbnails) > 0 {
		// last entry is the highest quality
		imageURL = &thumbnails[len(thumbnails)-1].URL
	}

	downloadURLs := parseDownloadURLs(data["downloadUrl"])

	var downloadURL *string
	if len(downloadURLs) > 0 {
		downloadURL = &downloadURLs[len(downloadURLs)-1].URL
	}

	simple, detailed, artistsStr := parseArtists(data["artists"])
	if artistsStr == "" {
		artistsStr = asString(data["primaryArtists"])
	}

	name := asString(data["name"])
	if name == "" {
		name = asString(data["title"])
	}
	if name == "" {
		name = "Unknown"
	}

	album := ""
	switch a := data["album"].(type) {
	case map[string]any:
		album = asString(a["name"])
	case string:
		album = a
	}

	return Song{
		Id:              asString(data["id"]),
		Name:            name,
		Artists:         artistsStr,
		Album:           album,
		Duration:        asInt(data["duration"]),
		ImageURL:        imageURL,
		DownloadURL:     downloadURL,
		DownloadURLs:    downloadURLs,
		Thumbnails:      thumbnails,
		ArtistsSimple:   simple,
		ArtistsDetailed: detailed,
		Language:        asStringPtr(data["language"]),
		Year:            asStringPtr(data["year"]),
		PlayCount:       asIntPtr(data["playCount"]),
	}
}

func parseThumbnails(raw any) []Thumbnail {
	var thumbnails []Thumbnail

	switch images := raw.(type) {
	case []any:
		for i, item := range images {
			switch img := item.(type) {
			case map[string]any:
				quality := asString(img["quality"])
				if quality == "" {
					quality = "quality_" + strconv.Itoa(i)
				}
				thumbnails = append(thumbnails, Thumbnail{
					URL:     asString(img["url"]),
					Quality: quality,
				})
			case string:
				thumbnails = append(thumbnails, Thumbnail{
					URL:     img,
					Quality: "quality_" + strconv.Itoa(i),
				})
			}
		}
	case string:
		thumbnails = append(thumbnails, Thumbnail{URL: images, Quality: "default"})
	}

	return thumbnails
}

func parseDownloadURLs(raw any) []SongQuality {
	var urls []SongQuality

	switch links := raw.(type) {
	case []any:
		for _, item := range links {
			switch link := item.(type) {
			case map[string]any:
				u := asString(link["url"])
				if u == "" {
					continue
				}
				urls = append(urls, SongQuality{
					Quality: asString(link["quality"]),
					URL:     u,
					Bitrate: asIntPtr(link["bitrate"]),
				})
			case string:
				urls = append(urls, SongQuality{Quality: "unknown", URL: link})
			}
		}
	case string:
		urls = append(urls, SongQuality{Quality: "default", URL: links})
	}

	return urls
}

func parseArtists(raw any) ([]Artist, []ArtistDetailed, string) {
	switch artists := raw.(type) {
	case map[string]any:
		var simple []Artist
		var detailed []ArtistDetailed

		for _, role := range []string{"primary", "featured"} {
			group, _ := artists[role].([]any)
			for _, item := range group {
				artist, ok := item.(map[string]any)
				if !ok {
					continue
				}

				a := Artist{
					Id:       asString(artist["id"]),
					Name:     asString(artist["name"]),
					Role:     role,
					ImageURL: artistImage(artist["image"]),
				}
				simple = append(simple, a)
				detailed = append(detailed, ArtistDetailed{
					Artist:        a,
					Bio:           asStringPtr(artist["bio"]),
					FollowerCount: asIntPtr(artist["followerCount"]),
					IsVerified:    asBoolPtr(artist["isVerified"]),
					URL:           asStringPtr(artist["url"]),
				})
			}
		}

		names := make([]string, 0, len(simple))
		for _, a := range simple {
			names = append(names, a.Name)
		}

		return simple, detailed, joinComma(names)
	case string:
		return nil, nil, artists
	}

	return nil, nil, ""
}

func artistImage(raw any) *string {
	switch images := raw.(type) {
	case []any:
		if len(images) == 0 {
			return nil
		}
		switch last := images[len(images)-1].(type) {
		case map[string]any:
			return asStringPtr(last["url"])
		case string:
			return &last
		}
	case string:
		return &images
	}

	return nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}

	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}

	return 0
}

func asIntPtr(v any) *int {
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		return &n
	}

	return nil
}

func asBoolPtr(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}
