package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// Song is a downloaded (or pending) track as the backend reports it.
// Identity is ID when present, else the (Title, Artist) pair.
// FileAvailable distinguishes "metadata known" from "media on disk".
type Song struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	URL            string `json:"url,omitempty"`
	Date           string `json:"date,omitempty"`
	Cover          string `json:"cover,omitempty"`
	FileAvailable  bool   `json:"file_available"`
	Filename       string `json:"filename,omitempty"`
	CoverAvailable bool   `json:"cover_available"`
}

// SongRef addresses a song for delete/redownload. When ID is set it is the
// only selector used; Title+Artist is the fallback identity for songs the
// backend never assigned an ID.
type SongRef struct {
	ID     string
	Title  string
	Artist string
}

// Ref extracts the addressable identity of s.
func (s Song) Ref() SongRef {
	return SongRef{ID: s.ID, Title: s.Title, Artist: s.Artist}
}

func (r SongRef) query(q url.Values) error {
	if r.ID != "" {
		q.Set("id", r.ID)
		return nil
	}
	if r.Title == "" || r.Artist == "" {
		return errors.New("song ref needs id or title+artist")
	}
	q.Set("title", r.Title)
	q.Set("artist", r.Artist)
	return nil
}

func (c *Client) Songs(ctx context.Context, userID string) ([]Song, error) {
	q := url.Values{}
	q.Set("user_id", userID)

	var res struct {
		Songs []Song `json:"songs"`
	}
	if err := c.getJSON(ctx, "/api/songs", q, "could not load songs", &res); err != nil {
		return nil, err
	}
	return res.Songs, nil
}

// DeleteResult reports what a song deletion actually removed.
type DeleteResult struct {
	Removed      int `json:"removed"`
	AudioDeleted int `json:"audio_deleted"`
	CoverDeleted int `json:"cover_deleted"`
}

func (c *Client) DeleteSong(ctx context.Context, userID string, ref SongRef) (DeleteResult, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	if err := ref.query(q); err != nil {
		return DeleteResult{}, err
	}

	var res DeleteResult
	err := c.do(ctx, http.MethodDelete, "/api/songs", q, nil, "", "could not delete song", &res)
	return res, err
}

// RedownloadResult reports what the backend cleaned up before requeueing.
type RedownloadResult struct {
	Queued      int    `json:"queued"`
	FileDeleted bool   `json:"file_deleted"`
	RequeuedURL string `json:"requeued_url"`
	Forced      bool   `json:"forced"`
}

// Redownload deletes the stored media for a song and queues its URL again.
// With force the backend skips the source-availability probe.
func (c *Client) Redownload(ctx context.Context, userID string, ref SongRef, force bool) (RedownloadResult, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("force", strconv.FormatBool(force))
	if err := ref.query(q); err != nil {
		return RedownloadResult{}, err
	}

	var res RedownloadResult
	err := c.do(ctx, http.MethodPost, "/api/redownload", q, nil, "", "could not requeue song", &res)
	return res, err
}

// CoverURL builds the direct URL for a song's cover image. The caller is
// expected to hand it to whatever renders images; the client never fetches
// covers itself.
func (c *Client) CoverURL(userID string, song Song) string {
	q := url.Values{}
	q.Set("user_id", userID)
	if song.Cover != "" {
		q.Set("filename", song.Cover)
	} else {
		q.Set("id", song.ID)
	}
	return c.endpoint("/api/cover", q)
}

// DownloadURL builds the direct URL for a song's media file.
func (c *Client) DownloadURL(userID, filename string) string {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("filename", filename)
	return c.endpoint("/api/download", q)
}

// FetchMedia streams a media file to destDir and returns the local path.
// This is the terminal-side stand-in for the browser loading DownloadURL
// natively.
func (c *Client) FetchMedia(ctx context.Context, userID, filename, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(userID, filename), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseError(resp, "could not fetch media file")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, filepath.Base(filename))
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("write media file: %w", err)
	}
	return dest, nil
}
