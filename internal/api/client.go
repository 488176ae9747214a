// Package api is the typed client for the community site's JSON API.
//
// Every read endpoint the pages poll is one method. The client carries a
// request timeout and a shared rate limiter: several pollers reuse one
// client, and overlapping polls are allowed but must not stampede the
// backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const userAgent = "teawatch/1.0 (+https://github.com/teawcommunity/teawatch)"

// MaxPhotoBytes is the upload size cap enforced before any bytes are sent.
const MaxPhotoBytes = 10 * 1024 * 1024

// Client talks to one community site.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		// Generous: all pollers together stay well under this.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// getJSON performs a rate-limited GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: HTTP %d %s", path, resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Status fetches the connectivity heartbeat.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.getJSON(ctx, "/api/status", nil, &s)
	return s, err
}

// ChatMessages fetches chat entries. With newestID > 0 only entries with a
// strictly greater id are returned; otherwise the most recent page.
func (c *Client) ChatMessages(ctx context.Context, newestID int64) ([]ChatMessage, error) {
	var query url.Values
	if newestID > 0 {
		query = url.Values{"newest_message_id": {strconv.FormatInt(newestID, 10)}}
	}
	var msgs []ChatMessage
	err := c.getJSON(ctx, "/api/chat_messages", query, &msgs)
	return msgs, err
}

// ChatMisc fetches the chat info bubbles.
func (c *Client) ChatMisc(ctx context.Context) (ChatMisc, error) {
	var m ChatMisc
	err := c.getJSON(ctx, "/api/chat_misc", nil, &m)
	return m, err
}

// KillHistory fetches kill entries, incrementally when newestID > 0.
func (c *Client) KillHistory(ctx context.Context, newestID int64) ([]Kill, error) {
	var query url.Values
	if newestID > 0 {
		query = url.Values{"newest_kill_id": {strconv.FormatInt(newestID, 10)}}
	}
	var kills []Kill
	err := c.getJSON(ctx, "/api/kill_history", query, &kills)
	return kills, err
}

// KillsMisc fetches the kill-feed info bubbles.
func (c *Client) KillsMisc(ctx context.Context) (KillsMisc, error) {
	var m KillsMisc
	err := c.getJSON(ctx, "/api/kills_misc", nil, &m)
	return m, err
}

// Players fetches the complete roster snapshot.
func (c *Client) Players(ctx context.Context) ([]Player, error) {
	var players []Player
	err := c.getJSON(ctx, "/api/players", nil, &players)
	return players, err
}

// PlayersMisc fetches the roster info bubbles.
func (c *Client) PlayersMisc(ctx context.Context) (PlayersMisc, error) {
	var m PlayersMisc
	err := c.getJSON(ctx, "/api/players_misc", nil, &m)
	return m, err
}

// Towns fetches the complete town directory snapshot.
func (c *Client) Towns(ctx context.Context) ([]Town, error) {
	var towns []Town
	err := c.getJSON(ctx, "/api/towns", nil, &towns)
	return towns, err
}

// TownsMisc fetches the towns info bubbles.
func (c *Client) TownsMisc(ctx context.Context) (TownsMisc, error) {
	var m TownsMisc
	err := c.getJSON(ctx, "/api/towns_misc", nil, &m)
	return m, err
}

// Leaderboard fetches one stat's leaderboard and assigns 1-based ranks in
// server order.
func (c *Client) Leaderboard(ctx context.Context, kind StatKind, stat string) (Leaderboard, error) {
	path := "/api/get_general_leaderboard/"
	if kind == StatCustom {
		path = "/api/get_custom_stat/"
	}

	var lb Leaderboard
	if err := c.getJSON(ctx, path+url.PathEscape(stat), nil, &lb); err != nil {
		return Leaderboard{}, err
	}
	for i := range lb.Entries {
		lb.Entries[i].Rank = i + 1
	}
	return lb, nil
}

// ShowcaseManifest fetches the photo showcase entries.
func (c *Client) ShowcaseManifest(ctx context.Context) ([]ShowcasePhoto, error) {
	var photos []ShowcasePhoto
	err := c.getJSON(ctx, "/api/showcase_manifest", nil, &photos)
	return photos, err
}

// PlayerSkinPath returns the full-skin endpoint path for a player UUID.
func (c *Client) PlayerSkinPath(uuid string) string {
	return c.baseURL + "/api/player_skin/" + url.PathEscape(uuid)
}

// ShowcaseImagePath returns the image endpoint path for a manifest entry.
func (c *Client) ShowcaseImagePath(imgSrc string) string {
	return c.baseURL + "/api/showcase_img/" + url.PathEscape(imgSrc)
}

// submitError is the error body of a rejected photo submission.
type submitError struct {
	Message string `json:"message"`
}

// SubmitPhoto uploads a photo to the showcase. Files over MaxPhotoBytes are
// rejected before the request is made. On failure the server-supplied
// message is surfaced when present, with a generic fallback otherwise.
func (c *Client) SubmitPhoto(ctx context.Context, filePath, title, date, photographer string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("photo file: %w", err)
	}
	if info.Size() > MaxPhotoBytes {
		return fmt.Errorf("photo file exceeds %dMB limit", MaxPhotoBytes/(1024*1024))
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("photo file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("photo", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	form.WriteField("photo_title", title)
	form.WriteField("photo_date", date)
	form.WriteField("photographer", photographer)
	if err := form.Close(); err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit_photo", &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var serverErr submitError
	if json.NewDecoder(resp.Body).Decode(&serverErr) == nil && serverErr.Message != "" {
		return fmt.Errorf("submit photo: %s", serverErr.Message)
	}
	return fmt.Errorf("failed to submit your photo, please try again later (HTTP %d)", resp.StatusCode)
}
