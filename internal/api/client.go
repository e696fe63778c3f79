package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"credit-sync/internal/model"
)

// DefaultBaseURL is the streaming catalog API root.
const DefaultBaseURL = "https://api.tidal.com/v1"

const creditsPageSize = 100

// Client wraps calls to the streaming catalog API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	countryCode string
}

// New creates an API client. An empty baseURL selects DefaultBaseURL.
func New(httpClient *http.Client, baseURL, token, countryCode string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		countryCode: countryCode,
	}
}

type page[T any] struct {
	Limit              int `json:"limit"`
	Offset             int `json:"offset"`
	TotalNumberOfItems int `json:"totalNumberOfItems"`
	Items              []T `json:"items"`
}

type artistRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type albumRef struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	ReleaseDate string      `json:"releaseDate"`
}

type track struct {
	ID              json.Number `json:"id"`
	Title           string      `json:"title"`
	Artist          artistRef   `json:"artist"`
	Artists         []artistRef `json:"artists"`
	Album           albumRef    `json:"album"`
	StreamStartDate string      `json:"streamStartDate"`
}

type album struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	Copyright string      `json:"copyright"`
}

type creditItem struct {
	Item struct {
		Title string `json:"title"`
	} `json:"item"`
	Type    string         `json:"type"`
	Credits []model.Credit `json:"credits"`
}

// Search returns tracks matching query, best match first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.TrackMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")

	var out page[track]
	if err := c.getJSON(ctx, "/search/tracks", params, &out); err != nil {
		return nil, err
	}

	matches := make([]model.TrackMatch, 0, len(out.Items))
	for _, t := range out.Items {
		matches = append(matches, model.TrackMatch{
			ArtistName: primaryArtist(t),
			TrackName:  t.Title,
			AlbumName:  t.Album.Title,
			AlbumID:    t.Album.ID.String(),
			AlbumYear:  releaseYear(t),
		})
	}
	return matches, nil
}

// Album returns album metadata, including its copyright line.
func (c *Client) Album(ctx context.Context, albumID string) (model.AlbumInfo, error) {
	var out album
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(albumID), nil, &out); err != nil {
		return model.AlbumInfo{}, err
	}
	return model.AlbumInfo{
		ID:        out.ID.String(),
		Title:     out.Title,
		Copyright: out.Copyright,
	}, nil
}

// AlbumCredits returns per-track credits for every track of an album.
func (c *Client) AlbumCredits(ctx context.Context, albumID string) (model.AlbumCredits, error) {
	path := "/albums/" + url.PathEscape(albumID) + "/items/credits"
	var credits model.AlbumCredits

	for offset := 0; ; {
		params := url.Values{}
		params.Set("replace", "true")
		params.Set("includeContributors", "true")
		params.Set("limit", strconv.Itoa(creditsPageSize))
		params.Set("offset", strconv.Itoa(offset))

		var out page[creditItem]
		if err := c.getJSON(ctx, path, params, &out); err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			if item.Type != "" && item.Type != "track" {
				continue
			}
			credits = append(credits, model.TrackCredits{
				TrackTitle: item.Item.Title,
				Credits:    item.Credits,
			})
		}

		offset += len(out.Items)
		if len(out.Items) == 0 || offset >= out.TotalNumberOfItems {
			break
		}
	}
	return credits, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.countryCode != "" {
		params.Set("countryCode", c.countryCode)
	}
	endpoint := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %v: %w", path, err, model.ErrMalformed)
	}

	return nil
}

func primaryArtist(t track) string {
	if name := strings.TrimSpace(t.Artist.Name); name != "" {
		return name
	}
	for _, a := range t.Artists {
		if a.Type == "MAIN" {
			return a.Name
		}
	}
	if len(t.Artists) > 0 {
		return t.Artists[0].Name
	}
	return ""
}

func releaseYear(t track) string {
	for _, date := range []string{t.Album.ReleaseDate, t.StreamStartDate} {
		if len(date) >= 4 {
			return date[:4]
		}
	}
	return ""
}
