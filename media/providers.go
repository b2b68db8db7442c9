// Package media resolves a background asset per slide: provider search,
// download, and the multi-tier fallback chain that guarantees every slide
// ends with some renderable background.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"reelsmith/config"
	"reelsmith/types"
)

// Candidate is one search hit from a provider, not yet downloaded.
type Candidate struct {
	Kind       types.MediaKind
	URL        string
	PreviewURL string
	Source     string
	Title      string
	Width      int
	Height     int
	Duration   float64
}

// Provider searches one upstream service for media candidates.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

func newSearchClient() *http.Client {
	return &http.Client{Timeout: config.SearchTimeout}
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search failed: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ── Tenor ────────────────────────────────────────────────────────────────

// Tenor searches Tenor for GIFs, preferring their MP4 renditions.
type Tenor struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewTenor(apiKey string) *Tenor {
	return &Tenor{APIKey: apiKey, BaseURL: "https://tenor.googleapis.com/v2", Client: newSearchClient()}
}

func (t *Tenor) Name() string { return "tenor" }

func (t *Tenor) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if t.APIKey == "" {
		return nil, nil
	}
	params := url.Values{
		"q":             {query},
		"key":           {t.APIKey},
		"client_key":    {"reelsmith"},
		"limit":         {strconv.Itoa(limit)},
		"media_filter":  {"mp4,gif,tinygif"},
		"contentfilter": {"medium"},
	}

	var body struct {
		Results []struct {
			Title        string `json:"title"`
			MediaFormats map[string]struct {
				URL      string  `json:"url"`
				Dims     []int   `json:"dims"`
				Duration float64 `json:"duration"`
			} `json:"media_formats"`
		} `json:"results"`
	}
	if err := getJSON(ctx, t.Client, t.BaseURL+"/search?"+params.Encode(), nil, &body); err != nil {
		return nil, fmt.Errorf("tenor: %w", err)
	}

	var out []Candidate
	for _, item := range body.Results {
		mp4 := item.MediaFormats["mp4"]
		gif := item.MediaFormats["gif"]
		tiny := item.MediaFormats["tinygif"]

		c := Candidate{
			Kind:       types.MediaGIF,
			Source:     "tenor",
			Title:      item.Title,
			URL:        mp4.URL,
			PreviewURL: tiny.URL,
			Duration:   mp4.Duration,
		}
		if len(mp4.Dims) == 2 {
			c.Width, c.Height = mp4.Dims[0], mp4.Dims[1]
		}
		if c.URL == "" {
			c.URL = gif.URL
		}
		if c.URL != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// ── GIPHY ────────────────────────────────────────────────────────────────

// Giphy searches GIPHY for GIFs, preferring their MP4 renditions.
type Giphy struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGiphy(apiKey string) *Giphy {
	return &Giphy{APIKey: apiKey, BaseURL: "https://api.giphy.com/v1", Client: newSearchClient()}
}

func (g *Giphy) Name() string { return "giphy" }

func (g *Giphy) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if g.APIKey == "" {
		return nil, nil
	}
	params := url.Values{
		"api_key": {g.APIKey},
		"q":       {query},
		"limit":   {strconv.Itoa(limit)},
		"rating":  {"g"},
		"lang":    {"ko"},
	}

	var body struct {
		Data []struct {
			Title  string `json:"title"`
			Images struct {
				Original struct {
					MP4    string `json:"mp4"`
					URL    string `json:"url"`
					Width  string `json:"width"`
					Height string `json:"height"`
				} `json:"original"`
				FixedWidth struct {
					URL string `json:"url"`
				} `json:"fixed_width"`
			} `json:"images"`
		} `json:"data"`
	}
	if err := getJSON(ctx, g.Client, g.BaseURL+"/gifs/search?"+params.Encode(), nil, &body); err != nil {
		return nil, fmt.Errorf("giphy: %w", err)
	}

	var out []Candidate
	for _, item := range body.Data {
		orig := item.Images.Original
		c := Candidate{
			Kind:       types.MediaGIF,
			Source:     "giphy",
			Title:      item.Title,
			URL:        orig.MP4,
			PreviewURL: item.Images.FixedWidth.URL,
		}
		c.Width, _ = strconv.Atoi(orig.Width)
		c.Height, _ = strconv.Atoi(orig.Height)
		if c.URL == "" {
			c.URL = orig.URL
		}
		if c.URL != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// ── Pexels ───────────────────────────────────────────────────────────────

// Pexels searches Pexels for portrait video clips, picking the best HD file
// per hit.
type Pexels struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewPexels(apiKey string) *Pexels {
	return &Pexels{APIKey: apiKey, BaseURL: "https://api.pexels.com/videos", Client: newSearchClient()}
}

func (p *Pexels) Name() string { return "pexels" }

func (p *Pexels) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if p.APIKey == "" {
		return nil, nil
	}
	params := url.Values{
		"query":       {query},
		"per_page":    {strconv.Itoa(limit)},
		"orientation": {"portrait"},
		"size":        {"medium"},
	}

	var body struct {
		Videos []struct {
			Duration   float64 `json:"duration"`
			Image      string  `json:"image"`
			VideoFiles []struct {
				Link    string `json:"link"`
				Quality string `json:"quality"`
				Width   int    `json:"width"`
				Height  int    `json:"height"`
			} `json:"video_files"`
		} `json:"videos"`
	}
	headers := map[string]string{"Authorization": p.APIKey}
	if err := getJSON(ctx, p.Client, p.BaseURL+"/search?"+params.Encode(), headers, &body); err != nil {
		return nil, fmt.Errorf("pexels: %w", err)
	}

	var out []Candidate
	for _, v := range body.Videos {
		bestIdx := -1
		for i, f := range v.VideoFiles {
			if (f.Quality == "hd" || f.Quality == "sd") && f.Height >= 720 {
				if bestIdx < 0 || f.Height > v.VideoFiles[bestIdx].Height {
					bestIdx = i
				}
			}
		}
		if bestIdx < 0 && len(v.VideoFiles) > 0 {
			bestIdx = 0
		}
		if bestIdx < 0 {
			continue
		}
		f := v.VideoFiles[bestIdx]
		out = append(out, Candidate{
			Kind:       types.MediaVideo,
			Source:     "pexels",
			URL:        f.Link,
			PreviewURL: v.Image,
			Width:      f.Width,
			Height:     f.Height,
			Duration:   v.Duration,
		})
	}
	return out, nil
}

// ── Unsplash ─────────────────────────────────────────────────────────────

// Unsplash searches Unsplash for portrait photos, requesting a 9:16 imgix
// crop of the raw rendition.
type Unsplash struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewUnsplash(apiKey string) *Unsplash {
	return &Unsplash{APIKey: apiKey, BaseURL: "https://api.unsplash.com", Client: newSearchClient()}
}

func (u *Unsplash) Name() string { return "unsplash" }

func (u *Unsplash) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if u.APIKey == "" {
		return nil, nil
	}
	params := url.Values{
		"query":          {query},
		"per_page":       {strconv.Itoa(limit)},
		"orientation":    {"portrait"},
		"content_filter": {"high"},
		"client_id":      {u.APIKey},
	}

	var body struct {
		Results []struct {
			URLs struct {
				Raw     string `json:"raw"`
				Regular string `json:"regular"`
				Small   string `json:"small"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := getJSON(ctx, u.Client, u.BaseURL+"/search/photos?"+params.Encode(), nil, &body); err != nil {
		return nil, fmt.Errorf("unsplash: %w", err)
	}

	var out []Candidate
	for _, item := range body.Results {
		link := item.URLs.Regular
		if item.URLs.Raw != "" {
			link = fmt.Sprintf("%s&w=%d&h=%d&fit=crop&crop=entropy&q=85&fm=jpg",
				item.URLs.Raw, config.FrameWidth, config.FrameHeight)
		}
		if link == "" {
			continue
		}
		out = append(out, Candidate{
			Kind:       types.MediaImage,
			Source:     "unsplash",
			URL:        link,
			PreviewURL: item.URLs.Small,
			Title:      item.User.Name,
		})
	}
	return out, nil
}
