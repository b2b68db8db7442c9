package media

import (
	"context"
	"log"
	"strings"

	"reelsmith/config"
	"reelsmith/types"
)

// fallbackQueries always have provider coverage; they are rotated so
// consecutive sourcing failures don't all land on the same background.
var fallbackQueries = []string{
	"health wellness",
	"nature calm",
	"healthy lifestyle",
	"peaceful morning",
}

// GIF search terms carry reaction keywords that pollute photo search; strip
// them before degrading a query to the image provider.
var reactionWords = map[string]bool{
	"reaction": true, "meme": true, "funny": true, "lol": true,
	"shocked": true, "surprised": true, "omg": true, "mind": true,
	"blown": true, "laugh": true, "relatable": true, "mood": true,
	"same": true, "gif": true, "cute": true, "dramatic": true, "cringe": true,
}

// Chain resolves one MediaAsset per slide through an ordered list of
// strategies: preferred providers with the full query, the shortened query,
// then rotating generic queries, terminating in kind none. It never errors.
//
// A Chain's lifetime is one pipeline run: the used-URL set that keeps slides
// visually distinct must not leak across runs.
type Chain struct {
	gifProviders   []Provider
	videoProviders []Provider
	imageProvider  Provider
	downloader     *Downloader

	usedURLs    map[string]bool
	fallbackIdx int
}

// NewChain builds a per-run chain from the configured provider keys.
// Providers without keys return no candidates and are skipped naturally.
func NewChain(keys config.Keys) *Chain {
	return &Chain{
		gifProviders:   []Provider{NewTenor(keys.Tenor), NewGiphy(keys.Giphy)},
		videoProviders: []Provider{NewPexels(keys.Pexels)},
		imageProvider:  NewUnsplash(keys.Unsplash),
		downloader:     NewDownloader(),
		usedURLs:       make(map[string]bool),
	}
}

// NewChainWith wires explicit providers and downloader, mainly for tests.
func NewChainWith(gif, video []Provider, image Provider, d *Downloader) *Chain {
	return &Chain{
		gifProviders:   gif,
		videoProviders: video,
		imageProvider:  image,
		downloader:     d,
		usedURLs:       make(map[string]bool),
	}
}

// Acquire resolves a background asset for one slide. All sourcing failures
// degrade; the terminal result is MediaAsset{Kind: none}.
func (c *Chain) Acquire(ctx context.Context, query string, preferred types.MediaKind) types.MediaAsset {
	if preferred == types.MediaNone {
		return types.MediaAsset{Kind: types.MediaNone}
	}

	queries := []string{query}
	if short := shortenQuery(query); short != "" && short != query {
		queries = append(queries, short)
	}
	n := len(fallbackQueries)
	for i := 0; i < n; i++ {
		queries = append(queries, fallbackQueries[(c.fallbackIdx+i)%n])
	}
	c.fallbackIdx++

	for _, q := range queries {
		if asset, ok := c.tryQuery(ctx, q, preferred); ok {
			return asset
		}
	}
	log.Printf("[media] all sourcing attempts failed for %q; using flat background", query)
	return types.MediaAsset{Kind: types.MediaNone}
}

func (c *Chain) tryQuery(ctx context.Context, query string, preferred types.MediaKind) (types.MediaAsset, bool) {
	var candidates []Candidate

	var providers []Provider
	switch preferred {
	case types.MediaGIF:
		providers = c.gifProviders
	case types.MediaVideo:
		providers = c.videoProviders
	}
	for _, p := range providers {
		found, err := p.Search(ctx, query, 5)
		if err != nil {
			log.Printf("[media] %s search failed: %v", p.Name(), err)
			continue
		}
		candidates = append(candidates, found...)
		if len(candidates) > 0 {
			break
		}
	}

	// Still image fallback, for any preferred kind.
	if len(candidates) == 0 && c.imageProvider != nil {
		imgQuery := query
		if preferred != types.MediaImage {
			imgQuery = cleanQueryForImage(query)
		}
		found, err := c.imageProvider.Search(ctx, imgQuery, 3)
		if err != nil {
			log.Printf("[media] %s search failed: %v", c.imageProvider.Name(), err)
		}
		candidates = found
	}

	return c.pickAndDownload(ctx, candidates)
}

// pickAndDownload prefers the first candidate whose URL has not appeared
// earlier in the run; repeats are used only when every candidate repeats.
func (c *Chain) pickAndDownload(ctx context.Context, candidates []Candidate) (types.MediaAsset, bool) {
	var fresh, repeats []Candidate
	for _, cand := range candidates {
		if c.usedURLs[cand.URL] {
			repeats = append(repeats, cand)
		} else {
			fresh = append(fresh, cand)
		}
	}

	for _, cand := range append(fresh, repeats...) {
		data, err := c.downloader.Download(ctx, cand.URL)
		if err != nil {
			log.Printf("[media] download failed (%s): %v", cand.Source, err)
			continue
		}
		c.usedURLs[cand.URL] = true
		return types.MediaAsset{
			Kind:   cand.Kind,
			Bytes:  data,
			Source: cand.Source,
			URL:    cand.URL,
		}, true
	}
	return types.MediaAsset{}, false
}

// shortenQuery keeps the first two keywords of a free-text query.
func shortenQuery(query string) string {
	words := strings.Fields(query)
	if len(words) <= 2 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:2], " ")
}

func cleanQueryForImage(query string) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if !reactionWords[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return "health wellness lifestyle"
	}
	return strings.Join(kept, " ")
}
