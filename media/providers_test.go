package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelsmith/types"
)

func jsonServer(t *testing.T, check func(r *http.Request), body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTenorSearch(t *testing.T) {
	srv := jsonServer(t, func(r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "water" || q.Get("key") != "k" {
			t.Errorf("unexpected query params: %s", r.URL.RawQuery)
		}
	}, `{"results":[
		{"title":"splash","media_formats":{
			"mp4":{"url":"https://t/a.mp4","dims":[640,360],"duration":2.5},
			"tinygif":{"url":"https://t/a_tiny.gif"}}},
		{"title":"no urls","media_formats":{}}
	]}`)

	p := &Tenor{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}
	got, err := p.Search(context.Background(), "water", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates; want 1 (URL-less hit dropped)", len(got))
	}
	c := got[0]
	if c.Kind != types.MediaGIF || c.URL != "https://t/a.mp4" || c.Width != 640 || c.Duration != 2.5 {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestTenorWithoutKeyReturnsNothing(t *testing.T) {
	p := NewTenor("")
	got, err := p.Search(context.Background(), "water", 5)
	if err != nil || got != nil {
		t.Fatalf("keyless search = (%v, %v); want (nil, nil)", got, err)
	}
}

func TestGiphySearchPrefersMP4(t *testing.T) {
	srv := jsonServer(t, nil, `{"data":[
		{"title":"one","images":{"original":{"mp4":"https://g/one.mp4","url":"https://g/one.gif","width":"480","height":"270"}}},
		{"title":"two","images":{"original":{"url":"https://g/two.gif","width":"200","height":"200"}}}
	]}`)

	p := &Giphy{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}
	got, err := p.Search(context.Background(), "water", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates; want 2", len(got))
	}
	if got[0].URL != "https://g/one.mp4" {
		t.Errorf("first candidate URL = %s; want mp4 rendition", got[0].URL)
	}
	if got[1].URL != "https://g/two.gif" {
		t.Errorf("second candidate URL = %s; want gif fallback", got[1].URL)
	}
	if got[0].Width != 480 {
		t.Errorf("width = %d; want 480", got[0].Width)
	}
}

func TestPexelsSearchPicksBestFile(t *testing.T) {
	srv := jsonServer(t, func(r *http.Request) {
		if r.Header.Get("Authorization") != "k" {
			t.Errorf("missing Authorization header")
		}
		if r.URL.Query().Get("orientation") != "portrait" {
			t.Errorf("orientation param = %q", r.URL.Query().Get("orientation"))
		}
	}, `{"videos":[{"duration":12,"image":"https://p/prev.jpg","video_files":[
		{"link":"https://p/sd.mp4","quality":"sd","width":540,"height":960},
		{"link":"https://p/hd.mp4","quality":"hd","width":1080,"height":1920},
		{"link":"https://p/tiny.mp4","quality":"sd","width":360,"height":640}
	]}]}`)

	p := &Pexels{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}
	got, err := p.Search(context.Background(), "ocean", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates; want 1", len(got))
	}
	if got[0].URL != "https://p/hd.mp4" || got[0].Kind != types.MediaVideo {
		t.Fatalf("unexpected candidate %+v", got[0])
	}
}

func TestUnsplashSearchAddsCropParams(t *testing.T) {
	srv := jsonServer(t, nil, `{"results":[
		{"urls":{"raw":"https://u/raw?ixid=1","regular":"https://u/reg","small":"https://u/small"},"user":{"name":"Jamie"}}
	]}`)

	p := &Unsplash{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}
	got, err := p.Search(context.Background(), "forest", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates; want 1", len(got))
	}
	url := got[0].URL
	if !strings.Contains(url, "w=1080") || !strings.Contains(url, "h=1920") || !strings.Contains(url, "fit=crop") {
		t.Fatalf("crop params missing from %s", url)
	}
	if got[0].Kind != types.MediaImage {
		t.Fatalf("kind = %s; want image", got[0].Kind)
	}
}

func TestProviderSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	p := &Tenor{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}
	if _, err := p.Search(context.Background(), "water", 5); err == nil {
		t.Fatal("search against 429 succeeded; want error")
	}
}
