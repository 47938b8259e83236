package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rupeewise/rupeewise/internal/config"
)

func rssFeed(title string, items ...string) string {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>`, title)
	for i, item := range items {
		body += fmt.Sprintf(`<item>
<title>%s</title>
<link>https://example.com/%d</link>
<description>&lt;p&gt;Summary of %s&lt;/p&gt;</description>
<pubDate>Mon, 0%d Sep 2026 10:00:00 +0530</pubDate>
</item>`, item, i, item, i+1)
	}
	return body + "</channel></rss>"
}

func rssServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
}

func newsFor(sources ...NewsSource) *News {
	return NewNewsWithSources(config.NewsConfig{CacheTTLSec: 600, DefaultLimit: 20}, NewMemoryCache(), sources)
}

func TestMarketNewsAggregates(t *testing.T) {
	a := rssServer(t, rssFeed("Feed A", "Nifty ends higher", "Rupee steadies"))
	defer a.Close()
	b := rssServer(t, rssFeed("Feed B", "Sensex rallies"))
	defer b.Close()

	n := newsFor(
		NewsSource{Name: "A", RSSURL: a.URL},
		NewsSource{Name: "B", RSSURL: b.URL},
	)

	articles, err := n.MarketNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("MarketNews: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}

	// Newest first across sources.
	for i := 1; i < len(articles); i++ {
		if articles[i].PublishedAt.After(articles[i-1].PublishedAt) {
			t.Errorf("articles out of order at %d", i)
		}
	}

	for _, a := range articles {
		if a.Title == "" || a.Source == "" || a.URL == "" {
			t.Errorf("article missing fields: %+v", a)
		}
		// Markup in the description is stripped.
		if a.Summary != "" && (a.Summary[0] == '<') {
			t.Errorf("summary still contains markup: %q", a.Summary)
		}
	}
}

func TestMarketNewsSkipsFailedSource(t *testing.T) {
	good := rssServer(t, rssFeed("Good", "Banks lead gains"))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	n := newsFor(
		NewsSource{Name: "Bad", RSSURL: bad.URL},
		NewsSource{Name: "Good", RSSURL: good.URL},
	)

	articles, err := n.MarketNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("a failing source must not fail the aggregate: %v", err)
	}
	if len(articles) != 1 || articles[0].Source != "Good" {
		t.Errorf("articles = %v, want just the good source", articles)
	}
}

func TestMarketNewsLimit(t *testing.T) {
	srv := rssServer(t, rssFeed("Feed", "one", "two", "three", "four"))
	defer srv.Close()

	n := newsFor(NewsSource{Name: "Feed", RSSURL: srv.URL})
	articles, err := n.MarketNews(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 {
		t.Errorf("got %d articles, want 2", len(articles))
	}
}

func TestMarketNewsCached(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, rssFeed("Feed", "headline"))
	}))
	defer srv.Close()

	n := newsFor(NewsSource{Name: "Feed", RSSURL: srv.URL})
	if _, err := n.MarketNews(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if _, err := n.MarketNews(context.Background(), 5); err != nil {
		t.Fatal(err)
	}

	if hits != 1 {
		t.Errorf("upstream hit %d times for a cached window, want 1", hits)
	}
}

func TestMarketNewsAllSourcesDown(t *testing.T) {
	n := newsFor(NewsSource{Name: "Down", RSSURL: "http://127.0.0.1:1/rss"})

	articles, err := n.MarketNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("total source failure still yields an empty list: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Errorf("articles = %v, want empty non-nil slice", articles)
	}
}
