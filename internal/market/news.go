package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/rupeewise/rupeewise/internal/config"
	"github.com/rupeewise/rupeewise/pkg/models"
)

// NewsSource is one Indian financial news RSS feed.
type NewsSource struct {
	Name   string
	RSSURL string
}

// DefaultNewsSources lists the configured Indian financial news feeds.
var DefaultNewsSources = []NewsSource{
	{Name: "Moneycontrol", RSSURL: "https://www.moneycontrol.com/rss/marketreports.xml"},
	{Name: "Economic Times Markets", RSSURL: "https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms"},
	{Name: "LiveMint Markets", RSSURL: "https://www.livemint.com/rss/markets"},
	{Name: "Business Standard Markets", RSSURL: "https://www.business-standard.com/rss/markets-106.rss"},
}

// News aggregates market headlines from multiple RSS sources. Sources
// are fetched concurrently and a failed source is skipped, so the
// result degrades gracefully to whatever feeds answered.
type News struct {
	sources []NewsSource
	cache   Cache
	ttl     time.Duration
	limit   int
}

// NewNews creates the aggregator over the default sources.
func NewNews(cfg config.NewsConfig, cache Cache) *News {
	return NewNewsWithSources(cfg, cache, DefaultNewsSources)
}

// NewNewsWithSources creates the aggregator over custom sources.
func NewNewsWithSources(cfg config.NewsConfig, cache Cache, sources []NewsSource) *News {
	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = 20
	}
	return &News{
		sources: sources,
		cache:   cache,
		ttl:     ttl,
		limit:   limit,
	}
}

// MarketNews returns recent market headlines across all sources, newest
// first, capped at limit (0 means the configured default).
func (n *News) MarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = n.limit
	}

	key := fmt.Sprintf("news:market:%d", limit)
	if cached, ok := n.cache.Get(ctx, key); ok {
		var articles []models.NewsArticle
		if err := json.Unmarshal(cached, &articles); err == nil {
			return articles, nil
		}
	}

	results := make([][]models.NewsArticle, len(n.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range n.sources {
		i, src := i, src
		g.Go(func() error {
			articles, err := n.fetchRSS(gctx, src)
			if err != nil {
				log.Printf("news: %s: %v", src.Name, err)
				return nil // non-critical: skip failed sources
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var all []models.NewsArticle
	for _, articles := range results {
		all = append(all, articles...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []models.NewsArticle{}
	}

	if b, err := json.Marshal(all); err == nil {
		n.cache.Set(ctx, key, b, n.ttl)
	}
	return all, nil
}

func (n *News) fetchRSS(ctx context.Context, src NewsSource) ([]models.NewsArticle, error) {
	// One parser per fetch: gofeed.Parser keeps internal state and is
	// not safe to share across goroutines.
	feed, err := gofeed.NewParser().ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips markup from a feed summary.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
