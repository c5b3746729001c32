package services

import (
	"context"
	"encoding/xml"
	"regexp"
	"strings"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type TabLister interface {
	ListTabs(ctx context.Context) ([]string, error)
}

type SlugLister interface {
	PublishedSlugs(ctx context.Context) ([]models.BlogRef, error)
}

type SitemapService struct {
	baseURL string
	tabs    TabLister
	blogs   SlugLister
	now     func() time.Time
}

func NewSitemapService(baseURL string, tabs TabLister, blogs SlugLister) *SitemapService {
	return &SitemapService{
		baseURL: strings.TrimRight(baseURL, "/"),
		tabs:    tabs,
		blogs:   blogs,
		now:     time.Now,
	}
}

var spaceRun = regexp.MustCompile(`\s+`)

// TabAnchor is the storefront anchor of a device tab: "2 Devices" -> "pricing-2-devices".
func TabAnchor(tab string) string {
	return "pricing-" + strings.ToLower(spaceRun.ReplaceAllString(tab, "-"))
}

// Build renders the sitemap XML document.
func (s *SitemapService) Build(ctx context.Context) ([]byte, error) {
	today := s.now().UTC().Format("2006-01-02")
	set := urlSet{NS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	add := func(loc, lastmod, freq, prio string) {
		set.URLs = append(set.URLs, sitemapURL{Loc: loc, LastMod: lastmod, ChangeFreq: freq, Priority: prio})
	}

	add(s.baseURL, today, "daily", "1.0")
	add(s.baseURL+"/#pricing", today, "weekly", "0.9")
	add(s.baseURL+"/#faq", today, "weekly", "0.8")
	add(s.baseURL+"/#features", today, "monthly", "0.7")

	tabs, err := s.tabs.ListTabs(ctx)
	if err != nil {
		return nil, apperr.Server("Failed to build sitemap", err)
	}
	for _, t := range tabs {
		add(s.baseURL+"/#"+TabAnchor(t), today, "weekly", "0.6")
	}

	refs, err := s.blogs.PublishedSlugs(ctx)
	if err != nil {
		return nil, apperr.Server("Failed to build sitemap", err)
	}
	if len(refs) > 0 {
		add(s.baseURL+"/blog", today, "weekly", "0.7")
	}
	for _, r := range refs {
		add(s.baseURL+"/blog/"+r.Slug, r.UpdatedAt.UTC().Format("2006-01-02"), "monthly", "0.6")
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, apperr.Server("Failed to build sitemap", err)
	}
	return append([]byte(xml.Header), out...), nil
}
