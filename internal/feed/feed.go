// Package feed loads raw articles from files already collected on disk:
// JSON batches, RSS/Atom documents and a YAML list of such sources.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/aibrief/internal/logger"
	"github.com/deusflow/aibrief/internal/news"
)

const (
	FormatJSON = "json"
	FormatRSS  = "rss"
	FormatAtom = "atom"
)

var ErrUnknownFormat = errors.New("unknown source format")

// Source is one entry of the sources file.
type Source struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// SourcesConfig is the YAML sources file structure
// sources:
//   - name: TechCrunch
//     file: data/techcrunch.xml
//     format: rss
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// LoadArticles reads a JSON array of raw articles.
func LoadArticles(path string) ([]news.RawArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}

	var articles []news.RawArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles from %s: %w", path, err)
	}
	if articles == nil {
		articles = []news.RawArticle{}
	}

	logger.Debug("loaded articles", "path", path, "count", len(articles))
	return articles, nil
}

// LoadFeedFile parses an RSS or Atom document. sourceName overrides the feed
// title as the article source when set.
func LoadFeedFile(path, sourceName string) ([]news.RawArticle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", path, err)
	}

	source := strings.TrimSpace(sourceName)
	if source == "" {
		source = strings.TrimSpace(parsed.Title)
	}

	articles := make([]news.RawArticle, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, news.RawArticle{
			Source:      source,
			Title:       strings.TrimSpace(item.Title),
			Description: itemDescription(item),
			Link:        item.Link,
			PubDate:     item.Published,
		})
	}

	logger.Info("loaded feed", "path", path, "source", source, "items", len(articles))
	return articles, nil
}

// LoadSources loads every source listed in the YAML file at path, in order.
// Relative file paths are resolved against the directory of path.
func LoadSources(path string) ([]news.RawArticle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode sources %s: %w", path, err)
	}

	base := filepath.Dir(path)
	all := []news.RawArticle{}
	for _, src := range cfg.Sources {
		file := src.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}

		var articles []news.RawArticle
		switch sourceFormat(src) {
		case FormatJSON:
			articles, err = LoadArticles(file)
		case FormatRSS, FormatAtom:
			articles, err = LoadFeedFile(file, src.Name)
		default:
			err = fmt.Errorf("%w %q for %s", ErrUnknownFormat, src.Format, src.File)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, articles...)
	}

	logger.Info("loaded sources", "sources", len(cfg.Sources), "articles", len(all))
	return all, nil
}

func sourceFormat(src Source) string {
	if src.Format != "" {
		return strings.ToLower(src.Format)
	}
	if strings.EqualFold(filepath.Ext(src.File), ".json") {
		return FormatJSON
	}
	return FormatRSS
}

// itemDescription prefers the feed description and otherwise takes the first
// paragraph of the item content.
func itemDescription(item *gofeed.Item) string {
	if d := strings.TrimSpace(item.Description); d != "" {
		return d
	}
	if item.Content == "" {
		return ""
	}
	return firstParagraph(item.Content)
}

func firstParagraph(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var text string
	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text = strings.TrimSpace(s.Text())
		return text == ""
	})
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	return strings.Join(strings.Fields(text), " ")
}
