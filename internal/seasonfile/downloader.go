// Package seasonfile downloads and parses bookmaker season CSV files and
// resolves exact fixtures from them. The old process-wide singleton loader is
// replaced with an explicit per-instance cache keyed by (season, league).
package seasonfile

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/provider"
)

// csvLinkPattern extracts the season code and league code from a CSV link
// path, e.g. mmz4281/2425/E0.csv
var csvLinkPattern = regexp.MustCompile(`mmz4281/(\d{4})/([A-Z]+\d*|EC)`)

// Downloader scrapes a football-data index page for season CSV links and
// downloads them
type Downloader struct {
	indexURL     string
	leaguePrefix string
	outputDir    string
	client       *provider.RateLimitedHTTPClient
	logger       *logrus.Logger
}

// NewDownloader creates a downloader for the given index page. leaguePrefix
// filters links to one country's league codes (e.g. "E" for England).
func NewDownloader(indexURL, leaguePrefix, outputDir string, client *provider.RateLimitedHTTPClient, logger *logrus.Logger) *Downloader {
	return &Downloader{
		indexURL:     indexURL,
		leaguePrefix: leaguePrefix,
		outputDir:    outputDir,
		client:       client,
		logger:       logger,
	}
}

// Run scrapes the index page and downloads at most limit CSV files.
// A non-positive limit downloads everything found.
func (d *Downloader) Run(ctx context.Context, limit int) (int, error) {
	links, err := d.extractCSVLinks(ctx)
	if err != nil {
		return 0, err
	}
	if len(links) == 0 {
		return 0, fmt.Errorf("no CSV links found at %s", d.indexURL)
	}

	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	downloaded := 0
	for _, link := range links {
		if limit > 0 && downloaded >= limit {
			break
		}
		if err := d.downloadOne(ctx, link); err != nil {
			d.logger.WithError(err).WithField("link", link).Warn("Season file download failed")
			continue
		}
		downloaded++
	}
	return downloaded, nil
}

// extractCSVLinks pulls every .csv anchor from the index page
func (d *Downloader) extractCSVLinks(ctx context.Context) ([]string, error) {
	resp, err := d.client.Get(ctx, d.indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if filepath.Ext(href) == ".csv" {
			links = append(links, href)
		}
	})
	return links, nil
}

// downloadOne fetches one CSV link and writes it under the output directory
// named {seasonCode}_{leagueCode}.csv
func (d *Downloader) downloadOne(ctx context.Context, link string) error {
	base, err := url.Parse(d.indexURL)
	if err != nil {
		return err
	}
	ref, err := url.Parse(link)
	if err != nil {
		return err
	}
	csvURL := base.ResolveReference(ref).String()

	name := filepath.Base(link)
	if m := csvLinkPattern.FindStringSubmatch(link); m != nil {
		if d.leaguePrefix != "" && m[2] != "EC" && m[2][:1] != d.leaguePrefix {
			return fmt.Errorf("league code %s outside prefix %s", m[2], d.leaguePrefix)
		}
		name = fmt.Sprintf("%s_%s.csv", m[1], m[2])
	}

	resp, err := d.client.Get(ctx, csvURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", csvURL, err)
	}
	defer resp.Body.Close()

	path := filepath.Join(d.outputDir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	d.logger.WithField("file", path).Info("Season file downloaded")
	return nil
}
