package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmurley/drivethumbs/internal/cache"
	"github.com/pmurley/drivethumbs/internal/metrics"
	"github.com/pmurley/drivethumbs/pkg/logger"
)

const (
	FolderViewEndpoint = "https://drive.google.com/embeddedfolderview"
	probeSize          = 200
)

// FolderListing is what one embedded folder view yielded.
type FolderListing struct {
	FolderID string
	Title    string
	FileIDs  []string
	Tier     int
	Strategy string
	Cached   bool
}

type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MinIDLength  int
	MaxIDLength  int
	Verify       bool
	VerifyLimit  int
	ProbeTimeout time.Duration
	ProbeDelay   time.Duration
}

// Client reads public Drive folders through the embedded folder view. No
// credentials are involved, so only folders shared as "anyone with the link"
// are visible.
type Client struct {
	httpClient        *http.Client
	probeClient       *http.Client
	opts              Options
	scraper           *Scraper
	cache             *cache.Cache
	metrics           *metrics.Metrics
	logger            *logger.Logger
	folderEndpoint    string
	thumbnailEndpoint string
}

func NewClient(opts Options, c *cache.Cache, m *metrics.Metrics, log *logger.Logger) *Client {
	return &Client{
		httpClient:        &http.Client{Timeout: opts.Timeout},
		probeClient:       &http.Client{Timeout: opts.ProbeTimeout},
		opts:              opts,
		scraper:           NewScraper(DefaultTiers(opts.MinIDLength, opts.MaxIDLength)),
		cache:             c,
		metrics:           m,
		logger:            log,
		folderEndpoint:    FolderViewEndpoint,
		thumbnailEndpoint: ThumbnailEndpoint,
	}
}

// WithEndpoints points the client at a different host. Tests use it with
// httptest servers.
func (c *Client) WithEndpoints(folderView, thumbnail string) *Client {
	c.folderEndpoint = folderView
	c.thumbnailEndpoint = thumbnail
	return c
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// FetchFolder returns the raw embedded folder view HTML.
func (c *Client) FetchFolder(ctx context.Context, folderID string) (string, error) {
	folderURL := fmt.Sprintf("%s?id=%s", c.folderEndpoint, url.QueryEscape(folderID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, folderURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeFetch("error", start)
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observeFetch("error", start)
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observeFetch("error", start)
		return "", fmt.Errorf("reading response body: %w", err)
	}

	c.observeFetch("ok", start)
	return string(body), nil
}

func (c *Client) observeFetch(result string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveFetch(result, time.Since(start))
	}
}

// ListFolder fetches and scrapes a folder. Listings are cached per folder ID;
// a failed fetch is not cached.
func (c *Client) ListFolder(ctx context.Context, folderID string) (*FolderListing, error) {
	if c.cache != nil {
		if ids, found := c.cache.GetFolder(folderID); found {
			if c.metrics != nil {
				c.metrics.ObserveFetch("cached", 0)
			}
			return &FolderListing{FolderID: folderID, FileIDs: ids, Cached: true}, nil
		}
	}

	html, err := c.FetchFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch folder %s: %w", folderID, err)
	}

	ids, tier := c.scraper.FileIDs(html)
	listing := &FolderListing{
		FolderID: folderID,
		Title:    folderTitle(html),
		Tier:     tier,
		Strategy: c.scraper.TierName(tier),
	}
	c.logger.Debug("folder", folderID, "title", listing.Title, "candidates", len(ids), "matched by", listing.Strategy)

	if c.opts.Verify && len(ids) > 0 {
		ids, err = c.verifyImages(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	listing.FileIDs = ids

	if c.cache != nil {
		c.cache.SetFolder(folderID, ids)
	}
	return listing, nil
}

// folderTitle reads the folder name shown in the embedded view, for logs.
func folderTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("div.folder-title").First().Text())
	}
	return title
}

// verifyImages keeps candidates whose thumbnail answers with an image content
// type. Only the first VerifyLimit candidates are considered. A probe that
// fails keeps its candidate.
func (c *Client) verifyImages(ctx context.Context, ids []string) ([]string, error) {
	if c.opts.VerifyLimit > 0 && len(ids) > c.opts.VerifyLimit {
		c.logger.Debug("probing first", c.opts.VerifyLimit, "of", len(ids), "candidates")
		ids = ids[:c.opts.VerifyLimit]
	}

	var kept []string
	for _, id := range ids {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.IsImage(ctx, id) {
			kept = append(kept, id)
		}
		if c.opts.ProbeDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.opts.ProbeDelay):
			}
		}
	}
	return kept, nil
}

// IsImage issues a HEAD request for the small thumbnail of fileID.
func (c *Client) IsImage(ctx context.Context, fileID string) bool {
	if c.cache != nil {
		if verdict, found := c.cache.GetImageVerdict(fileID); found {
			return verdict
		}
	}

	verdict, err := c.probe(ctx, fileID)
	if err != nil {
		c.logger.Debug("probe failed for", fileID, "- keeping it:", err)
		c.countProbe("error")
		return true
	}

	if verdict {
		c.countProbe("image")
	} else {
		c.countProbe("other")
	}
	if c.cache != nil {
		c.cache.SetImageVerdict(fileID, verdict)
	}
	return verdict
}

func (c *Client) probe(ctx context.Context, fileID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, thumbnailURL(c.thumbnailEndpoint, fileID, probeSize), nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("performing request: %w", err)
	}
	resp.Body.Close()

	return strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "image"), nil
}

func (c *Client) countProbe(verdict string) {
	if c.metrics != nil {
		c.metrics.IncProbes(verdict)
	}
}
