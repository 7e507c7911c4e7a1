package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/html"

	"pricepulse/internal/detect"
	"pricepulse/internal/misc"
)

var ErrExtractFailed = errors.New("unable to detect product details")

type ExtractResult struct {
	Store        string   `json:"store"`
	ProductName  string   `json:"product_name"`
	CurrentPrice *float64 `json:"current_price"`
	CurrencyCode *string  `json:"currency_code"`
}

var pricePattern = regexp.MustCompile(`(£|€|\$|₺|₽)\s?([0-9]+(?:[.,][0-9]{1,2})?)`)

var currencySymbols = map[string]string{
	"£": "GBP",
	"€": "EUR",
	"$": "USD",
	"₺": "TRY",
	"₽": "RUB",
}

const extractCacheTTL = 15 * time.Minute

// ExtractProductDetails downloads the product page and pulls out the name,
// price, and currency. Results are cached in Redis per URL since product
// pages are fetched repeatedly by the add-item form and the scanner.
func (c Client) ExtractProductDetails(ctx context.Context, rawURL string) (ExtractResult, error) {
	var res ExtractResult
	normalized := detect.NormalizeURL(rawURL)
	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Hostname() == "" {
		return res, errors.Wrapf(ErrExtractFailed, "unusable url: %s", rawURL)
	}

	cacheKey := "EXT-" + normalized
	if c.Redis != nil {
		cached, err := c.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			c.Logger.Infof("ExtractProductDetails: Cache found, key: %s", cacheKey)
			if err = json.Unmarshal([]byte(cached), &res); err == nil {
				return res, nil
			}
			c.Logger.Errorf("ExtractProductDetails: Error unmarshalling cache, key: %s, err: %v", cacheKey, err)
		} else if !errors.Is(err, redis.Nil) {
			c.Logger.Errorf("ExtractProductDetails: Error getting Redis cache with key: %s, err: %v", cacheKey, err)
		}
	}

	req, err := newRequest(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return res, errors.Wrapf(err, "error creating request to URL: %s", normalized)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PricePulseBot/1.0)")
	req.Header.Set("Accept", "text/html")

	c.Logger.Infof("ExtractProductDetails: Fetching %s", normalized)
	resp, err := c.Client.Do(req)
	if err != nil {
		return res, errors.Wrapf(err, "error fetching URL: %s", normalized)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 500*1024))
	if err != nil {
		return res, errors.Wrapf(err, "error reading page body from URL: %s, status: %s", normalized, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, errors.Wrapf(ErrExtractFailed, "status: %s, body: %s", resp.Status, misc.BytesLimit(body, 500))
	}

	store := strings.TrimPrefix(parsed.Hostname(), "www.")
	title := pageTitle(body)
	if title == "" {
		title = store
	}
	price, code := extractPrice(body)

	res = ExtractResult{
		Store:        store,
		ProductName:  misc.StringLimit(strings.TrimSpace(title), 256),
		CurrentPrice: price,
		CurrencyCode: code,
	}
	if c.Redis != nil {
		if cached, err := json.Marshal(res); err == nil {
			if err = c.Redis.Set(ctx, cacheKey, cached, extractCacheTTL).Err(); err != nil {
				c.Logger.Errorf("ExtractProductDetails: Error setting Redis cache with key: %s, err: %v", cacheKey, err)
			}
		}
	}
	return res, nil
}

// pageTitle prefers og:title, then twitter:title, then the <title> element.
func pageTitle(body []byte) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}
	var ogTitle, twitterTitle, docTitle string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				var prop, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "property", "name":
						prop = strings.ToLower(a.Val)
					case "content":
						content = a.Val
					}
				}
				if content != "" {
					switch prop {
					case "og:title":
						if ogTitle == "" {
							ogTitle = content
						}
					case "twitter:title":
						if twitterTitle == "" {
							twitterTitle = content
						}
					}
				}
			case "title":
				if docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					docTitle = n.FirstChild.Data
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	for _, t := range []string{ogTitle, twitterTitle, docTitle} {
		if s := strings.Join(strings.Fields(t), " "); s != "" {
			return s
		}
	}
	return ""
}

// extractPrice finds the first currency-symbol-prefixed amount in the page.
func extractPrice(body []byte) (*float64, *string) {
	m := pricePattern.FindSubmatch(body)
	if m == nil {
		return nil, nil
	}
	var code *string
	if c, ok := currencySymbols[string(m[1])]; ok {
		code = &c
	}
	value := strings.ReplaceAll(string(m[2]), ",", ".")
	price, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, code
	}
	return &price, code
}
