package carteira

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// mfinance.com.br serves B3 market data without an API key. Stocks and
// real-estate funds live on different endpoints, which is how the asset
// class of a new ticker is discovered in the first place.

const mfinanceURL = "https://mfinance.com.br/api/v1"

var mfinanceFlag = flag.String("mfinance-url", "",
	"Base URL of the mfinance API used to fetch quotes.\n If missing it will read the environment variable MFINANCE_URL.")

func mfinanceBase() string {
	if *mfinanceFlag != "" {
		return *mfinanceFlag
	}
	if env := os.Getenv("MFINANCE_URL"); env != "" {
		return env
	}
	return mfinanceURL
}

// MFinance fetches quotes and symbol lists from the mfinance API.
type MFinance struct {
	client *http.Client
	base   string
}

// NewMFinance returns a client with a daily-expiring disk cache, so that
// repeated summaries within a day do not hammer the API.
func NewMFinance() *MFinance {
	return &MFinance{client: daily(), base: mfinanceBase()}
}

// endpoint maps an asset class to its API path segment.
func endpoint(class AssetClass) string {
	if class == Fund {
		return "fiis"
	}
	return "stocks"
}

// Quote fetches the current price and previous close for one ticker.
func (m *MFinance) Quote(ticker string, class AssetClass) (Quote, error) {
	var info struct {
		Price     float64 `json:"price"`
		LastPrice float64 `json:"lastPrice"`
	}
	addr := fmt.Sprintf("%s/%s/%s", m.base, endpoint(class), strings.ToLower(ticker))
	if err := jwget(m.client, addr, &info); err != nil {
		return Quote{}, fmt.Errorf("could not fetch quote for %s: %w", ticker, err)
	}
	if info.Price == 0 {
		// the API answers an all-zero object for unknown tickers
		return Quote{}, fmt.Errorf("no quote for %s on the %s endpoint", ticker, endpoint(class))
	}
	return Quote{Price: M(info.Price), PreviousClose: M(info.LastPrice)}, nil
}

// Resolve discovers the asset class of a ticker by probing the symbol lists
// of both endpoints.
func (m *MFinance) Resolve(ticker string) (AssetClass, error) {
	ticker = strings.ToUpper(ticker)
	for _, class := range []AssetClass{Fund, Stock} {
		symbols, err := m.symbols(class)
		if err != nil {
			return "", err
		}
		if slices.Contains(symbols, ticker) {
			return class, nil
		}
	}
	return "", fmt.Errorf("%s is neither a listed stock nor a listed fund", ticker)
}

func (m *MFinance) symbols(class AssetClass) ([]string, error) {
	var symbols []string
	addr := fmt.Sprintf("%s/%s/symbols/", m.base, endpoint(class))
	if err := jwget(m.client, addr, &symbols); err != nil {
		return nil, fmt.Errorf("could not list %s symbols: %w", endpoint(class), err)
	}
	return symbols, nil
}

// diskCache implements a simple disk cache for HTTP responses.
// The cache key includes the current day, so entries expire daily.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s %s", time.Now().Format(time.DateOnly), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", req.URL.String()).Str("status", resp.Status).Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Debug().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(os.TempDir(), key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a disk cache that expires every day.
func daily() *http.Client {
	return &http.Client{
		Transport: &diskCache{base: http.DefaultTransport},
		Timeout:   10 * time.Second,
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
