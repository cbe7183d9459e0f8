package iss

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karrick/godirwalk"
	"github.com/moex-tools/bond"
)

// httpTimeout bounds every ISS request, like the feed documentation suggests.
const httpTimeout = 5 * time.Second

// cachePrefix starts every cache file name, so the cache can be listed and
// cleared without touching anything else in the directory.
const cachePrefix = "iss-"

// cacheDir hosts the cached responses. Tests point it at a scratch dir.
var cacheDir = os.TempDir()

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key includes today's date, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", bond.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%s%x", cachePrefix, sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(cacheDir, key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(cacheDir, key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// newCachingClient returns an http.Client that uses a disk cache where
// entries expire daily, with the feed timeout applied.
func newCachingClient() *http.Client {
	return &http.Client{
		Transport: &diskCache{base: http.DefaultTransport},
		Timeout:   httpTimeout,
	}
}

// CacheEntries returns the paths of the responses cached on disk, stale
// days included.
func CacheEntries() ([]string, error) {
	dirents, err := godirwalk.ReadDirents(cacheDir, nil)
	if err != nil {
		return nil, err
	}
	var entries []string
	for _, de := range dirents {
		if de.IsDir() || !strings.HasPrefix(de.Name(), cachePrefix) {
			continue
		}
		entries = append(entries, filepath.Join(cacheDir, de.Name()))
	}
	return entries, nil
}

// ClearCache removes every cached response and returns how many were
// removed.
func ClearCache() (int, error) {
	entries, err := CacheEntries()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if err := os.Remove(e); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure. Numbers decode as
// json.Number so monetary values keep their exact decimal digits.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	return dec.Decode(data)
}
