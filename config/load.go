package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Comcast/wfsm/core"

	"github.com/jsccast/yaml"
)

// MaxSize limits how much Fetch will read.
var MaxSize int64 = 4 << 20

// ErrTooLarge occurs when a configuration source exceeds MaxSize.
var ErrTooLarge = errors.New("configuration too large")

// ReadLimited reads all of r.  If r has more than MaxSize bytes, the
// error wraps ErrTooLarge.
func ReadLimited(r io.Reader) ([]byte, error) {
	limit := MaxSize
	src, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(src)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return src, nil
}

// Parse parses YAML (and therefore JSON) into a configuration tree.
func Parse(src []byte) (interface{}, error) {
	var tree interface{}
	if err := yaml.Unmarshal(src, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// ReadFile reads and parses a configuration file.
func ReadFile(filename string) (interface{}, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(src)
}

// HTTPClient is used by Fetch for http and https locations.
var HTTPClient = http.DefaultClient

// IsURL reports whether Fetch would treat the location as an HTTP(S)
// URL rather than a filename.
func IsURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// Fetch obtains the configuration source at the given location, which
// is either an http(s) URL or a filename.
func Fetch(ctx context.Context, loc string) ([]byte, error) {
	if !IsURL(loc) {
		f, err := os.Open(loc)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src, err := ReadLimited(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", loc, err)
		}
		return src, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", loc, nil)
	if err != nil {
		return nil, err
	}
	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", loc, resp.Status)
	}

	src, err := ReadLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", loc, err)
	}
	return src, nil
}

// Load fetches, parses, and builds an FSM.
//
// Errors fetching or parsing are returned.  Problems with the
// configuration itself are reported to the FSM's Diag.
func Load(ctx context.Context, loc string, opts ...core.Option) (*core.FSM, error) {
	src, err := Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	tree, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", loc, err)
	}
	return Build(tree, opts...), nil
}
