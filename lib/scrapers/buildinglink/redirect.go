package buildinglink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
)

// ErrMissingLocation means the portal answered with a redirect status but
// no location header. fatal, since the pipeline cannot guess a target.
var ErrMissingLocation = errors.New("redirect response carries no location header")

// the portal navigates between its frames with inline scripts rather than
// redirect statuses on some pages
var scriptRedirectRegex = regexp.MustCompile(`window\.top\.location\.href\s*=\s*["']([^"']+)["']`)

// resolveRedirect follows HTTP redirects first, then script redirects on
// whatever page that lands on. each follow-up re-enters the full
// pipeline, with the session history as the only circuit breaker.
func (c *Client) resolveRedirect(ctx context.Context, res *Response) (*Response, error) {
	res, err := c.followHttpRedirect(ctx, res)
	if err != nil {
		return nil, err
	}
	return c.followScriptRedirect(ctx, res)
}

func (c *Client) followHttpRedirect(ctx context.Context, res *Response) (*Response, error) {
	switch res.StatusCode() {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect:
	default:
		return res, nil
	}

	location := res.Raw.Header().Get("Location")
	if location == "" {
		return nil, fmt.Errorf("%w: status %d from %s", ErrMissingLocation, res.StatusCode(), res.Url)
	}
	target, err := res.Url.Parse(location)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "following redirect", "from", res.Url.String(), "to", target.String())
	return c.Fetch(ctx, target.String(), FetchOptions{})
}

func (c *Client) followScriptRedirect(ctx context.Context, res *Response) (*Response, error) {
	if res.Html == "" {
		return res, nil
	}
	groups := scriptRedirectRegex.FindStringSubmatch(res.Html)
	if len(groups) < 2 {
		return res, nil
	}

	slog.DebugContext(ctx, "following script redirect", "from", res.Url.String(), "to", groups[1])
	return c.Fetch(ctx, groups[1], FetchOptions{})
}
