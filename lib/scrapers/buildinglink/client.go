package buildinglink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"aptassist-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/buildinglink")

const (
	DefaultBaseUrl    = "https://www.buildinglink.com"
	DefaultApiBaseUrl = "https://api.buildinglink.com"

	tenantAreaPath = "/V2/Tenant/"

	// request paths containing this marker belong to the portal's OIDC
	// callback flow
	oidcPathMarker = "oidc"

	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
)

// ErrCircularRedirect means the unauthenticated flow requested the same
// method+URL twice. it usually signals bad credentials or a portal flow
// change, never something worth retrying.
var ErrCircularRedirect = errors.New("circular redirect detected")

type Options struct {
	Username string
	Password string
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to DefaultApiBaseUrl
	ApiBaseUrl string
	// APIM subscription key sent with every api.buildinglink.com request
	ApiSubscriptionKey string
	ApiKey             string
	// optional page cache for library listings
	Cache *badger.DB
}

// Client authenticates against the BuildingLink resident portal and
// exposes authenticated fetches over it. the portal has no stable API, so
// the client behaves like a browser: it carries cookies, follows HTTP and
// script redirects itself and submits the login form when a response
// shows the session is gone.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	Session *Session

	// interceptor order is load-bearing: the loop check must run before
	// cookies are applied, and responses must capture cookies before
	// anything re-enters the pipeline, materialize HTML before redirect
	// and auth read it, and resolve redirects before auth sees the page.
	// callers may splice in extra interceptors.
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor

	opts  Options
	cache pageCache
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.ApiBaseUrl == "" {
		opts.ApiBaseUrl = DefaultApiBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	// the session owns cookie state; resty's automatic jar would fight it
	client.SetCookieJar(nil)

	// redirects are policy, not transport: the resolver interceptor owns
	// them
	client.GetClient().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	telemetry.InstrumentResty(client, "scrapers/buildinglink/http")

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
		Session: NewSession(),
		opts:    opts,
		cache:   pageCache{db: opts.Cache, baseUrl: baseUrl},
	}
	c.RequestInterceptors = []RequestInterceptor{
		c.checkRedirectLoop,
		c.applyCookies,
	}
	c.ResponseInterceptors = []ResponseInterceptor{
		c.captureCookies,
		c.materializeHtml,
		c.resolveRedirect,
		c.handleAuthentication,
	}
	return c, nil
}

type FetchOptions struct {
	// defaults to GET
	Method string
	Header map[string]string
	Body   string
}

// Fetch resolves location against the portal origin, runs the request
// interceptors, issues exactly one transport call and runs the response
// interceptors. redirect resolution and login submission re-enter Fetch
// recursively, so the response a caller gets back is the end of the
// chain, not the first hop.
func (c *Client) Fetch(ctx context.Context, location string, opts FetchOptions) (*Response, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	target, err := c.BaseUrl.Parse(location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve location")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("method", opts.Method),
		attribute.String("url", target.String()),
	)

	req := &Request{
		Method: opts.Method,
		Url:    target.String(),
		Header: map[string]string{},
		Body:   opts.Body,
	}
	for name, value := range opts.Header {
		req.Header[name] = value
	}

	for _, intercept := range c.RequestInterceptors {
		err = intercept(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "request interceptor failed")
			return nil, err
		}
	}

	r := c.Http.R().
		SetContext(ctx).
		SetHeaders(req.Header)
	if req.Body != "" {
		r.SetBody(req.Body)
	}
	raw, err := r.Execute(req.Method, req.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport call failed")
		return nil, err
	}

	resolved, err := url.Parse(req.Url)
	if err != nil {
		return nil, err
	}
	res := &Response{Raw: raw, Url: resolved}

	for _, intercept := range c.ResponseInterceptors {
		res, err = intercept(ctx, res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "response interceptor failed")
			return nil, err
		}
	}
	return res, nil
}

// Page fetches a path under the tenant area of the portal.
func (c *Client) Page(ctx context.Context, path string, opts FetchOptions) (*Response, error) {
	return c.Fetch(ctx, tenantAreaPath+strings.TrimPrefix(path, "/"), opts)
}

// Api fetches a path against the BuildingLink API origin, authorized with
// the captured OIDC token and the APIM subscription key.
func (c *Client) Api(ctx context.Context, path string, opts FetchOptions) (*Response, error) {
	token := c.Session.Token()
	header := map[string]string{}
	for name, value := range opts.Header {
		header[name] = value
	}
	header["authorization"] = fmt.Sprintf("Bearer %s", token.AccessToken())
	header[subscriptionKeyHeader] = c.opts.ApiSubscriptionKey
	opts.Header = header
	return c.Fetch(ctx, c.opts.ApiBaseUrl+path, opts)
}

// checkRedirectLoop aborts a request whose method+URL already appeared in
// the unauthenticated flow, before any network effect. it runs ahead of
// the cookie interceptor for exactly that reason.
func (c *Client) checkRedirectLoop(ctx context.Context, req *Request) error {
	if c.Session.IsAuthenticated() {
		c.Session.ClearHistory()
		return nil
	}
	key := fmt.Sprintf("[%s] %s", req.Method, req.Url)
	if !c.Session.remember(key) {
		return fmt.Errorf("%w: %s", ErrCircularRedirect, key)
	}
	return nil
}

func (c *Client) applyCookies(ctx context.Context, req *Request) error {
	header := c.Session.CookieHeader()
	if header != "" {
		req.Header["cookie"] = header
	}
	return nil
}

// captureCookies runs first on every response so recursive re-fetches
// (redirects, login submission) see the latest jar state.
func (c *Client) captureCookies(ctx context.Context, res *Response) (*Response, error) {
	c.Session.CaptureCookies(res.Raw.Header().Values("Set-Cookie"))
	if c.Session.IsAuthenticated() {
		c.Session.ClearHistory()
	}
	return res, nil
}
