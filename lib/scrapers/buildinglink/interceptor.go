package buildinglink

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Request is the outgoing request as seen by request interceptors, which
// mutate it in place before the transport call.
type Request struct {
	Method string
	// absolute URL
	Url    string
	Header map[string]string
	// raw body, form-urlencoded for login submissions
	Body string
}

// Response wraps the transport response. Html and Document are only set
// once the response has been materialized as HTML.
type Response struct {
	Raw *resty.Response
	// the resolved URL this response was served from
	Url      *url.URL
	Html     string
	Document *goquery.Document
}

func (r *Response) StatusCode() int {
	return r.Raw.StatusCode()
}

func (r *Response) Body() []byte {
	return r.Raw.Body()
}

// RequestInterceptor mutates an outgoing request before it is issued.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor transforms an incoming response, possibly replacing
// it with the result of follow-up requests (redirects, login submission).
type ResponseInterceptor func(ctx context.Context, res *Response) (*Response, error)
