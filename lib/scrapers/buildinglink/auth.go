package buildinglink

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"aptassist-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

// LoginError is returned when the portal rejects a login submission. the
// message is the portal's own validation text when one could be
// extracted, otherwise empty.
type LoginError struct {
	StatusCode int
	Message    string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login rejected (status %d): %s", e.StatusCode, e.Message)
}

// handleAuthentication runs last in the response chain. when the session
// cookie is missing it treats the page's first form as the portal's login
// form, fills in the credentials and submits it through the full
// pipeline. once authenticated it is a no-op, which is what stops every
// later request from trying to resubmit a form that is no longer there.
func (c *Client) handleAuthentication(ctx context.Context, res *Response) (*Response, error) {
	if c.Session.IsAuthenticated() {
		return res, nil
	}
	if res.Document == nil {
		return res, nil
	}
	form := res.Document.Find("form").First()
	if form.Length() == 0 {
		return res, nil
	}

	ctx, span := tracer.Start(ctx, "client:submitLogin")
	defer span.End()

	// a form without an action submits to the page it came from
	target := res.Url
	if action := form.AttrOr("action", ""); action != "" {
		parsed, err := res.Url.Parse(action)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to resolve form action")
			return nil, err
		}
		target = parsed
	}

	// hidden fields carry anti-forgery tokens, return URLs and OIDC
	// parameters; they pass through verbatim
	payload := htmlutil.FormValues(form)
	payload.Set("Username", c.opts.Username)
	payload.Set("Password", c.opts.Password)

	// the OIDC callback form echoes the token fields back to the portal.
	// snapshot them now, whether or not the submission succeeds, since
	// the values are already known at this point.
	if strings.Contains(target.Path, oidcPathMarker) {
		token := Token{}
		for name := range payload {
			token[name] = payload.Get(name)
		}
		c.Session.SetToken(token)
		slog.DebugContext(ctx, "captured oidc token", "action", target.String())
	}

	slog.DebugContext(ctx, "submitting login form", "action", target.String())
	submission, err := c.Fetch(ctx, target.String(), FetchOptions{
		Method: http.MethodPost,
		Header: map[string]string{"content-type": "application/x-www-form-urlencoded"},
		Body:   payload.Encode(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login submission failed")
		return nil, err
	}

	if submission.StatusCode() != http.StatusOK {
		loginErr := &LoginError{
			StatusCode: submission.StatusCode(),
			Message:    validationSummary(submission),
		}
		span.RecordError(loginErr)
		span.SetStatus(codes.Error, "portal rejected login")
		return nil, loginErr
	}

	// the submission response replaces the original; it already received
	// its own full interceptor pass through the recursive Fetch
	return submission, nil
}

var validationSummaryRegex = regexp.MustCompile(`(?s)<div class="validation-summary-errors">(.*?)</div>`)

// validationSummary pulls the first ASP.NET validation-summary error
// block out of a rejected login page.
func validationSummary(res *Response) string {
	if res.Document != nil {
		return strings.TrimSpace(res.Document.Find("div.validation-summary-errors").First().Text())
	}
	groups := validationSummaryRegex.FindSubmatch(res.Body())
	if len(groups) < 2 {
		return ""
	}
	return strings.TrimSpace(string(groups[1]))
}
