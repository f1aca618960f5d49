package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs (including newlines from markup
// indentation) into single spaces and strips non-printable runes from
// scraped text.
func CleanText(s string) string {
	s = whitespaceRuns.ReplaceAllString(s, " ")
	printable := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			printable.WriteRune(c)
		}
	}
	return strings.TrimSpace(printable.String())
}

type Anchor struct {
	Name string
	Href string
}

func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		link, err := url.Parse(href)
		if err != nil {
			continue
		}
		anchors = append(anchors, Anchor{
			Name: CleanText(GetText(n)),
			Href: link.String(),
		})
	}
	return anchors
}

// FormValues collects every <input> under a form into name -> value pairs,
// using the value attribute as the field value. inputs without a name are
// skipped.
func FormValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		values.Set(name, input.AttrOr("value", ""))
	})
	return values
}
