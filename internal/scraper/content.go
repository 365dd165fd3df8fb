package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Tags that never contain job description content.
var junkTags = map[string]bool{
	"nav": true, "footer": true, "header": true, "aside": true,
	"script": true, "style": true, "noscript": true, "iframe": true,
	"form": true, "svg": true,
}

var headingLevel = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 4, "h6": 4,
}

var blockTags = map[string]bool{
	"div": true, "section": true, "article": true, "main": true,
	"ul": true, "ol": true, "table": true, "tbody": true, "thead": true,
	"tr": true, "p": true, "li": true, "body": true, "html": true,
	"blockquote": true,
}

// UI chrome that survives container extraction on some boards.
var uiLines = map[string]bool{
	"apply now": true, "apply for this job": true, "share": true,
	"save job": true, "sign in": true, "log in": true,
	"create account": true, "back to jobs": true, "share this job": true,
	"print": true, "email": true, "copy link": true,
}

var jobKeywordRe = regexp.MustCompile(`(?i)(responsibilit|qualificat|requirement|experience|skill|` +
	`you\s+will|what\s+you|about\s+the\s+role|the\s+role|` +
	`minimum\s+qualif|preferred\s+qualif|nice\s+to\s+have|` +
	`must\s+have|years?\s+of\s+experience)`)

// Headings that open boilerplate sections (EEO, benefits, culture).
var noiseHeadingRe = regexp.MustCompile(`(?i)^#{1,4}\s*(` +
	`equal\s+opportunity|eeo\b|e\.e\.o|` +
	`our\s+(culture|values|mission|vision|story|team)|` +
	`about\s+(us|the\s+company|our\s+company)|` +
	`why\s+(join|you.ll\s+love|work\s+here)|` +
	`what\s+we\s+offer|` +
	`benefits\b|perks\b|` +
	`compensation\s*(and|&)\s*benefits|` +
	`how\s+to\s+apply|` +
	`privacy\s+(policy|notice)|` +
	`cookie|disclaimer|` +
	`accommodation|` +
	`diversity.{0,20}(equity|inclusion)|` +
	`additional\s+information` +
	`)`)

var contentHeadingRe = regexp.MustCompile(`(?i)(responsibilit|qualificat|requirement|skill|` +
	`what\s+you|about\s+the\s+role|the\s+role|key\s+duties|experience)`)

var salaryRe = regexp.MustCompile(`(?i)\$[0-9,]+(?:\.[0-9]{2})?\s*(?:-|–|—|to)\s*` +
	`\$[0-9,]+(?:\.[0-9]{2})?(?:\s*(?:per\s+)?(?:year|yr|annually|hour|hr))?`)

var spaceRe = regexp.MustCompile(`\s+`)

func stripJunk(doc *goquery.Document) {
	for tag := range junkTags {
		doc.Find(tag).Remove()
	}
}

// firstText walks a comma-separated selector list and returns the first
// non-empty match. Image nodes fall back to their alt text (e.g. the
// Lever company logo).
func firstText(doc *goquery.Document, selectors string) string {
	for _, sel := range strings.Split(selectors, ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if t := normalizeSpace(el.Text()); t != "" {
			return t
		}
		if el.Is("img") {
			if alt := strings.TrimSpace(el.AttrOr("alt", "")); alt != "" {
				return alt
			}
		}
	}
	return ""
}

func extractMetadata(doc *goquery.Document, profile *Profile, p *Posting) {
	if profile != nil {
		if p.Title == "" {
			p.Title = firstText(doc, profile.TitleSelector)
		}
		if p.Company == "" {
			p.Company = firstText(doc, profile.CompanySelector)
		}
		if p.Location == "" {
			p.Location = firstText(doc, profile.LocationSelector)
		}
	}

	if p.Title == "" {
		if og, ok := metaProperty(doc, "og:title"); ok {
			p.Title = trimTitleSuffix(og)
		} else if t := normalizeSpace(doc.Find("title").First().Text()); t != "" {
			p.Title = trimTitleSuffix(t)
		} else {
			p.Title = normalizeSpace(doc.Find("h1").First().Text())
		}
	}

	if p.Company == "" {
		if og, ok := metaProperty(doc, "og:site_name"); ok {
			p.Company = og
		}
	}

	if p.SalaryRange == "" {
		if m := salaryRe.FindString(doc.Text()); m != "" {
			p.SalaryRange = strings.TrimSpace(m)
		}
	}
}

func metaProperty(doc *goquery.Document, property string) (string, bool) {
	content := ""
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("property", "") != property {
			return true
		}
		content = strings.TrimSpace(s.AttrOr("content", ""))
		return content == ""
	})
	return content, content != ""
}

// trimTitleSuffix drops the "| Company" / "- Board name" tail that page
// titles carry. Separators must be space-delimited so hyphenated titles
// like "Front-End Engineer" survive.
func trimTitleSuffix(t string) string {
	for _, sep := range []string{" | ", " – ", " - "} {
		if i := strings.Index(t, sep); i > 0 {
			t = t[:i]
		}
	}
	return strings.TrimSpace(t)
}

// findContentContainer picks the DOM element most likely to hold the job
// description: ATS selector first, generic selectors next, then a
// keyword-scored heuristic.
func findContentContainer(doc *goquery.Document, profile *Profile) *goquery.Selection {
	if profile != nil {
		for _, sel := range strings.Split(profile.ContentSelector, ",") {
			el := doc.Find(strings.TrimSpace(sel)).First()
			if el.Length() > 0 && len(normalizeSpace(el.Text())) > 100 {
				return el
			}
		}
	}

	for _, sel := range genericContentSelectors {
		el := doc.Find(sel).First()
		if el.Length() > 0 && len(normalizeSpace(el.Text())) > 200 {
			return el
		}
	}

	var best *goquery.Selection
	bestScore := 0
	doc.Find("div,section,article").Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(s.Text())
		n := len(text)
		if n < 200 || n > 20000 {
			return
		}
		score := n + len(jobKeywordRe.FindAllString(text, -1))*500
		if score > bestScore {
			bestScore = score
			best = s
		}
	})
	return best
}

// renderBlocks flattens a content container into markdown-ish text:
// headings become "#" lines, list items become "-" lines.
func renderBlocks(sel *goquery.Selection) string {
	if sel == nil || len(sel.Nodes) == 0 {
		return ""
	}
	var lines []string
	walkBlocks(sel.Nodes[0], &lines)
	return strings.Join(lines, "\n")
}

func walkBlocks(n *html.Node, out *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := normalizeSpace(n.Data); t != "" {
			*out = append(*out, t)
		}
	case html.ElementNode:
		name := n.Data
		if junkTags[name] {
			return
		}
		if lvl, ok := headingLevel[name]; ok {
			if t := inlineText(n); t != "" {
				*out = append(*out, "", strings.Repeat("#", lvl)+" "+t, "")
			}
			return
		}
		if name == "li" {
			if t := inlineText(n); t != "" {
				*out = append(*out, "- "+t)
			}
			return
		}
		if name == "br" {
			*out = append(*out, "")
			return
		}
		if hasBlockChild(n) {
			if blockTags[name] {
				*out = append(*out, "")
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walkBlocks(c, out)
			}
			return
		}
		if t := inlineText(n); t != "" {
			*out = append(*out, t)
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkBlocks(c, out)
		}
	}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if blockTags[c.Data] {
				return true
			}
			if _, ok := headingLevel[c.Data]; ok {
				return true
			}
			if hasBlockChild(c) {
				return true
			}
		}
	}
	return false
}

func inlineText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
			b.WriteString(" ")
			return
		}
		if m.Type == html.ElementNode && junkTags[m.Data] {
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return normalizeSpace(b.String())
}

// cleanText normalizes rendered text: blank collapse, nav remnants and
// UI chrome dropped, trailing boilerplate sections trimmed.
func cleanText(raw string, trimNoise bool) string {
	var cleaned []string
	prevBlank := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, " \t")

		if strings.TrimSpace(line) == "" {
			if !prevBlank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			prevBlank = true
			continue
		}
		prevBlank = false

		if len(line) < 4 && !strings.HasPrefix(line, "#") {
			continue
		}
		if uiLines[strings.ToLower(strings.TrimSpace(line))] {
			continue
		}
		cleaned = append(cleaned, line)
	}

	text := strings.TrimSpace(strings.Join(cleaned, "\n"))
	if trimNoise {
		text = trimNoiseSections(text)
	}
	return text
}

// trimNoiseSections cuts from the first boilerplate heading onward
// unless a substantive section heading follows it; never trims more
// than 60% of the content.
func trimNoiseSections(text string) string {
	lines := strings.Split(text, "\n")

	firstNoise := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if noiseHeadingRe.MatchString(trimmed) {
			if firstNoise == -1 {
				firstNoise = i
			}
			continue
		}
		if firstNoise != -1 && strings.HasPrefix(trimmed, "#") && contentHeadingRe.MatchString(trimmed) {
			firstNoise = -1
		}
	}

	if firstNoise == -1 {
		return text
	}

	result := strings.TrimSpace(strings.Join(lines[:firstNoise], "\n"))
	if len(result) < len(text)*2/5 {
		return text
	}
	return result
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
