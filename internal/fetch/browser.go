package fetch

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var contactLinkRe = regexp.MustCompile(`(?i)contact|booking|about|info`)

// Browser is a rod-backed Client. One Browser (one Chromium process) is
// shared across an entire orchestrator run; each Fetch opens and closes its
// own isolated page.
type Browser struct {
	browser    *rod.Browser
	navTimeout time.Duration
}

// Launch starts a headless browser. A launch failure is fatal to the caller's
// run; there is no degraded mode.
func Launch(navTimeout time.Duration) (*Browser, error) {
	u, err := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, eris.Wrap(err, "fetch: launch browser")
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, eris.Wrap(err, "fetch: connect browser")
	}

	if navTimeout <= 0 {
		navTimeout = 8 * time.Second
	}
	return &Browser{browser: browser, navTimeout: navTimeout}, nil
}

// Close shuts the browser down. Safe to call after a failed run.
func (b *Browser) Close() error {
	if b.browser != nil {
		return b.browser.Close()
	}
	return nil
}

// Fetch navigates an isolated page to the URL and snapshots it. Stylesheet,
// image, font, and media loads are aborted to cut latency; the wait condition
// is DOMContentLoaded rather than network idle so slow ancillary assets do
// not burn the timeout. The page is closed on every exit path.
func (b *Browser) Fetch(ctx context.Context, target string) (*Result, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create page")
	}
	defer page.Close() //nolint:errcheck

	page = page.Context(ctx).Timeout(b.navTimeout)

	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: desktopUserAgent,
	})

	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		switch h.Request.Type() {
		case proto.NetworkResourceTypeStylesheet,
			proto.NetworkResourceTypeImage,
			proto.NetworkResourceTypeFont,
			proto.NetworkResourceTypeMedia:
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		default:
			h.ContinueRequest(&proto.FetchContinueRequest{})
		}
	})
	go router.Run()
	defer router.Stop() //nolint:errcheck

	var content string
	var links []string
	err = rod.Try(func() {
		wait := page.WaitEvent(&proto.PageDomContentEventFired{})
		page.MustNavigate(target)
		wait()

		html := page.MustHTML()

		// Rendered visible text; a page without a body still yields markup.
		text := ""
		if body, err := page.Element("body"); err == nil {
			text, _ = body.Text()
		}

		content = html + "\n" + text
		links = contactLinks(page, target)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: navigate %s", target)
	}

	return &Result{Content: content, ContactLinks: links}, nil
}

// contactLinks enumerates anchors whose visible text or href looks like a
// contact, booking, about, or info page and resolves them against the page
// URL. Best effort: element errors are skipped.
func contactLinks(page *rod.Page, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	anchors, err := page.Elements("a")
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, a := range anchors {
		href, err := a.Attribute("href")
		if err != nil || href == nil || *href == "" {
			continue
		}
		text, _ := a.Text()
		if !contactLinkRe.MatchString(text) && !contactLinkRe.MatchString(*href) {
			continue
		}
		if strings.HasPrefix(*href, "mailto:") || strings.HasPrefix(*href, "tel:") ||
			strings.HasPrefix(*href, "javascript:") || strings.HasPrefix(*href, "#") {
			continue
		}
		ref, err := url.Parse(*href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		u := resolved.String()
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
