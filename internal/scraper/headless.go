package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// fetchRenderedHTML loads the page in a headless browser and returns
// the rendered DOM. Needed for boards (Workday in particular) that
// deliver an empty shell to plain HTTP clients.
func fetchRenderedHTML(ctx context.Context, jobURL string, profile *Profile) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 45*time.Second)
	defer reqCancel()

	wait := "body"
	extraWait := 1500 * time.Millisecond
	if profile != nil {
		if profile.WaitSelector != "" {
			wait = profile.WaitSelector
		}
		if profile.ExtraWait > 0 {
			extraWait = profile.ExtraWait
		}
	}

	var rendered string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(jobURL),
		chromedp.WaitReady(wait, chromedp.ByQuery),
		chromedp.Sleep(extraWait),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("headless fetch %s: %w", jobURL, err)
	}
	if strings.TrimSpace(rendered) == "" {
		return "", fmt.Errorf("headless fetch %s: empty document", jobURL)
	}
	return rendered, nil
}
