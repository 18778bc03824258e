package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// LaunchOptions configure the shared chromium instance.
type LaunchOptions struct {
	Headless bool
	SlowMo   time.Duration
	Install  bool // download the driver and browsers before starting
}

// Launcher owns the playwright driver and one browser, pages get their own context.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Launch starts playwright and chromium.
func Launch(opts LaunchOptions) (*Launcher, error) {
	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("run playwright: %w", err)
	}
	launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo / time.Millisecond))
	}
	b, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Launcher{pw: pw, browser: b}, nil
}

// PageOptions configure one isolated browser context.
type PageOptions struct {
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	VideoDir          string // record video into this directory when set
}

// NewPage opens a fresh context (own cookies and storage) with a single page.
func (l *Launcher) NewPage(opts PageOptions) (*Page, error) {
	ctxOpts := playwright.BrowserNewContextOptions{AcceptDownloads: playwright.Bool(true)}
	if opts.VideoDir != "" {
		if err := os.MkdirAll(opts.VideoDir, 0o750); err != nil {
			return nil, fmt.Errorf("create video dir: %w", err)
		}
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: opts.VideoDir}
	}
	bctx, err := l.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	if opts.NavigationTimeout > 0 {
		bctx.SetDefaultNavigationTimeout(millis(opts.NavigationTimeout))
	}
	if opts.ActionTimeout > 0 {
		bctx.SetDefaultTimeout(millis(opts.ActionTimeout))
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	// confirm() prompts of delete actions must be accepted, playwright dismisses them by default
	page.OnDialog(func(d playwright.Dialog) { _ = d.Accept() })
	return &Page{ctx: bctx, page: page, recording: opts.VideoDir != ""}, nil
}

// Close stops the browser and the playwright driver.
func (l *Launcher) Close() error {
	var errs []error
	if err := l.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := l.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// Page implements Driver on top of a playwright page.
type Page struct {
	ctx       playwright.BrowserContext
	page      playwright.Page
	recording bool
}

// Goto navigates and waits for the load event.
func (p *Page) Goto(ctx context.Context, url string, timeout time.Duration) error {
	t, err := bound(ctx, timeout)
	if err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{Timeout: t}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// WaitVisible waits for the first match of selector to be visible.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	t, err := bound(ctx, timeout)
	if err != nil {
		return err
	}
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: t,
	})
}

// Fill types value into the first match of selector.
func (p *Page) Fill(ctx context.Context, selector, value string, timeout time.Duration) error {
	t, err := bound(ctx, timeout)
	if err != nil {
		return err
	}
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{Timeout: t})
}

// Click clicks the first match of selector.
func (p *Page) Click(ctx context.Context, selector string, timeout time.Duration) error {
	t, err := bound(ctx, timeout)
	if err != nil {
		return err
	}
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: t})
}

// URL returns the current page url.
func (p *Page) URL() string { return p.page.URL() }

// TextContent returns the text of the first match of selector.
func (p *Page) TextContent(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	t, err := bound(ctx, timeout)
	if err != nil {
		return "", err
	}
	return p.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{Timeout: t})
}

// InnerHTML returns the markup inside the first match of selector.
func (p *Page) InnerHTML(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	t, err := bound(ctx, timeout)
	if err != nil {
		return "", err
	}
	return p.page.Locator(selector).First().InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: t})
}

// Count returns the number of elements matching selector right now.
func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.page.Locator(selector).Count()
}

// Evaluate runs a function expression in the page.
func (p *Page) Evaluate(ctx context.Context, script string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.page.Evaluate(script)
}

// SetInputFiles attaches files to the first matching file input.
func (p *Page) SetInputFiles(ctx context.Context, selector string, files []string, timeout time.Duration) error {
	t, err := bound(ctx, timeout)
	if err != nil {
		return err
	}
	return p.page.Locator(selector).First().SetInputFiles(files, playwright.LocatorSetInputFilesOptions{Timeout: t})
}

// Download clicks selector, waits for the resulting download and saves it into dir
// under its suggested name. returns the saved path.
func (p *Page) Download(ctx context.Context, selector, dir string, timeout time.Duration) (string, error) {
	t, err := bound(ctx, timeout)
	if err != nil {
		return "", err
	}
	dl, err := p.page.ExpectDownload(func() error {
		return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: t})
	}, playwright.PageExpectDownloadOptions{Timeout: t})
	if err != nil {
		return "", fmt.Errorf("expect download: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(dl.SuggestedFilename()))
	if err := dl.SaveAs(dst); err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	return dst, nil
}

// Get issues a GET through the context request client, sharing cookies with the page.
func (p *Page) Get(ctx context.Context, url string, timeout time.Duration) (int, error) {
	t, err := bound(ctx, timeout)
	if err != nil {
		return 0, err
	}
	resp, err := p.ctx.Request().Get(url, playwright.APIRequestContextGetOptions{Timeout: t})
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Dispose() //nolint:errcheck // body is not read
	return resp.Status(), nil
}

// Screenshot saves a full-page png.
func (p *Page) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path), FullPage: playwright.Bool(true)})
	return err
}

// Close tears the context down. with keepVideo the recording is kept and its path returned,
// otherwise it is deleted.
func (p *Page) Close(keepVideo bool) (string, error) {
	var video playwright.Video
	if p.recording {
		video = p.page.Video()
	}
	if err := p.ctx.Close(); err != nil {
		return "", fmt.Errorf("close browser context: %w", err)
	}
	if video == nil {
		return "", nil
	}
	if !keepVideo {
		if err := video.Delete(); err != nil {
			return "", fmt.Errorf("delete video: %w", err)
		}
		return "", nil
	}
	path, err := video.Path()
	if err != nil {
		return "", fmt.Errorf("video path: %w", err)
	}
	return path, nil
}

// bound shrinks timeout to the time left on ctx and converts it to playwright millis.
// nil keeps the context default.
func bound(ctx context.Context, timeout time.Duration) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return nil, context.DeadlineExceeded
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, nil
	}
	return playwright.Float(millis(timeout)), nil
}

func millis(d time.Duration) float64 { return float64(d / time.Millisecond) }
