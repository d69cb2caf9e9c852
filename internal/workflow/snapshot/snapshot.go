package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/lib/logger/sl"
)

var (
	ErrElementNotFound = errors.New("card element not found")
	ErrCaptureFailed   = errors.New("card capture failed")
)

// Capturer rasterizes a rendered result card into a PNG through a headless
// browser. Captures run at 2x device scale so the output stays crisp on
// social feeds.
type Capturer struct {
	log        *slog.Logger
	browserBin string
	timeout    time.Duration
}

func New(log *slog.Logger, cfg config.Snapshot) *Capturer {
	return &Capturer{
		log:        log,
		browserBin: cfg.BrowserBin,
		timeout:    cfg.Timeout,
	}
}

// readyScript blocks until web fonts are loaded and every image in the card
// has finished decoding. Rasterizing before that point produces blank or
// misplaced text and images, so this wait is a correctness requirement.
const readyScript = `async () => {
	if (document.fonts && document.fonts.ready) {
		try { await document.fonts.ready; } catch (e) {}
	}
	const imgs = Array.from(document.images);
	await Promise.all(imgs.map((img) => {
		if (img.complete) return Promise.resolve();
		if (typeof img.decode === "function") {
			return img.decode().catch(() => undefined);
		}
		return new Promise((resolve) => {
			img.onload = () => resolve();
			img.onerror = () => resolve();
		});
	}));
	return true;
}`

// Capture renders pageURL, waits for fonts and images to settle, and
// screenshots the element matched by selector as a transparent PNG.
func (c *Capturer) Capture(ctx context.Context, pageURL, selector string) ([]byte, error) {
	const op = "snapshot.Capture"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	l := launcher.New().Headless(true)
	if c.browserBin != "" {
		l = l.Bin(c.browserBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err = browser.Connect(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			c.log.Error("failed to close browser", sl.Err(err))
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	err = (proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            1024,
		DeviceScaleFactor: 2,
		Mobile:            false,
	}).Call(page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	if err = page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	if _, err = page.Eval(readyScript); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	// Transparent page background so the card's own background wins.
	transparentAlpha := float64(0)
	err = (proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: &transparentAlpha},
	}).Call(page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	element, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrElementNotFound, err)
	}

	if err = element.ScrollIntoView(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	image, err := element.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptureFailed, err)
	}

	c.log.Info("card captured", sl.String("selector", selector), sl.Any("bytes", len(image)))

	return image, nil
}

// Filename builds the download name for a captured card. The result id wins
// when known; otherwise the draw date stands in.
func Filename(gameName string, resultID int64, drawDate time.Time) string {
	if resultID > 0 {
		return fmt.Sprintf("%s-%d.png", gameName, resultID)
	}

	return fmt.Sprintf("%s-%s.png", gameName, drawDate.Format("2006-01-02"))
}
