package share

import (
	"fmt"
	"net/url"
	"strings"

	"resultpost/internal/config"
	"resultpost/internal/workflow/publish"
)

// Composer derives share text and outbound share intents from a published
// result. All of its methods are pure: identical inputs always produce
// identical output, so a preview can be rendered before any network write.
type Composer struct {
	Brand          string
	SiteURL        string
	DefaultHashtag string
}

func NewComposer(cfg config.Share) *Composer {
	return &Composer{
		Brand:          cfg.Brand,
		SiteURL:        cfg.SiteURL,
		DefaultHashtag: cfg.DefaultHashtag,
	}
}

// BuildCaption returns the result's precomputed share copy verbatim (trimmed)
// when present, otherwise synthesizes the caption from the stored numbers.
func (c *Composer) BuildCaption(result *publish.PublishedResult) string {
	if copyText := strings.TrimSpace(result.ShareCopy); copyText != "" {
		return copyText
	}

	date := result.DrawDatetime.Format("2006-01-02")
	drawTime := result.DrawDatetime.Format("15:04")

	caption := fmt.Sprintf("%s • %s • %s %s\nWinning: %s",
		c.Brand, result.GameName, date, drawTime, joinNumbers(result.WinningNumbers))

	if len(result.MachineNumbers) > 0 {
		caption += " • Bonus: " + joinNumbers(result.MachineNumbers)
	}

	return caption
}

// Hashtags returns the result's stored hashtag list, or the default brand
// hashtag when none is stored. Every tag is normalized to start with '#'.
func (c *Composer) Hashtags(result *publish.PublishedResult) []string {
	stored := result.ShareHashtags
	if len(stored) == 0 {
		stored = []string{c.DefaultHashtag}
	}

	tags := make([]string, 0, len(stored))

	for _, tag := range stored {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}

		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}

		tags = append(tags, tag)
	}

	return tags
}

// BuildShareText is the full text handed to a compose window: the caption,
// then a blank line and the space-joined hashtags when any exist.
func (c *Composer) BuildShareText(result *publish.PublishedResult) string {
	caption := c.BuildCaption(result)

	tags := c.Hashtags(result)
	if len(tags) == 0 {
		return caption
	}

	return caption + "\n\n" + strings.Join(tags, " ")
}

// Outcome is the resolution of a platform dispatch. An unknown platform
// yields the zero Outcome: nothing observable, never a failure.
type Outcome struct {
	Kind         config.PlatformKind
	Target       string
	Instructions string
}

// Resolve maps a platform to its share intent. Link platforms get their
// official compose endpoint with URL-encoded text, canonical link and
// hashtags; manual platforms get posting instructions instead.
func (c *Composer) Resolve(platform config.Platform, text string, hashtags []string, canonicalURL string) Outcome {
	platformCfg, ok := config.SharePlatforms[platform]
	if !ok {
		return Outcome{}
	}

	if canonicalURL == "" {
		canonicalURL = c.SiteURL
	}

	if len(hashtags) == 0 {
		hashtags = []string{c.DefaultHashtag}
	}

	if platformCfg.Kind == config.KindManual {
		return Outcome{
			Kind: config.KindManual,
			Instructions: fmt.Sprintf("%s has no web compose endpoint. Download the result card image, "+
				"open %s and post it with the copied caption.", platformCfg.Name, platformCfg.Name),
		}
	}

	encodedText := encode(text)
	encodedURL := encode(canonicalURL)
	encodedTags := encode(strings.Join(stripHashes(hashtags), ","))

	var target string

	switch platform {
	case config.Facebook:
		target = "https://www.facebook.com/sharer/sharer.php?u=" + encodedURL + "&quote=" + encodedText
	case config.Twitter:
		target = "https://twitter.com/intent/tweet?text=" + encodedText + "&url=" + encodedURL + "&hashtags=" + encodedTags
	case config.Telegram:
		target = "https://t.me/share/url?url=" + encodedURL + "&text=" + encodedText
	case config.WhatsApp:
		target = "https://api.whatsapp.com/send?text=" + encodedText + "%20" + encodedURL
	}

	return Outcome{
		Kind:   config.KindLink,
		Target: target,
	}
}

func joinNumbers(values []int) string {
	fragments := make([]string, len(values))
	for i, v := range values {
		fragments[i] = fmt.Sprintf("%d", v)
	}

	return strings.Join(fragments, ", ")
}

func stripHashes(tags []string) []string {
	stripped := make([]string, 0, len(tags))
	for _, tag := range tags {
		stripped = append(stripped, strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	}

	return stripped
}

// encode matches the encoding compose endpoints expect: percent-encoding
// with spaces as %20, not '+'.
func encode(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
