package youtube

import (
	"errors"
	"regexp"
)

var ErrInvalidURL = errors.New("not a YouTube video url")

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]+)`),
}

// ExtractVideoID returns the video identifier found in a watch, short-link,
// embed or shorts URL.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch page of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
