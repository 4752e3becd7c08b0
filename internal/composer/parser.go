package composer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// tweetMax is the hard per-tweet cap, counted in characters, not bytes:
// emoji and accented text must not shrink the budget. Candidates over
// the cap are dropped, not truncated; a silently clipped tweet is worse
// than a shorter thread.
const tweetMax = 280

var (
	slashNumbered = regexp.MustCompile(`^\s*(\d+)/(\d*)\s+(.*)$`)
	dotNumbered   = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.*)$`)
)

// ParseThread extracts tweets from a reply. Accepts "1/ text", "1/7 text",
// and "1. text" layouts; anything else is ignored. A reply with no
// recognizable tweets yields an empty slice.
func ParseThread(reply string) []string {
	var tweets []string
	for _, line := range strings.Split(reply, "\n") {
		var text string
		if m := slashNumbered.FindStringSubmatch(line); m != nil {
			text = strings.TrimSpace(m[3])
		} else if m := dotNumbered.FindStringSubmatch(line); m != nil {
			text = strings.TrimSpace(m[2])
		} else {
			continue
		}
		if text == "" || utf8.RuneCountInString(text) > tweetMax {
			continue
		}
		tweets = append(tweets, text)
	}
	return tweets
}
