package service

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxEmbedsPerProvider caps how many player embeds a profile may carry.
const maxEmbedsPerProvider = 3

// embedPolicy strips everything from a submitted embed snippet except a bare
// iframe with a small attribute allow-list. Scripts, event handlers, and
// non-iframe markup never survive.
var embedPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("iframe")
	p.AllowAttrs("src", "width", "height", "frameborder", "allow", "loading", "title").OnElements("iframe")
	return p
}()

var embedSrcPattern = regexp.MustCompile(`src="([^"]+)"`)

// embedHostPrefixes maps a provider name to the only src prefixes its
// embeds may use.
var embedHostPrefixes = map[string][]string{
	"soundcloud": {"https://w.soundcloud.com/player/"},
	"spotify":    {"https://open.spotify.com/embed/"},
}

// sanitizeEmbeds cleans a submitted list of embed snippets for the given
// provider. Snippets that do not reduce to a single iframe pointing at the
// provider's player host are dropped, and the list is capped.
func sanitizeEmbeds(raw []string, provider string) []string {
	out := []string{}
	for _, snippet := range raw {
		clean, ok := sanitizeEmbed(snippet, provider)
		if !ok {
			continue
		}
		out = append(out, clean)
		if len(out) == maxEmbedsPerProvider {
			break
		}
	}
	return out
}

func sanitizeEmbed(snippet, provider string) (string, bool) {
	clean := strings.TrimSpace(embedPolicy.Sanitize(snippet))
	if clean == "" || !strings.HasPrefix(clean, "<iframe") {
		return "", false
	}

	m := embedSrcPattern.FindStringSubmatch(clean)
	if m == nil {
		return "", false
	}

	for _, prefix := range embedHostPrefixes[provider] {
		if strings.HasPrefix(m[1], prefix) {
			return clean, true
		}
	}
	return "", false
}
