package service

import (
	"strings"
	"testing"
)

const soundcloudEmbed = `<iframe width="100%" height="166" frameborder="no" src="https://w.soundcloud.com/player/?url=https%3A//api.soundcloud.com/tracks/1"></iframe>`
const spotifyEmbed = `<iframe src="https://open.spotify.com/embed/track/abc123" width="300" height="80" frameborder="0"></iframe>`

func TestSanitizeEmbedsKeepsWhitelistedPlayers(t *testing.T) {
	out := sanitizeEmbeds([]string{soundcloudEmbed}, "soundcloud")
	if len(out) != 1 {
		t.Fatalf("got %d embeds, want 1", len(out))
	}
	if !strings.Contains(out[0], "w.soundcloud.com/player/") {
		t.Errorf("src lost: %s", out[0])
	}

	out = sanitizeEmbeds([]string{spotifyEmbed}, "spotify")
	if len(out) != 1 {
		t.Fatalf("got %d spotify embeds, want 1", len(out))
	}
}

func TestSanitizeEmbedsDrops(t *testing.T) {
	tests := []struct {
		name     string
		snippet  string
		provider string
	}{
		{
			name:     "script element",
			snippet:  `<script>alert(1)</script>`,
			provider: "soundcloud",
		},
		{
			name:     "wrong host",
			snippet:  `<iframe src="https://evil.example.com/player/"></iframe>`,
			provider: "soundcloud",
		},
		{
			name:     "provider mismatch",
			snippet:  spotifyEmbed,
			provider: "soundcloud",
		},
		{
			name:     "http downgrade",
			snippet:  `<iframe src="http://w.soundcloud.com/player/?url=x"></iframe>`,
			provider: "soundcloud",
		},
		{
			name:     "no src",
			snippet:  `<iframe width="100%"></iframe>`,
			provider: "soundcloud",
		},
		{
			name:     "plain text",
			snippet:  `just some text`,
			provider: "spotify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := sanitizeEmbeds([]string{tt.snippet}, tt.provider); len(out) != 0 {
				t.Errorf("kept unsafe snippet: %v", out)
			}
		})
	}
}

func TestSanitizeEmbedsStripsEventHandlers(t *testing.T) {
	dirty := `<iframe onload="alert(1)" src="https://open.spotify.com/embed/track/abc"></iframe>`
	out := sanitizeEmbeds([]string{dirty}, "spotify")
	if len(out) != 1 {
		t.Fatalf("embed dropped entirely, want attribute stripped")
	}
	if strings.Contains(out[0], "onload") {
		t.Errorf("event handler survived: %s", out[0])
	}
}

func TestSanitizeEmbedsCap(t *testing.T) {
	in := []string{soundcloudEmbed, soundcloudEmbed, soundcloudEmbed, soundcloudEmbed, soundcloudEmbed}
	out := sanitizeEmbeds(in, "soundcloud")
	if len(out) != maxEmbedsPerProvider {
		t.Errorf("got %d embeds, want cap %d", len(out), maxEmbedsPerProvider)
	}
}

func TestSanitizeEmbedsEmptyInput(t *testing.T) {
	if out := sanitizeEmbeds(nil, "soundcloud"); out == nil || len(out) != 0 {
		t.Errorf("nil input should yield empty non-nil slice, got %#v", out)
	}
}
