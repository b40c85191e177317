// package report renders an acquired listening profile to Markdown and HTML
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/russross/blackfriday/v2"
	"github.com/soundprint/soundprint/internal/models"
)

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}

// ToMarkdown renders a [models.Library] as a Markdown document.
func ToMarkdown(lib *models.Library) []byte {
	var buf bytes.Buffer

	name := lib.Profile.DisplayName
	if name == "" {
		name = lib.Profile.ID
	}

	buf.WriteString(fmt.Sprintf("# Listening profile: %s\n\n", name))
	buf.WriteString(fmt.Sprintf("**Followers**: %d\n\n", lib.Profile.Followers))

	buf.WriteString("## Top Artists\n\n")
	if len(lib.Artists) == 0 {
		buf.WriteString("_No top artists._\n")
	}
	for i, artist := range lib.Artists {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, artist.Name, artist.ExternalURL))
	}
	buf.WriteString("\n")

	buf.WriteString("## Top Tracks\n\n")
	if len(lib.Tracks) == 0 {
		buf.WriteString("_No top tracks._\n")
	}
	for i, track := range lib.Tracks {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, track.Name, track.ExternalURL))
	}
	buf.WriteString("\n")

	buf.WriteString("## Playlists\n\n")
	if len(lib.Playlists) == 0 {
		buf.WriteString("_No playlists._\n")
	}
	for _, playlist := range lib.Playlists {
		buf.WriteString(fmt.Sprintf("### [%s](%s)\n\n", playlist.Name, playlist.ExternalURL))
		if playlist.Description != "" {
			buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", playlist.Description))
		}
		buf.WriteString(fmt.Sprintf("**Owner**: [%s](%s)\n", playlist.OwnerDisplayName, playlist.OwnerExternalURL))
		buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", playlist.TrackCount))
		buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", visibility(playlist.Public)))

		if playlist.Tracks == nil {
			buf.WriteString("_Track list unavailable for this playlist._\n\n")
			continue
		}

		for i, track := range playlist.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, track.Name))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ToHTML renders a [models.Library] as a standalone HTML page.
//
// The Markdown rendering is converted with blackfriday and wrapped in a
// minimal page shell.
func ToHTML(lib *models.Library) []byte {
	body := blackfriday.Run(ToMarkdown(lib))

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString(fmt.Sprintf("<title>Listening profile: %s</title>\n", lib.Profile.DisplayName))
	buf.WriteString(`<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
         max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { color: #1DB954; }
  a { color: #1DB954; }
</style>
`)
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")

	return buf.Bytes()
}

// WriteResult contains the paths of the files produced by [Write].
type WriteResult struct {
	MarkdownPath string
	HTMLPath     string
}

// Write renders the library to report.md and report.html in outputDir,
// creating the directory when needed.
func Write(lib *models.Library, outputDir string) (*WriteResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &WriteResult{
		MarkdownPath: filepath.Join(outputDir, "report.md"),
		HTMLPath:     filepath.Join(outputDir, "report.html"),
	}

	if err := os.WriteFile(result.MarkdownPath, ToMarkdown(lib), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown report: %w", err)
	}

	if err := os.WriteFile(result.HTMLPath, ToHTML(lib), 0644); err != nil {
		return nil, fmt.Errorf("failed to write HTML report: %w", err)
	}

	return result, nil
}
