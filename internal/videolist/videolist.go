package videolist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/textutil"
)

// VideoRef identifies one video to transcribe.
type VideoRef struct {
	VideoID string
	URL     string
	Title   string
}

// rawEntry accepts both a bare URL string and a {url, title} object.
type rawEntry struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
}

func (e *rawEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.URL = s
		return nil
	}
	type plain rawEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = rawEntry(p)
	return nil
}

func (e *rawEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.URL = value.Value
		return nil
	}
	type plain rawEntry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = rawEntry(p)
	return nil
}

// Load reads an ordered video list from a JSON or YAML file (selected by
// extension). Duplicate video IDs are collapsed to their first occurrence with
// a warning. An unreadable, malformed, or empty list is a configuration error.
func Load(path string, logger *slog.Logger) ([]VideoRef, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "list", "read", fmt.Sprintf("video list %q", path), err)
	}

	var entries []rawEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "list", "parse", fmt.Sprintf("video list %q", path), err)
		}
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "list", "parse", fmt.Sprintf("video list %q", path), err)
		}
	}

	refs := make([]VideoRef, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		rawURL := strings.TrimSpace(entry.URL)
		if rawURL == "" {
			return nil, services.Wrap(services.ErrValidation, "list", "parse", fmt.Sprintf("entry %d has no url", i), nil)
		}
		videoID := ExtractVideoID(rawURL)
		if videoID == "" {
			return nil, services.Wrap(services.ErrValidation, "list", "parse", fmt.Sprintf("entry %d: cannot derive video id from %q", i, rawURL), nil)
		}
		if _, dup := seen[videoID]; dup {
			logger.Warn("duplicate video in list, keeping first occurrence",
				logging.String("video_id", videoID),
				logging.String("url", rawURL))
			continue
		}
		seen[videoID] = struct{}{}
		refs = append(refs, VideoRef{
			VideoID: videoID,
			URL:     rawURL,
			Title:   strings.TrimSpace(entry.Title),
		})
	}

	if len(refs) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "list", "parse", fmt.Sprintf("video list %q is empty", path), nil)
	}
	return refs, nil
}

// ExtractVideoID derives a stable identifier from a video URL. YouTube watch
// URLs use the v query parameter, youtu.be short links use the path, and
// anything else falls back to the last path segment. The result is sanitized
// because it names files under staging and the library.
func ExtractVideoID(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	if strings.Contains(trimmed, "youtube") || strings.Contains(trimmed, "youtu.be") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if strings.Contains(parsed.Host, "youtube") {
				if v := parsed.Query().Get("v"); v != "" {
					return textutil.SanitizeFileName(v)
				}
			} else {
				if id := strings.Trim(parsed.Path, "/"); id != "" {
					return textutil.SanitizeFileName(id)
				}
			}
		}
	}

	trimmed = strings.TrimRight(trimmed, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	// Drop query strings left on the final segment.
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return textutil.SanitizeFileName(trimmed)
}
