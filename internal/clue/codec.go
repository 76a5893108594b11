package clue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a feed file (YAML or JSON) and validates it.
// Format is detected by extension (.yaml/.yml → YAML, .json → JSON) or by content.
func LoadFromPath(path string) (Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clue feed: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses a feed from bytes. ext is a format hint (".json", ".yaml");
// empty means detect from content: a leading '[' is JSON, anything else YAML.
func Decode(data []byte, ext string) (Feed, error) {
	var feed Feed
	switch normalizeExt(ext, data) {
	case ".json":
		if err := json.Unmarshal(data, &feed); err != nil {
			return nil, fmt.Errorf("parse clue feed json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &feed); err != nil {
			return nil, fmt.Errorf("parse clue feed yaml: %w", err)
		}
	}
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	return feed, nil
}

// Encode serializes a feed. ext selects the format the same way as Decode;
// empty means JSON.
func Encode(feed Feed, ext string) ([]byte, error) {
	if normalizeExt(ext, nil) == ".yaml" {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(feed); err != nil {
			return nil, fmt.Errorf("encode clue feed yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode clue feed yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode clue feed json: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile encodes the feed using the format implied by path's extension.
func WriteFile(path string, feed Feed) error {
	data, err := Encode(feed, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write clue feed: %w", err)
	}
	return nil
}

func normalizeExt(ext string, data []byte) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".yml", ".yaml":
		return ".yaml"
	case ".json":
		return ".json"
	}
	if data == nil {
		return ".json"
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		return ".json"
	}
	return ".yaml"
}
