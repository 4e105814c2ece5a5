package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes bundle files. The document root is keyed by language code;
// each language holds "messages" and "rules" sections.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]*Bundle, error)
	SupportsFileExtension(ext string) bool
}

// YAMLParser parses YAML bundle documents.
type YAMLParser struct{}

func (YAMLParser) Parse(ctx context.Context, content []byte) (map[string]*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrParsingCancelled, err)
	}
	var raw map[string]rawBundle
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return buildBundles(raw)
}

func (YAMLParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}

// JSONParser parses JSON bundle documents.
type JSONParser struct{}

func (JSONParser) Parse(ctx context.Context, content []byte) (map[string]*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrParsingCancelled, err)
	}
	var raw map[string]rawBundle
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return buildBundles(raw)
}

func (JSONParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}

// NewParserForFile returns a parser based on the file extension, or nil.
func NewParserForFile(filename string) Parser {
	ext := filepath.Ext(filename)
	for _, p := range []Parser{YAMLParser{}, JSONParser{}} {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}

// LoadFile reads and parses a bundle file, choosing the parser by extension.
func LoadFile(ctx context.Context, path string) (map[string]*Bundle, error) {
	parser := NewParserForFile(path)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileFormat, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return parser.Parse(ctx, content)
}

func buildBundles(raw map[string]rawBundle) (map[string]*Bundle, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no languages found", ErrInvalidBundle)
	}
	out := make(map[string]*Bundle, len(raw))
	for lang, section := range raw {
		tag, err := normalizeLang(lang)
		if err != nil {
			return nil, err
		}
		b, err := section.build(tag)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		out[tag] = b
	}
	return out, nil
}
