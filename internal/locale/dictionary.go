package locale

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed dictionaries/*.yaml
var dictionaryFiles embed.FS

// Dictionaries holds the static UI strings for every bundled language,
// flattened to dotted keys ("nav.home").
type Dictionaries struct {
	fallback string
	entries  map[string]map[string]string
}

var (
	bundledOnce sync.Once
	bundled     *Dictionaries
	bundledErr  error
)

// Bundled parses the embedded dictionaries once.
func Bundled(fallback string) (*Dictionaries, error) {
	bundledOnce.Do(func() {
		bundled, bundledErr = loadDictionaries()
	})
	if bundledErr != nil {
		return nil, bundledErr
	}
	return bundled.withFallback(fallback), nil
}

func loadDictionaries() (*Dictionaries, error) {
	files, err := dictionaryFiles.ReadDir("dictionaries")
	if err != nil {
		return nil, err
	}

	entries := make(map[string]map[string]string, len(files))
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		raw, err := dictionaryFiles.ReadFile(path.Join("dictionaries", name))
		if err != nil {
			return nil, err
		}
		flat, err := ParseDictionary(raw)
		if err != nil {
			return nil, fmt.Errorf("parse dictionary %s: %w", name, err)
		}
		entries[strings.TrimSuffix(name, ".yaml")] = flat
	}
	return &Dictionaries{entries: entries}, nil
}

func (d *Dictionaries) withFallback(fallback string) *Dictionaries {
	return &Dictionaries{fallback: baseOf(fallback), entries: d.entries}
}

// ParseDictionary decodes a nested YAML document into dotted keys.
func ParseDictionary(raw []byte) (map[string]string, error) {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	flatten("", tree, flat)
	return flat, nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]interface{}:
			flatten(full, typed, out)
		case nil:
			out[full] = ""
		default:
			out[full] = fmt.Sprint(typed)
		}
	}
}

// Languages lists languages that ship a dictionary, sorted.
func (d *Dictionaries) Languages() []string {
	langs := make([]string, 0, len(d.entries))
	for lang := range d.entries {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Lookup returns the dictionary for lang. Keys missing in lang are filled from
// the fallback language; an unknown lang yields the fallback dictionary.
func (d *Dictionaries) Lookup(lang string) (string, map[string]string) {
	code := baseOf(lang)
	base := d.entries[d.fallback]

	selected, ok := d.entries[code]
	if !ok {
		code = d.fallback
		selected = base
	}

	merged := make(map[string]string, len(base)+len(selected))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range selected {
		merged[key] = value
	}
	return code, merged
}
