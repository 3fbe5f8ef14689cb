package ner

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// GeonamesPrefix selects the gazetteer backend, e.g. "geonames:PL".
const GeonamesPrefix = "geonames:"

// LabelPlace is the label the gazetteer assigns to every match.
const LabelPlace = "GPE"

const maxGazetteerWords = 4

var wordPattern = regexp.MustCompile(`\p{L}[\p{L}'\-]*`)

// Gazetteer tags populated place names listed in a GeoNames country dump.
type Gazetteer struct {
	names    map[string]string // folded name -> canonical name
	maxWords int
}

// ParseGeonames reads a GeoNames dump (tab separated, one place per line)
// and keeps names of feature class P.
func ParseGeonames(r io.Reader) (*Gazetteer, error) {
	g := &Gazetteer{names: make(map[string]string), maxWords: 1}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 7 || fields[6] != "P" {
			continue
		}
		g.add(fields[1])
		g.add(fields[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan geonames: %w", err)
	}
	if len(g.names) == 0 {
		return nil, fmt.Errorf("%w: no populated places in dump", ErrUnavailable)
	}
	return g, nil
}

func (g *Gazetteer) add(name string) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 3 {
		return
	}
	words := len(strings.Fields(name))
	if words > maxGazetteerWords {
		return
	}
	key := foldName(name)
	if _, ok := g.names[key]; !ok {
		g.names[key] = name
	}
	g.maxWords = max(g.maxWords, words)
}

// Len returns the number of distinct names known to the gazetteer.
func (g *Gazetteer) Len() int {
	return len(g.names)
}

// Recognize tags the longest run of capitalized words matching a known place.
func (g *Gazetteer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := wordPattern.FindAllStringIndex(text, -1)
	entities := make([]Entity, 0)

	for i := 0; i < len(words); {
		first, _ := utf8.DecodeRuneInString(text[words[i][0]:])
		if !unicode.IsUpper(first) {
			i++
			continue
		}

		matched := 0
		for n := min(g.maxWords, len(words)-i); n > 0; n-- {
			if !sameLine(text, words[i:i+n]) {
				continue
			}
			start, end := words[i][0], words[i+n-1][1]
			if _, ok := g.names[foldName(text[start:end])]; ok {
				entities = append(entities, Entity{
					Text:  text[start:end],
					Label: LabelPlace,
					Start: start,
					End:   end,
				})
				matched = n
				break
			}
		}

		if matched == 0 {
			matched = 1
		}
		i += matched
	}

	return entities, nil
}

// sameLine reports whether consecutive words are separated by blanks only.
func sameLine(text string, words [][]int) bool {
	for k := 1; k < len(words); k++ {
		gap := text[words[k-1][1]:words[k][0]]
		if gap == "" || strings.TrimLeft(gap, " \t") != "" {
			return false
		}
	}
	return true
}

func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFC.String(name)), " "))
}

// LoadGazetteer reads a dump from a .txt file or the first .txt entry of a
// .zip archive (the layout of download.geonames.org).
func LoadGazetteer(path string) (*Gazetteer, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		archive, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer archive.Close()

		for _, f := range archive.File {
			if !strings.EqualFold(filepath.Ext(f.Name), ".txt") || strings.HasPrefix(f.Name, "readme") {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s in %s: %w", f.Name, path, err)
			}
			defer rc.Close()
			return ParseGeonames(rc)
		}
		return nil, fmt.Errorf("%w: no dump inside %s", ErrUnavailable, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseGeonames(f)
}

// NewGazetteerLoader resolves "geonames:<CC>" to <dir>/<CC>.txt or <dir>/<CC>.zip.
func NewGazetteerLoader(dir string) LoadFunc {
	return func(ctx context.Context, model string) (Tagger, error) {
		code, ok := strings.CutPrefix(model, GeonamesPrefix)
		if !ok || code == "" {
			return nil, fmt.Errorf("%w: %s is not a geonames model", ErrUnavailable, model)
		}
		if dir == "" {
			return nil, fmt.Errorf("%w: no geonames directory configured for %s", ErrUnavailable, model)
		}

		for _, ext := range []string{".txt", ".zip"} {
			path := filepath.Join(dir, strings.ToUpper(code)+ext)
			g, err := LoadGazetteer(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return g, nil
		}
		return nil, fmt.Errorf("%w: no dump for %s in %s", ErrUnavailable, code, dir)
	}
}

// NewLoader dispatches geonames models to the gazetteer and every other
// model to the spaCy server. It returns nil when neither backend is
// configured.
func NewLoader(geonamesDir string, remote LoadFunc) LoadFunc {
	if geonamesDir == "" && remote == nil {
		return nil
	}
	gazetteer := NewGazetteerLoader(geonamesDir)
	return func(ctx context.Context, model string) (Tagger, error) {
		if strings.HasPrefix(model, GeonamesPrefix) {
			return gazetteer(ctx, model)
		}
		if remote == nil {
			return nil, fmt.Errorf("%w: no model server configured for %s", ErrUnavailable, model)
		}
		return remote(ctx, model)
	}
}
