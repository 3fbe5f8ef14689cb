package parser

import (
	"regexp"
	"strings"
)

// Header describes how a field's section is introduced in the document.
type Header struct {
	Labels []string
	Split  *SplitHeader
}

// SplitHeader is the two-line form of a header: Label alone on one line and
// one of Tails on the next.
type SplitHeader struct {
	Label string
	Tails []string
}

// Section is the block of lines that follows a header.
type Section struct {
	Lines []string
}

func (s Section) Empty() bool {
	for _, line := range s.Lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

func (s Section) Text() string {
	return strings.TrimSpace(strings.Join(s.Lines, "\n"))
}

// FieldHeader returns the registered header for FieldLoading or FieldUnloading.
func FieldHeader(field string) Header {
	return Header{
		Labels: HeaderKeywords[field],
		Split: &SplitHeader{
			Label: SplitHeaderLabel,
			Tails: SplitHeaderKeywords[field],
		},
	}
}

// LocateSection returns the lines after the first line matching one of the
// header labels, up to maxLines or the next header-like line. The split
// header form is only tried when no line carries a full label. A document
// without the header gives an empty Section.
func LocateSection(lines []string, h Header, maxLines int) Section {
	if maxLines <= 0 {
		maxLines = DefaultSectionMaxLines
	}

	if len(h.Labels) > 0 {
		header := keywordMatcher(h.Labels)
		for i, line := range lines {
			if header.MatchString(line) {
				return collectSection(lines, i+1, maxLines)
			}
		}
	}

	if h.Split == nil || len(h.Split.Tails) == 0 {
		return Section{}
	}

	label := regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(h.Split.Label) + `(?:$|[^\p{L}\p{N}])`)
	tail := keywordMatcher(h.Split.Tails)
	for i := 0; i+1 < len(lines); i++ {
		if label.MatchString(lines[i]) && tail.MatchString(lines[i+1]) {
			return collectSection(lines, i+2, maxLines)
		}
	}

	return Section{}
}

func collectSection(lines []string, start, maxLines int) Section {
	end := min(len(lines), start+maxLines)
	section := Section{Lines: make([]string, 0, max(0, end-start))}
	for i := start; i < end; i++ {
		if looksLikeHeader(lines[i]) {
			break
		}
		section.Lines = append(section.Lines, lines[i])
	}
	return section
}
