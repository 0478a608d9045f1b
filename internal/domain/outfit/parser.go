package outfit

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// GrammarVersion identifies the reply format the parser understands.
const GrammarVersion = "outfit-text/v1"

var (
	outfitMarker = regexp.MustCompile(`Outfit \d+:`)

	// tipLine matches a tip that starts its own line, optionally labelled ("Styling Tip:").
	tipLine   = regexp.MustCompile(`(?im)^[^\S\n]*(?:[a-z]+[^\S\n]+){0,3}tip:`)
	tipMarker = regexp.MustCompile(`(?i)tip:`)

	// restatedHeading matches lines such as "Outfit 2" or "Outfit Two - Work".
	restatedHeading = regexp.MustCompile(`(?i)^outfit\s+(?:\d+|[a-z]+)\s*(?:[:\-–].*)?$`)
)

// ParseResult is the outcome of parsing a model reply.
type ParseResult struct {
	Outfits []Outfit
}

// Empty reports whether the reply contained no outfit markers.
func (r ParseResult) Empty() bool {
	return len(r.Outfits) == 0
}

// Parse splits a model reply into outfits numbered from startingNumber.
// Numbers embedded in the reply are ignored. Text before the first marker is dropped.
func Parse(raw string, startingNumber int, stamp WeatherStamp, createdAt time.Time) ParseResult {
	bounds := outfitMarker.FindAllStringIndex(raw, -1)
	if len(bounds) == 0 {
		return ParseResult{}
	}

	outfits := make([]Outfit, 0, len(bounds))
	for i, loc := range bounds {
		end := len(raw)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		segment := raw[loc[1]:end]
		number := startingNumber + i
		items, tip := splitSegment(segment)
		outfits = append(outfits, Outfit{
			Number:    number,
			Text:      fmt.Sprintf("Outfit %d:%s", number, strings.TrimRight(segment, " \t\r\n")),
			Items:     items,
			Tip:       tip,
			Weather:   stamp,
			CreatedAt: createdAt,
		})
	}
	return ParseResult{Outfits: outfits}
}

func splitSegment(segment string) ([]string, string) {
	itemBlock := segment
	tip := ""
	loc := tipLine.FindStringIndex(segment)
	if loc == nil {
		loc = tipMarker.FindStringIndex(segment)
	}
	if loc != nil {
		itemBlock = segment[:loc[0]]
		tip = strings.Join(strings.Fields(segment[loc[1]:]), " ")
	}
	return parseItems(itemBlock), tip
}

func parseItems(block string) []string {
	items := make([]string, 0, 5)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || restatedHeading.MatchString(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "•"):
			line = strings.TrimPrefix(line, "•")
		case strings.HasPrefix(line, "-"):
			line = strings.TrimPrefix(line, "-")
		}
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}
