package aiimport

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// KeywordExtractor is the offline path: line-oriented parsing with a small
// keyword table for categories. Quality is far below the model's, but the
// output contract is identical, so the review screen works the same either
// way.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Vision", []string{"camera", "lens", "lighting", "illuminat", "vision"}},
	{"Motion", []string{"servo", "stepper", "motor", "drive", "actuator", "gearbox", "belt"}},
	{"Controls", []string{"plc", "hmi", "controller", "relay", "i/o", "module"}},
	{"Pneumatics", []string{"cylinder", "valve", "pneumatic", "frl", "tubing"}},
	{"Electrical", []string{"cable", "connector", "power supply", "smps", "mcb", "contactor", "sensor"}},
	{"Fabrication", []string{"frame", "bracket", "mount", "plate", "machining", "weld"}},
}

// qtyPattern recognizes "x2", "2x", "qty 2", "2 nos", "2 pcs" suffixes.
var qtyPattern = regexp.MustCompile(`(?i)(?:\bqty[:\s]*(\d+(?:\.\d+)?)|(\d+(?:\.\d+)?)\s*(?:nos|pcs|pc|units?)\b|\bx\s*(\d+)\b|\b(\d+)\s*x\b)`)

func (e *KeywordExtractor) Extract(_ context.Context, text string, opts Options) (Extraction, error) {
	extraction := Extraction{Items: []ExtractedItem{}}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "-*• \t"))
		if line == "" || len(line) < 3 {
			continue
		}

		quantity := 1.0
		if m := qtyPattern.FindStringSubmatch(line); m != nil {
			for _, g := range m[1:] {
				if g == "" {
					continue
				}
				if q, err := strconv.ParseFloat(g, 64); err == nil && q > 0 {
					quantity = q
				}
				break
			}
			line = strings.TrimSpace(qtyPattern.ReplaceAllString(line, ""))
		}
		if line == "" {
			continue
		}

		extraction.Items = append(extraction.Items, ExtractedItem{
			Name:     line,
			Make:     matchMake(line, opts.KnownMakes),
			Quantity: quantity,
			Category: categorize(line),
			Unit:     "nos",
		})
	}
	extraction.TotalItems = len(extraction.Items)
	return extraction, nil
}

// matchMake picks the first known manufacturer appearing in the line.
func matchMake(line string, knownMakes []string) string {
	lower := strings.ToLower(line)
	for _, candidate := range knownMakes {
		if candidate != "" && strings.Contains(lower, strings.ToLower(candidate)) {
			return candidate
		}
	}
	return ""
}

func categorize(line string) string {
	lower := strings.ToLower(line)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.category
			}
		}
	}
	return "Uncategorized"
}
