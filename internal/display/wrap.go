package display

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/shopspring/decimal"
)

// LoreWidth is the column width item lore lines are wrapped to.
const LoreWidth = 30

var (
	formatCode    = regexp.MustCompile(`§(.)`)
	leadingFormat = regexp.MustCompile(`^(?:§.)+`)
	escapedCode   = regexp.MustCompile(`\x1b\[(\d+)m`)
)

// WrapLore word-wraps each line to LoreWidth and flattens the result into lore lines.
// Formatting codes take no width, and the codes a line starts with are repeated
// on its continuation lines. Blank lines are kept so callers can space paragraphs.
func WrapLore(lines ...string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}

		prefix := leadingFormat.FindString(l)
		for i, w := range strings.Split(unescapeCodes(wordwrap.String(escapeCodes(l), LoreWidth)), "\n") {
			if i > 0 {
				w = prefix + w
			}
			out = append(out, w)
		}
	}
	return out
}

// escapeCodes turns each formatting code into an ANSI sequence, which the
// wrapper measures as zero width.
func escapeCodes(s string) string {
	return formatCode.ReplaceAllStringFunc(s, func(c string) string {
		r := []rune(c)[1]
		return "\x1b[" + strconv.Itoa(int(r)) + "m"
	})
}

func unescapeCodes(s string) string {
	return escapedCode.ReplaceAllStringFunc(s, func(seq string) string {
		n, err := strconv.Atoi(escapedCode.FindStringSubmatch(seq)[1])
		if err != nil {
			return seq
		}
		return "§" + string(rune(n))
	})
}

// Money formats an amount with two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
