package crossword

import (
	"strconv"
	"strings"
)

var formatting = strings.NewReplacer(" ", "", "-", "", "'", "")

// StripFormatting removes word separators and apostrophes, leaving one
// character per grid cell.
func StripFormatting(answer string) string {
	return formatting.Replace(answer)
}

// Numeration describes the word lengths of answer, e.g. "ab c" -> "2,1" and
// "x-yz" -> "1-2". Apostrophes are dropped before counting. A placeholder
// occupies a cell, so it counts as a letter.
func Numeration(answer string) string {
	answer = strings.ReplaceAll(answer, "'", "")

	var b strings.Builder
	run := 0
	flush := func() {
		if run > 0 {
			b.WriteString(strconv.Itoa(run))
			run = 0
		}
	}
	for _, r := range answer {
		switch r {
		case ' ':
			flush()
			b.WriteByte(',')
		case '-':
			flush()
			b.WriteByte('-')
		default:
			run++
		}
	}
	flush()
	return b.String()
}
