package feeds

import (
	"math"
	"strings"
	"unicode"
)

// wordsPerMinute is the average adult reading speed for prose.
const wordsPerMinute = 238

// wordDelimiters split words in addition to whitespace. Markdown markup
// characters are included so headings, emphasis and list bullets are not
// counted as words of their own.
const wordDelimiters = ".,;:!?\"'()[]{}—–-#*_`>|~"

// CalculateReadingTime estimates reading time in minutes for a post body.
// Returns a minimum of 1 minute for non-empty text and 0 for empty text.
func CalculateReadingTime(text string) int {
	words := countWords(text)
	if words == 0 {
		return 0
	}

	return max(int(math.Ceil(float64(words)/wordsPerMinute)), 1)
}

func countWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) || strings.ContainsRune(wordDelimiters, r) {
			if inWord {
				count++
				inWord = false
			}
		} else {
			inWord = true
		}
	}
	if inWord {
		count++
	}
	return count
}
