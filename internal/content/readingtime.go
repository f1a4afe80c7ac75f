package content

import (
	"fmt"
	"strings"
)

// wordsPerMinute is the fixed rate used for reading-time estimates.
const wordsPerMinute = 200

// ReadingTime is the derived reading estimate for a body of text.
type ReadingTime struct {
	Words   int    `json:"words"`
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

// EstimateReadingTime is a pure function of the body's word count. Even empty
// content reports one minute, the floor the site displays.
func EstimateReadingTime(body string) ReadingTime {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return ReadingTime{
		Words:   words,
		Minutes: minutes,
		Text:    fmt.Sprintf("%d min read", minutes),
	}
}
