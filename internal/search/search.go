// Package search implements case-insensitive scoring over the saved
// chat history. Matching is substring based: a hit in the conversation
// title scores 3, a hit in the message body scores 1, and both can
// accumulate on the same message.
package search

import (
	"sort"
	"strings"

	"heistchat/internal/chat"
	"heistchat/internal/logging"
)

// MaxResults caps the returned list.
const MaxResults = 20

const (
	titleWeight = 3
	bodyWeight  = 1

	snippetBefore = 50
	snippetLength = 150
)

// Result is one search hit.
type Result struct {
	ChatID    string
	MessageID string
	Message   chat.Message
	ChatTitle string
	Snippet   string
	Score     int
}

// Search scores every message in history against query and returns the
// top results in descending score order. Ties keep history order, so
// repeated calls with the same inputs return the same slice. An empty
// or whitespace-only query returns nil without scanning.
func Search(history []chat.HistoryEntry, query string) []Result {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	timer := logging.StartTimer(logging.CategorySearch, "Search")
	defer timer.Stop()

	var results []Result
	for _, entry := range history {
		titleHit := strings.Contains(strings.ToLower(entry.Title), term)
		for _, msg := range entry.Messages {
			lowerText := strings.ToLower(msg.Text)
			bodyIdx := strings.Index(lowerText, term)

			score := 0
			if titleHit {
				score += titleWeight
			}
			if bodyIdx >= 0 {
				score += bodyWeight
			}
			if score == 0 {
				continue
			}

			results = append(results, Result{
				ChatID:    entry.ID,
				MessageID: msg.ID,
				Message:   msg,
				ChatTitle: entry.Title,
				Snippet:   snippet(msg.Text, bodyIdx),
				Score:     score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	logging.SearchDebug("Query %q matched %d results", term, len(results))
	return results
}

// snippet extracts a window around the match from the original-case
// text. A title-only hit (idx < 0) snips from the start.
func snippet(text string, idx int) string {
	start := 0
	if idx > snippetBefore {
		start = idx - snippetBefore
	}
	end := start + snippetLength
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
