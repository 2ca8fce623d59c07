// Package storygen turns a detected mood and its expression scores into a
// short narrative and an illustration key. It is deterministic and does no
// I/O; callers persist the output themselves.
package storygen

import (
	"sort"
	"strings"
)

const neutralMood = "neutral"

// templates holds one narrative per supported mood. The {hint} placeholder is
// replaced with the user's note, or removed when no note was given.
var templates = map[string]string{
	"happy": "Sunlight spilled across the scene like a promise kept. With a grin that could start a parade, " +
		"you stepped into a day that felt tailor‑made—small wins humming in the background, " +
		"good news waiting just around the corner. {hint}",
	"sad": "The world moved softly, as if it knew to speak in whispers today. Even through the gray, " +
		"there was kindness—warm tea, a gentle song, a friend who stays. Your heart carried rain, " +
		"but it also carried flowers waiting to bloom. {hint}",
	"angry": "The air crackled—electric, decisive. Your fire didn’t destroy; it forged. Today you chose " +
		"to build boundaries like bright lines on a map, turning heat into momentum and motion into change. {hint}",
	"fearful": "Shadows stretched long, but courage walked beside you, quiet and steady. Each careful step " +
		"rewrote a small fear into a fearless line. Your breath became an anchor, and the unknown grew smaller. {hint}",
	"disgusted": "Clarity arrived like a clean breeze through a cluttered room. You saw what didn’t belong, " +
		"and chose better—cleaner intentions, truer paths, a standard that honored your spirit. {hint}",
	"surprised": "A sudden spark—like confetti popped in slow motion. The unexpected turned into delight, " +
		"and the story bent toward wonder. You followed curiosity and found a door you didn’t know you needed. {hint}",
	neutralMood: "Balanced and unhurried, the day unfolded like neat pages in a journal. Quiet details glowed— " +
		"a steady rhythm, a tidy list, a calm horizon. In the middle of ordinary, you found peace. {hint}",
}

// illustrations maps a mood to the symbolic artwork tag the frontend renders.
var illustrations = map[string]string{
	"happy":     "sunny",
	"sad":       "rainy",
	"angry":     "flame",
	"fearful":   "moon",
	"disgusted": "leaf",
	"surprised": "spark",
	neutralMood: "cloud",
}

func normalizeMood(mood string) string {
	mood = strings.ToLower(mood)
	if mood == "" {
		return neutralMood
	}
	return mood
}

// TopExpressions returns the names of the strongest expressions, highest score
// first, at most n of them. The order of equal scores is unspecified.
func TopExpressions(scores map[string]float64, n int) []string {
	type pair struct {
		name  string
		score float64
	}
	pairs := make([]pair, 0, len(scores))
	for name, score := range scores {
		pairs = append(pairs, pair{name: name, score: score})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.name
	}
	return names
}

// Story renders the narrative for the given mood. Unknown moods use the
// neutral template. A non-blank hint is appended as a note from the user, and
// the footer names the top three expressions (or the mood itself when no
// scores were submitted).
func Story(mood, hint string, scores map[string]float64) string {
	mood = normalizeMood(mood)
	base, ok := templates[mood]
	if !ok {
		base = templates[neutralMood]
	}

	hintText := ""
	if strings.TrimSpace(hint) != "" {
		hintText = "\n\nA note from you: " + strings.TrimSpace(hint)
	}

	tone := strings.Join(TopExpressions(scores, 3), ", ")
	if tone == "" {
		tone = mood
	}
	footer := "\n\nMood palette today: " + tone + "."

	return strings.TrimSpace(strings.ReplaceAll(base, "{hint}", hintText) + footer)
}

// IllustrationKey maps a mood to its artwork tag; unknown moods get "cloud".
func IllustrationKey(mood string) string {
	if key, ok := illustrations[strings.ToLower(mood)]; ok {
		return key
	}
	return illustrations[neutralMood]
}
