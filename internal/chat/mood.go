package chat

import "strings"

type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodCalm    Mood = "calm"
)

var moodKeywords = []struct {
	mood  Mood
	words []string
}{
	{MoodSad, []string{"sad", "lonely", "hurt", "cry", "pain"}},
	{MoodAngry, []string{"angry", "mad", "upset", "frustrated"}},
	{MoodCalm, []string{"happy", "grateful", "peace", "calm"}},
}

// MoodOf classifies text by the first keyword group with a substring match.
func MoodOf(text string) Mood {
	lower := strings.ToLower(text)
	for _, group := range moodKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.mood
			}
		}
	}
	return MoodNeutral
}
