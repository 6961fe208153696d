package rating

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// Resolver maps free-text names typed in chat to registered players using
// approximate string similarity. Call paths that already carry a phone
// number bypass it entirely.
type Resolver struct {
	threshold float64
}

// NewResolver creates a Resolver. threshold is the minimum similarity
// (0..1) accepted as a match.
func NewResolver(threshold float64) *Resolver {
	return &Resolver{threshold: threshold}
}

// Resolve returns the player whose display name is closest to the input.
// Exact matches on the normalized name win immediately; otherwise the best
// combined edit-distance / token similarity above the threshold is taken.
func (r *Resolver) Resolve(input string, players []Player) (Player, error) {
	normalizedInput := normalizeName(input)
	if normalizedInput == "" {
		return Player{}, &PlayerNotFoundError{Names: []string{input}}
	}

	var best Player
	bestScore := 0.0
	for _, player := range players {
		normalizedName := normalizeName(player.Name)
		if normalizedName == normalizedInput {
			return player, nil
		}

		score := stringSimilarity(normalizedInput, normalizedName)
		if tokenScore := tokenSimilarity(normalizedInput, normalizedName); tokenScore > score {
			score = tokenScore
		}
		if score > bestScore {
			bestScore = score
			best = player
		}
	}

	if bestScore < r.threshold {
		log.Info("Could not resolve name", "input", input, "best_score", bestScore)
		return Player{}, &PlayerNotFoundError{Names: []string{input}}
	}

	log.Debug("Resolved name", "input", input, "player", best.Name, "score", bestScore)
	return best, nil
}

// normalizeName lowercases a name and strips everything but letters,
// digits and single spaces.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var result strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// stringSimilarity is a normalized edit-distance similarity in 0..1.
func stringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	return 1.0 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

// tokenSimilarity scores the share of input tokens found in the candidate
// name, so "tobias" alone fully matches "tobias mueller". Scoring against
// the input token count keeps partial names usable.
func tokenSimilarity(input, candidate string) float64 {
	inputTokens := strings.Fields(input)
	candidateTokens := strings.Fields(candidate)
	if len(inputTokens) == 0 || len(candidateTokens) == 0 {
		return 0.0
	}

	var matchCount int
	for _, token := range inputTokens {
		for _, candidateToken := range candidateTokens {
			if stringSimilarity(token, candidateToken) > 0.8 {
				matchCount++
				break
			}
		}
	}
	return float64(matchCount) / float64(len(inputTokens))
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
