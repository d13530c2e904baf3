package mock

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// fallback word list for when no dictionary file is available
var fallbackWords = []string{
	"apple", "river", "cloud", "stone", "forest", "bridge", "candle",
	"garden", "harbor", "island", "jungle", "kettle", "lantern", "meadow",
	"needle", "orchard", "pepper", "quartz", "rocket", "saddle", "timber",
	"umbrella", "valley", "window", "yellow", "zephyr", "anchor", "breeze",
	"copper", "desert", "ember", "falcon", "glacier", "hollow", "ivory",
	"jasper", "kernel", "ledger", "marble", "nectar", "oyster", "pebble",
	"quiver", "ribbon", "silver", "tunnel", "velvet", "walnut", "amber",
}

// Dictionary holds a list of words for random selection
type Dictionary struct {
	words []string
	rng   *rand.Rand
}

// NewDictionary creates a dictionary drawing from rng. A nil rng uses the
// global source.
func NewDictionary(rng *rand.Rand) *Dictionary {
	return &Dictionary{words: fallbackWords, rng: rng}
}

// LoadDictionary loads words from a dictionary file, one per line
func LoadDictionary(path string, rng *rand.Rand) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDictionary(rng), nil
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())

		// filter to reasonable length (3-15 chars) and alpha only
		if len(word) >= 3 && len(word) <= 15 && isAlpha(word) {
			words = append(words, strings.ToLower(word))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("no valid words found in dictionary")
	}

	return &Dictionary{words: words, rng: rng}, nil
}

// RandomWord returns a random word from the dictionary
func (d *Dictionary) RandomWord() string {
	if d.rng != nil {
		return d.words[d.rng.Intn(len(d.words))]
	}
	return d.words[rand.Intn(len(d.words))]
}

// Words returns the loaded word list
func (d *Dictionary) Words() []string {
	return d.words
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
