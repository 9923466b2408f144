package repository

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"alias/internal/models"
)

const wordsFileSuffix = "_words.json"

// WordCatalog reads word lists named {lang}_{difficulty}_words.json, each a
// JSON object of word to translation.
type WordCatalog struct {
	fsys   fs.FS
	logger Logger
}

func NewWordCatalog(fsys fs.FS, logger Logger) *WordCatalog {
	return &WordCatalog{fsys: fsys, logger: logger}
}

func catalogFile(lang models.Language, difficulty models.Difficulty) string {
	return fmt.Sprintf("%s_%s%s", lang, difficulty, wordsFileSuffix)
}

// Load never fails: a missing or broken list yields an empty catalog.
func (c *WordCatalog) Load(lang models.Language, difficulty models.Difficulty) map[string]string {
	name := catalogFile(lang, difficulty)

	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		c.logger.Warn("word list %s is not available: %s", name, err.Error())
		return map[string]string{}
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("word list %s is not valid: %s", name, err.Error())
		return map[string]string{}
	}

	words := make(map[string]string, len(raw))
	for word, translation := range raw {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		words[word] = strings.TrimSpace(translation)
	}
	c.logger.Debug("loaded %d words from %s", len(words), name)
	return words
}

// Available lists the catalogs that have a word list file for a known
// language and difficulty.
func (c *WordCatalog) Available() []models.CatalogKey {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		c.logger.Warn("could not list word lists: %s", err.Error())
		return nil
	}

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), wordsFileSuffix) {
			present[e.Name()] = true
		}
	}

	var keys []models.CatalogKey
	for _, lang := range models.Languages {
		for _, d := range models.Difficulties {
			if present[catalogFile(lang, d)] {
				keys = append(keys, models.CatalogKey{Language: lang, Difficulty: d})
			}
		}
	}
	return keys
}
