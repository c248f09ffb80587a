// Package builder is the offline preprocessing pipeline: it turns a question
// bank into the persisted vector index and its parallel mapping table. It
// never runs on the request-serving path.
package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"supportbot/internal/catalog"
	"supportbot/internal/domain"
	"supportbot/internal/index"
)

// Bank records may join several phrasings of one question with a literal
// " OR " separator, case-insensitive.
var orSplitRe = regexp.MustCompile(`(?i)\s+or\s+`)

// SplitQuestions splits a compound question into its alternatives, trimmed
// and lower-cased, dropping empties.
func SplitQuestions(question string) []string {
	parts := orSplitRe.Split(question, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Expand produces one QuestionEntry per question alternative. All variants
// of one record share identical intent, sub-intent and responses.
func Expand(records []domain.QuestionEntry) []domain.QuestionEntry {
	var out []domain.QuestionEntry
	for _, rec := range records {
		for _, q := range SplitQuestions(rec.Question) {
			out = append(out, domain.QuestionEntry{
				Question:  q,
				Intent:    rec.Intent,
				SubIntent: rec.SubIntent,
				Responses: rec.Responses,
			})
		}
	}
	return out
}

// LoadQuestionBank reads the raw question bank JSON.
func LoadQuestionBank(path string) ([]domain.QuestionEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.QuestionEntry
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty question bank", path)
	}
	return records, nil
}

// Run executes the whole pipeline: load and expand the bank, embed every
// question in one batch, build the flat index and persist index + mapping.
func Run(bankPath string, emb domain.Embedder, indexPath, mappingPath string, log zerolog.Logger) error {
	records, err := LoadQuestionBank(bankPath)
	if err != nil {
		return err
	}
	log.Info().Int("records", len(records)).Str("file", bankPath).Msg("loaded question bank")

	entries := Expand(records)
	if len(entries) == 0 {
		return fmt.Errorf("%s: no questions after splitting", bankPath)
	}
	log.Info().Int("questions", len(entries)).Msg("preprocessed question bank")

	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	vectors, err := emb.EmbedBatch(questions)
	if err != nil {
		return fmt.Errorf("embed questions: %w", err)
	}
	log.Info().Str("embedder", emb.Name()).Int("dimension", emb.Dimension()).Msg("generated embeddings")

	idx, err := index.Build(vectors)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := idx.Save(indexPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	log.Info().Str("file", indexPath).Int("vectors", idx.Len()).Msg("index saved")

	if err := catalog.New(entries).Save(mappingPath); err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	log.Info().Str("file", mappingPath).Msg("mapping saved")
	return nil
}
