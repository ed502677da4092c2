package pipeline

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"go-university-etl/internal/model"
)

// Transformer converts raw upstream records into canonical University
// records, isolating failures per record.
type Transformer struct {
	// now is swappable in tests for deterministic timestamps.
	now func() time.Time
}

func NewTransformer() *Transformer {
	return &Transformer{now: func() time.Time { return time.Now().UTC() }}
}

// Transform never fails wholesale: every rejected record is recorded in
// the batch with its index and reason, and processing continues with
// the next record.
func (t *Transformer) Transform(raw []model.RawRecord) model.TransformBatch {
	batch := model.TransformBatch{
		Records:       make([]model.University, 0, len(raw)),
		TotalInput:    len(raw),
		TransformedAt: t.now(),
		Failures:      []model.TransformFailure{},
	}

	for i, rec := range raw {
		uni, err := t.buildRecord(i, rec)
		if err != nil {
			batch.FailureCount++
			batch.Failures = append(batch.Failures, model.TransformFailure{
				Index:     i,
				RawRecord: rec,
				Error:     err.Error(),
			})
			continue
		}
		batch.SuccessCount++
		batch.Records = append(batch.Records, uni)
	}

	log.Printf("transform: %d/%d records transformed, %d failed",
		batch.SuccessCount, batch.TotalInput, batch.FailureCount)
	return batch
}

// buildRecord maps one raw record into its canonical form.
func (t *Transformer) buildRecord(index int, rec model.RawRecord) (model.University, error) {
	if rec == nil {
		return model.University{}, &model.TransformationError{Index: index, Reason: "record is not an object"}
	}

	name, err := requiredField(rec, "name")
	if err != nil {
		return model.University{}, &model.TransformationError{Index: index, Reason: err.Error()}
	}
	country, err := requiredField(rec, "country")
	if err != nil {
		return model.University{}, &model.TransformationError{Index: index, Reason: err.Error()}
	}

	state := optionalField(rec, "state-province")
	uni := model.University{
		ID:            SlugID(country, state, name),
		Name:          name,
		Country:       country,
		AlphaCode:     optionalField(rec, "alpha_two_code"),
		StateProvince: state,
		Domains:       NormalizeDomains(listField(rec, "domains")),
		WebPages:      NormalizeWebPages(listField(rec, "web_pages")),
		LastUpdated:   t.now(),
	}

	if uni.ID == "" || uni.Name == "" || uni.Country == "" || uni.Domains == nil || uni.WebPages == nil {
		return model.University{}, &model.TransformationError{Index: index, Reason: "built record failed shape check"}
	}
	return uni, nil
}

// SlugID derives the deterministic URL-safe identifier for a record
// from its country, optional state/province and name. The result never
// carries leading, trailing or doubled hyphens.
func SlugID(country string, stateProvince *string, name string) string {
	parts := []string{slug.Make(country)}
	if stateProvince != nil {
		parts = append(parts, slug.Make(*stateProvince))
	}
	parts = append(parts, slug.Make(name))

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "-")
}

// Sanitize trims and collapses internal whitespace runs to one space.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDomains keeps string entries only, trims, lowercases, drops
// empties and deduplicates preserving first-seen order.
func NormalizeDomains(values []interface{}) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// NormalizeWebPages keeps string entries only, trims, drops empties,
// prefixes https:// when no scheme is present and deduplicates
// preserving first-seen order.
func NormalizeWebPages(values []interface{}) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			s = "https://" + s
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func requiredField(rec model.RawRecord, key string) (string, error) {
	v, ok := rec[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, v)
	}
	s = Sanitize(s)
	if s == "" {
		return "", fmt.Errorf("field %q is empty", key)
	}
	return s, nil
}

func optionalField(rec model.RawRecord, key string) *string {
	s, ok := rec[key].(string)
	if !ok {
		return nil
	}
	if s = Sanitize(s); s == "" {
		return nil
	}
	return &s
}

func listField(rec model.RawRecord, key string) []interface{} {
	values, _ := rec[key].([]interface{})
	return values
}
