package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-university-etl/internal/model"
)

func newTestTransformer(now time.Time) *Transformer {
	return &Transformer{now: func() time.Time { return now }}
}

func TestTransform(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Counts Reconcile With Input Length", func(t *testing.T) {
		raw := []model.RawRecord{
			{"name": "Test University", "country": "Testland"},
			{"name": "No Country U"},
			{"name": 42, "country": "Testland"},
			nil,
			{"name": "Second University", "country": "Testland", "state-province": "North"},
		}

		batch := newTestTransformer(now).Transform(raw)

		assert.Equal(t, len(raw), batch.TotalInput)
		assert.Equal(t, batch.TotalInput, batch.SuccessCount+batch.FailureCount)
		assert.Equal(t, batch.SuccessCount, len(batch.Records))
		assert.Len(t, batch.Failures, 3)
	})

	t.Run("Failures Keep Index Raw Record And Reason", func(t *testing.T) {
		raw := []model.RawRecord{
			{"name": "Test University", "country": "Testland"},
			{"country": "Testland"},
		}

		batch := newTestTransformer(now).Transform(raw)

		require.Len(t, batch.Failures, 1)
		failure := batch.Failures[0]
		assert.Equal(t, 1, failure.Index)
		assert.Equal(t, raw[1], failure.RawRecord)
		assert.Contains(t, failure.Error, "name")
	})

	t.Run("Builds Canonical Record", func(t *testing.T) {
		raw := []model.RawRecord{{
			"name":           "  Test   University ",
			"country":        " United  States ",
			"alpha_two_code": "US",
			"state-province": "North Dakota",
			"domains":        []interface{}{"Test.edu", "test.edu ", "other.edu"},
			"web_pages":      []interface{}{"test.edu", "http://test.edu"},
		}}

		batch := newTestTransformer(now).Transform(raw)
		require.Equal(t, 1, batch.SuccessCount)

		u := batch.Records[0]
		assert.Equal(t, "united-states-north-dakota-test-university", u.ID)
		assert.Equal(t, "Test University", u.Name)
		assert.Equal(t, "United States", u.Country)
		require.NotNil(t, u.AlphaCode)
		assert.Equal(t, "US", *u.AlphaCode)
		require.NotNil(t, u.StateProvince)
		assert.Equal(t, "North Dakota", *u.StateProvince)
		assert.Equal(t, []string{"test.edu", "other.edu"}, u.Domains)
		assert.Equal(t, []string{"https://test.edu", "http://test.edu"}, u.WebPages)
		assert.Equal(t, now, u.LastUpdated)
	})

	t.Run("Absent Optional Fields Become Nil", func(t *testing.T) {
		batch := newTestTransformer(now).Transform([]model.RawRecord{
			{"name": "Test University", "country": "Testland", "state-province": "  "},
		})
		require.Equal(t, 1, batch.SuccessCount)
		assert.Nil(t, batch.Records[0].AlphaCode)
		assert.Nil(t, batch.Records[0].StateProvince)
	})

	t.Run("Repeat Transform Is Idempotent Except Timestamp", func(t *testing.T) {
		raw := []model.RawRecord{{
			"name":      "Test University",
			"country":   "Testland",
			"domains":   []interface{}{"test.edu"},
			"web_pages": []interface{}{"test.edu"},
		}}

		first := newTestTransformer(now).Transform(raw).Records[0]
		second := newTestTransformer(now.Add(time.Hour)).Transform(raw).Records[0]

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.Country, second.Country)
		assert.Equal(t, first.Domains, second.Domains)
		assert.Equal(t, first.WebPages, second.WebPages)
		assert.NotEqual(t, first.LastUpdated, second.LastUpdated)
	})
}

func TestSlugID(t *testing.T) {
	state := "North  Dakota!"

	cases := []struct {
		name    string
		country string
		state   *string
		uni     string
	}{
		{"Plain", "Testland", nil, "Test University"},
		{"Punctuation Runs", "United -- States", &state, "École  (Polytechnique)"},
		{"Leading And Trailing Junk", "--Testland--", nil, "!!University!!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := SlugID(tc.country, tc.state, tc.uni)
			assert.NotEmpty(t, id)
			assert.Equal(t, strings.ToLower(id), id)
			assert.False(t, strings.HasPrefix(id, "-"), "no leading hyphen: %q", id)
			assert.False(t, strings.HasSuffix(id, "-"), "no trailing hyphen: %q", id)
			assert.NotContains(t, id, "--", "no doubled hyphen: %q", id)
		})
	}

	t.Run("State Changes The Identifier", func(t *testing.T) {
		s := "North"
		assert.NotEqual(t,
			SlugID("Testland", nil, "Test University"),
			SlugID("Testland", &s, "Test University"))
	})
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Abc def", Sanitize("  Abc   def "))
	assert.Equal(t, "", Sanitize("   "))
}

func TestNormalizeDomains(t *testing.T) {
	in := []interface{}{"A.edu", "a.edu ", "b.edu", "", 42, nil}
	assert.Equal(t, []string{"a.edu", "b.edu"}, NormalizeDomains(in))
}

func TestNormalizeWebPages(t *testing.T) {
	t.Run("Schemeless Gets Https", func(t *testing.T) {
		assert.Equal(t, []string{"https://test.edu"}, NormalizeWebPages([]interface{}{"test.edu"}))
	})

	t.Run("Existing Scheme Untouched", func(t *testing.T) {
		assert.Equal(t, []string{"http://test.edu"}, NormalizeWebPages([]interface{}{"http://test.edu"}))
	})

	t.Run("Deduplicates Preserving Order", func(t *testing.T) {
		in := []interface{}{"https://a.edu", "b.edu", "https://a.edu", " "}
		assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, NormalizeWebPages(in))
	})
}
