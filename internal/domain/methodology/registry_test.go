package methodology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Catalog(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	assert.Equal(t, []string{"sandler", "meddic", "challenger", "spin", "gap"}, r.Keys())
	assert.Equal(t, "meddic", r.Default().Key)

	names := map[string]string{
		"sandler":    "Sandler Selling System",
		"meddic":     "MEDDIC/MEDDPICC",
		"challenger": "Challenger Sale",
		"spin":       "SPIN Selling",
		"gap":        "Gap Selling",
	}
	for key, name := range names {
		def := r.Lookup(key)
		assert.Equal(t, name, def.Name, key)
		assert.NotEmpty(t, def.Dimensions, key)
		assert.NotEmpty(t, def.Guidance, key)
		assert.NotEmpty(t, def.PlanningGuidance, key)
	}
}

func TestLookup_UnknownFallsBackToMeddic(t *testing.T) {
	r := MustNewRegistry("")
	meddic := r.Lookup("meddic")

	for _, key := range []string{"", "bant", "nonsense"} {
		def := r.Lookup(key)
		assert.Equal(t, "meddic", def.Key)
		assert.Equal(t, meddic.DimensionKeys(), def.DimensionKeys())
		assert.Equal(t, meddic.Guidance, def.Guidance)
	}
	assert.False(t, r.Known("bant"))
}

func TestLookup_CaseInsensitive(t *testing.T) {
	r := MustNewRegistry("")
	assert.Equal(t, "sandler", r.Lookup("  Sandler ").Key)
	assert.True(t, r.Known("SPIN"))
}

func TestSandlerDimensions(t *testing.T) {
	r := MustNewRegistry("")
	assert.Equal(t, []string{
		"upfront_contract_score",
		"bonding_rapport_score",
		"pain_funnel_score",
		"budget_discussion_score",
		"decision_process_score",
		"talk_ratio_score",
	}, r.Lookup("sandler").DimensionKeys())
}

func TestNewRegistry_ConfiguredDefault(t *testing.T) {
	r, err := NewRegistry("sandler")
	require.NoError(t, err)
	assert.Equal(t, "sandler", r.Lookup("unknown").Key)

	_, err = NewRegistry("bant")
	assert.Error(t, err)
}

func TestParse_RejectsBadCatalogs(t *testing.T) {
	_, err := parse([]byte("default: x\nmethodologies:\n  - key: x\n    name: X\n"), "")
	assert.ErrorContains(t, err, "no dimensions")

	dup := []byte(`default: a
methodologies:
  - key: a
    dimensions: [{key: s}]
  - key: A
    dimensions: [{key: s}]
`)
	_, err = parse(dup, "")
	assert.ErrorContains(t, err, "duplicate")

	_, err = parse([]byte("{not yaml"), "")
	assert.Error(t, err)
}
