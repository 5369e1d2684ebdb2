package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCriteriaBareArray(t *testing.T) {
	list, err := DecodeCriteria([]byte(`[{"code":"A","name":"Cat"},{"code":"A.1","name":"Sub","parent_code":"A"}]`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsSubCriterion())
	assert.True(t, list[1].IsSubCriterion())
}

func TestDecodeCriteriaDataWrapper(t *testing.T) {
	list, err := DecodeCriteria([]byte(`{"data":[{"code":"B.2","name":"Sub","parent_id":7}]}`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, Text("7"), list[0].ParentID)
	assert.True(t, list[0].IsSubCriterion())
}

func TestIsSubCriterionIgnoresFalsyParents(t *testing.T) {
	for _, raw := range []string{`0`, `"0"`, `false`, `" false "`, `null`, `""`} {
		c := Criterion{}
		require.NoError(t, c.ParentID.UnmarshalJSON([]byte(raw)))
		assert.False(t, c.IsSubCriterion(), raw)
	}

	assert.True(t, Criterion{ParentCode: "A"}.IsSubCriterion())
	assert.True(t, Criterion{ParentID: "10"}.IsSubCriterion())
}

func TestDecodeCriteriaRejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{`{"items":[]}`, `{"data":{"code":"x"}}`, `"text"`, `42`} {
		_, err := DecodeCriteria([]byte(raw))
		assert.ErrorIs(t, err, ErrNotCriteriaList, raw)
	}

	_, err := DecodeCriteria([]byte(`[{`))
	assert.Error(t, err)
}

func TestManifestLocation(t *testing.T) {
	list, err := DecodeManifests([]byte(`[{"code":"X","url":"https://a/x.json","repo_url":"https://b/x.json"},{"code":"Y","repo_url":"https://b/y.json"}]`))
	require.NoError(t, err)
	assert.Equal(t, "https://a/x.json", list[0].Location())
	assert.Equal(t, "https://b/y.json", list[1].Location())
}
