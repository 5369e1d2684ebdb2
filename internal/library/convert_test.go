package library

import (
	"encoding/json"
	"os"
	"testing"

	"grc-integrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadLibrary(t *testing.T) *Library {
	t.Helper()
	data, err := os.ReadFile("testdata/nist-800-171.json")
	require.NoError(t, err)
	lib, err := Parse(data)
	require.NoError(t, err)
	return lib
}

func TestParseCoercesVersion(t *testing.T) {
	lib := loadLibrary(t)
	assert.Equal(t, uint(12), lib.ID)
	assert.Equal(t, "3", lib.Version)
	assert.True(t, lib.IsLoaded)
	assert.Len(t, lib.Nodes(), 7)
}

func TestParseRequiresURN(t *testing.T) {
	_, err := Parse([]byte(`{"name":"x"}`))
	assert.Error(t, err)
}

func TestToBundle(t *testing.T) {
	assert.Nil(t, ToBundle(nil))

	b := ToBundle(loadLibrary(t))
	require.NotNil(t, b)
	assert.Equal(t, "NIST-SP-800-171-rev2", b.Code)
	assert.Equal(t, "3", b.Version)
	assert.Equal(t, "NIST", b.Authority)
	assert.Equal(t, "Standard", b.Type)
	require.NotNil(t, b.Status)
	assert.Equal(t, "imported", *b.Status)
}

func TestToBundleFallbacks(t *testing.T) {
	lib := &Library{URN: "urn:intuitem:risk:library:iso27001-2022"}
	b := ToBundle(lib)
	assert.Equal(t, "iso27001-2022", b.Code)
	assert.Equal(t, "Unknown", b.Authority)
	assert.Nil(t, b.Status)

	lib.Content.Framework = &Framework{RefID: "ISO-27001"}
	assert.Equal(t, "ISO-27001", ToBundle(lib).Code)

	lib.RefID = "ISO27001:2022"
	assert.Equal(t, "ISO27001:2022", ToBundle(lib).Code)
}

func TestToStandardStrictAssessable(t *testing.T) {
	std := ToStandard(loadLibrary(t))
	require.NotNil(t, std)

	var codes []string
	for _, c := range std.Controls {
		codes = append(codes, c.Code)
		assert.Equal(t, "Mandatory", c.Enforcement)
	}
	// 3.1.2 помечен "true" строкой и не должен попасть в список
	assert.Equal(t, []string{"3.1.1", "3.10.1", "9.9"}, codes)
}

func TestToStandardCategoryAndType(t *testing.T) {
	std := ToStandard(loadLibrary(t))
	byCode := map[string]ControlDoc{}
	for _, c := range std.Controls {
		byCode[c.Code] = c
	}

	// родитель есть, прародителя нет
	assert.Equal(t, "Access Control", byCode["3.1.1"].Category)
	assert.Equal(t, models.ControlTechnical, byCode["3.1.1"].Type)

	// тип берётся от прародителя, категория от родителя
	assert.Equal(t, "Facility group", byCode["3.10.1"].Category)
	assert.Equal(t, models.ControlPhysical, byCode["3.10.1"].Type)

	// ни родитель, ни прародитель не найдены
	assert.Equal(t, "General", byCode["9.9"].Category)
	assert.Equal(t, models.ControlOther, byCode["9.9"].Type)
}

func TestToStandardWithoutFramework(t *testing.T) {
	std := ToStandard(&Library{URN: "urn:x:empty", Name: "Empty"})
	require.NotNil(t, std)
	assert.Equal(t, "empty", std.Code)
	assert.NotNil(t, std.Controls)
	assert.Empty(t, std.Controls)
}

func TestCategorizeControlType(t *testing.T) {
	cases := map[string]models.ControlType{
		"Technical Policy Office":    models.ControlAdministrative,
		"IT GOVERNANCE":              models.ControlAdministrative,
		"Risk Management":            models.ControlAdministrative,
		"Network Security":           models.ControlTechnical,
		"Access Control":             models.ControlTechnical,
		"Facility Security":          models.ControlPhysical,
		"Physical Protection":        models.ControlPhysical,
		"Industrial Control Systems": models.ControlTechnical,
		"Operational Resilience":     models.ControlOperational,
		"ICS Safety":                 models.ControlOperational,
		"Awareness and Training":     models.ControlOther,
		"":                           models.ControlOther,
	}
	for name, want := range cases {
		assert.Equal(t, want, CategorizeControlType(name), name)
	}
}

func TestToOpenGRCFormats(t *testing.T) {
	assert.Nil(t, ToOpenGRC(nil, OutputBundle))

	lib := loadLibrary(t)

	res := ToOpenGRC(lib, OutputBundle)
	require.NotNil(t, res)
	assert.True(t, res.Success)
	assert.Equal(t, FormatBundle, res.Format)
	raw, err := json.Marshal(res.Data)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"controls"`)

	res = ToOpenGRC(lib, OutputStandard)
	assert.Equal(t, FormatStandard, res.Format)
	std, ok := res.Data.(*StandardDoc)
	require.True(t, ok)
	assert.Len(t, std.Controls, 3)

	res = ToOpenGRC(lib, "anything")
	assert.Equal(t, FormatFull, res.Format)
	full, ok := res.Data.(FullDoc)
	require.True(t, ok)
	assert.NotNil(t, full.Bundle)
	assert.NotNil(t, full.Standard)
}

func TestToOpenGRCMetadata(t *testing.T) {
	res := ToOpenGRC(loadLibrary(t), OutputFull)

	md := res.Metadata
	assert.Equal(t, uint(12), md.LibraryID)
	assert.Equal(t, "urn:intuitem:risk:library:nist-sp-800-171-rev2", md.LibraryURN)
	assert.Equal(t, "NIST", md.OriginalProvider)
	assert.Equal(t, "en", md.Locale)
	assert.Equal(t, 7, md.TotalRequirementNodes)
	assert.Equal(t, 3, md.AssessableControls)
	assert.False(t, md.ConvertedAt.IsZero())
}

func TestModelRoundTripKeepsNodes(t *testing.T) {
	lib := loadLibrary(t)
	m, err := lib.ToModel()
	require.NoError(t, err)

	back, err := FromModel(m)
	require.NoError(t, err)
	assert.Equal(t, lib.Nodes(), back.Nodes())
}
