package viewmodel

import (
	"encoding/json"
	"testing"

	"github.com/nuts-foundation/hdsi-querytool/lib/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

func TestNameFromFHIR(t *testing.T) {
	t.Run("single name", func(t *testing.T) {
		name := NameFromFHIR([]fhir.HumanName{{Given: []string{"Jane", "Q"}, Family: to.Ptr("Doe")}})

		assert.Equal(t, NameComponentKind, name.Kind)
		assert.Equal(t, "Jane Q Doe", RenderName(name))
	})
	t.Run("text only", func(t *testing.T) {
		name := NameFromFHIR([]fhir.HumanName{{Text: to.Ptr("Jane Doe")}})

		assert.Equal(t, "Jane Doe", RenderName(name))
	})
	t.Run("multiple names are qualified by use", func(t *testing.T) {
		name := NameFromFHIR([]fhir.HumanName{
			{Use: to.Ptr(fhir.NameUseOfficial), Family: to.Ptr("Doe")},
			{Use: to.Ptr(fhir.NameUseNickname), Given: []string{"JD"}},
			{Given: []string{"Janey"}},
		})

		require.Equal(t, NameQualified, name.Kind)
		assert.Equal(t, "Doe", RenderName(name))
		nickname, ok := name.Qualifier("nickname")
		require.True(t, ok)
		assert.Equal(t, "JD", RenderName(nickname))
		usual, ok := name.Qualifier("usual")
		require.True(t, ok)
		assert.Equal(t, "Janey", RenderName(usual))
	})
	t.Run("no names", func(t *testing.T) {
		assert.Nil(t, NameFromFHIR(nil))
		assert.Empty(t, RenderName(NameFromFHIR([]fhir.HumanName{{}})))
	})
}

func TestAddressFromFHIR(t *testing.T) {
	address := AddressFromFHIR([]fhir.Address{{
		Use:        to.Ptr(fhir.AddressUseHome),
		Line:       []string{"742 Evergreen Terrace"},
		City:       to.Ptr("Springfield"),
		District:   to.Ptr("Sangamon"),
		State:      to.Ptr("IL"),
		PostalCode: to.Ptr("62701"),
		Country:    to.Ptr("US"),
	}})

	assert.Equal(t, "home", address.Use)
	assert.Equal(t, "742 Evergreen Terrace, Springfield, Sangamon, IL, US", RenderAddress(address))
	assert.Nil(t, AddressFromFHIR(nil))
}

func TestPatientFromFHIR(t *testing.T) {
	var patient fhir.Patient
	require.NoError(t, json.Unmarshal([]byte(`{
		"resourceType": "Patient",
		"id": "p1",
		"birthDate": "1980-01-01",
		"name": [{"given": ["Jane"], "family": "Doe"}],
		"address": [{"city": "Springfield", "state": "IL"}]
	}`), &patient))

	result := PatientFromFHIR(patient)

	assert.Equal(t, "p1", result.ID)
	assert.Equal(t, "1980-01-01", result.DateOfBirth)
	assert.Equal(t, "Jane Doe", RenderName(result.Name))
	assert.Equal(t, "Springfield, IL", RenderEntityAddress(&result.Entity))
}
