package viewmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeName(t *testing.T, data string) *Name {
	t.Helper()
	var name Name
	require.NoError(t, json.Unmarshal([]byte(data), &name))
	return &name
}

func TestRenderName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: `"Jane"`, expected: "Jane"},
		{name: "sequence", input: `["Jane","Q"]`, expected: "Jane Q"},
		{name: "qualified components", input: `{"official":{"given":"Jane","family":"Doe"}}`, expected: "Jane Doe"},
		{name: "component object", input: `{"component":{"Given":["Jane","Q"],"Family":"Doe"}}`, expected: "Jane Q Doe"},
		{name: "qualified component object", input: `{"OfficialRecord":{"component":{"Given":"Jane","Family":"Doe"}}}`, expected: "Jane Doe"},
		{name: "first qualifier in document order", input: `{"Assigned":"Widget","OfficialRecord":"Other"}`, expected: "Widget"},
		{name: "given only", input: `{"given":"Jane"}`, expected: "Jane"},
		{name: "family only", input: `{"family":"Doe"}`, expected: "Doe"},
		{name: "other is appended", input: `{"given":"Jane","family":"Doe","other":"Jr"}`, expected: "Jane DoeJr"},
		{name: "$other is accepted", input: `{"component":{"$other":"Janey"}}`, expected: "Janey"},
		{name: "empty object", input: `{}`, expected: ""},
		{name: "empty sequence", input: `[]`, expected: ""},
		{name: "number", input: `42`, expected: "42"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RenderName(decodeName(t, tc.input)))
		})
	}
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, RenderName(nil))
	})
	t.Run("null", func(t *testing.T) {
		assert.Empty(t, RenderName(decodeName(t, `null`)))
	})
}

func TestName_UnmarshalJSON(t *testing.T) {
	t.Run("shape is decided at decoding", func(t *testing.T) {
		assert.Equal(t, NamePlain, decodeName(t, `"Jane"`).Kind)
		assert.Equal(t, NameSequence, decodeName(t, `["Jane"]`).Kind)
		assert.Equal(t, NameComponentKind, decodeName(t, `{"given":"Jane"}`).Kind)
		assert.Equal(t, NameQualified, decodeName(t, `{"Assigned":"Widget"}`).Kind)
		assert.Equal(t, NameEmpty, decodeName(t, `null`).Kind)
	})
	t.Run("qualifier lookup", func(t *testing.T) {
		name := decodeName(t, `{"Assigned":"Widget","OfficialRecord":{"given":"Jane"}}`)

		official, ok := name.Qualifier("officialrecord")

		require.True(t, ok)
		assert.Equal(t, "Jane", RenderName(official))
		_, ok = name.Qualifier("Legal")
		assert.False(t, ok)
	})
	t.Run("invalid component", func(t *testing.T) {
		var name Name
		err := json.Unmarshal([]byte(`{"given":{"x":1},"family":`), &name)

		assert.Error(t, err)
	})
}

func TestNameConstructors(t *testing.T) {
	assert.Equal(t, "Jane", RenderName(PlainName("Jane")))
	assert.Equal(t, "Jane Q", RenderName(SequenceName("Jane", "Q")))
	assert.Equal(t, "Jane Doe", RenderName(ComponentName(NameComponents{Given: Text{"Jane"}, Family: Text{"Doe"}})))
}
