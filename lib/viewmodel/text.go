package viewmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Text is a view-model value that is either a single string or a sequence of strings.
// Numbers and booleans are accepted as their textual form, nested objects are ignored.
type Text []string

func (t *Text) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = textFrom(raw)
	return nil
}

func textFrom(value any) Text {
	switch v := value.(type) {
	case string:
		return Text{v}
	case float64:
		return Text{strconv.FormatFloat(v, 'f', -1, 64)}
	case bool:
		return Text{strconv.FormatBool(v)}
	case []any:
		var result Text
		for _, element := range v {
			result = append(result, textFrom(element)...)
		}
		return result
	default:
		return nil
	}
}

// String joins the elements with a single space.
func (t Text) String() string {
	return strings.Join(t, " ")
}

// First returns the first element, or an empty string.
func (t Text) First() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// LocalizedEntry is one language's value of a LocalizedText.
type LocalizedEntry struct {
	Language string
	Value    Text
}

// LocalizedText is a language-keyed value, e.g. {"en": "Weight", "nl": "Gewicht"}.
// Entries keep the order of the JSON document.
// A plain string or sequence decodes into a single entry without language.
type LocalizedText []LocalizedEntry

func (l *LocalizedText) UnmarshalJSON(data []byte) error {
	*l = nil
	if jsonKind(data) != '{' {
		var text Text
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if len(text) > 0 {
			*l = LocalizedText{{Value: text}}
		}
		return nil
	}
	members, err := decodeMembers(data)
	if err != nil {
		return err
	}
	result := make(LocalizedText, 0, len(members))
	for _, m := range members {
		var text Text
		if err := json.Unmarshal(m.Value, &text); err != nil {
			return fmt.Errorf("localized value %q: %w", m.Key, err)
		}
		result = append(result, LocalizedEntry{Language: m.Key, Value: text})
	}
	*l = result
	return nil
}

// Get returns the value for the given language. Language keys match case-insensitively.
func (l LocalizedText) Get(language string) (Text, bool) {
	for _, entry := range l {
		if strings.EqualFold(entry.Language, language) {
			return entry.Value, true
		}
	}
	return nil, false
}

// member is a key/value pair of a JSON object.
type member struct {
	Key   string
	Value json.RawMessage
}

// decodeMembers returns the members of a JSON object in document order.
func decodeMembers(data []byte) ([]member, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}
	var members []member
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, _ := token.(string)
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{Key: key, Value: value})
	}
	return members, nil
}

func findMember(members []member, key string) (json.RawMessage, bool) {
	for _, m := range members {
		if strings.EqualFold(m.Key, key) {
			return m.Value, true
		}
	}
	return nil, false
}

// jsonKind returns the first significant byte of a JSON value, e.g. '{' for objects and 'n' for null.
func jsonKind(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
