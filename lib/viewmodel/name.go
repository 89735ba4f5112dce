package viewmodel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NameKind discriminates the shapes a view-model name can take.
type NameKind int

const (
	NameEmpty NameKind = iota
	// NamePlain is a single string, e.g. "Jane".
	NamePlain
	// NameSequence is a sequence of strings, e.g. ["Jane", "Q"].
	NameSequence
	// NameComponentKind is a name made of given, family and other components.
	NameComponentKind
	// NameQualified maps qualifiers (e.g. OfficialRecord, Assigned) to names.
	NameQualified
)

// Name is a tagged union over the shapes of a view-model name. The shape is decided once when decoding.
type Name struct {
	Kind       NameKind
	Text       Text
	Components NameComponents
	Qualified  []QualifiedName
}

type NameComponents struct {
	Given  Text
	Family Text
	Other  Text
}

// String renders the components as "<given> <family><other>".
// The space is only written when both given and family are present.
func (c NameComponents) String() string {
	given := c.Given.String()
	family := c.Family.String()
	separator := ""
	if given != "" && family != "" {
		separator = " "
	}
	return given + separator + family + c.Other.String()
}

type QualifiedName struct {
	Qualifier string
	Name      Name
}

func PlainName(text string) *Name {
	return &Name{Kind: NamePlain, Text: Text{text}}
}

func SequenceName(parts ...string) *Name {
	return &Name{Kind: NameSequence, Text: parts}
}

func ComponentName(components NameComponents) *Name {
	return &Name{Kind: NameComponentKind, Components: components}
}

func (n *Name) UnmarshalJSON(data []byte) error {
	*n = Name{}
	switch jsonKind(data) {
	case 'n':
		return nil
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = Name{Kind: NamePlain, Text: Text{text}}
	case '[':
		var text Text
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = Name{Kind: NameSequence, Text: text}
	case '{':
		return n.unmarshalObject(data)
	default:
		var text Text
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = Name{Kind: NamePlain, Text: text}
	}
	return nil
}

func (n *Name) unmarshalObject(data []byte) error {
	members, err := decodeMembers(data)
	if err != nil {
		return err
	}
	if component, ok := findMember(members, "component"); ok && jsonKind(component) == '{' {
		componentMembers, err := decodeMembers(component)
		if err != nil {
			return err
		}
		members = componentMembers
	} else if !hasNameComponents(members) {
		qualified := make([]QualifiedName, 0, len(members))
		for _, m := range members {
			var inner Name
			if err := json.Unmarshal(m.Value, &inner); err != nil {
				return fmt.Errorf("name %q: %w", m.Key, err)
			}
			qualified = append(qualified, QualifiedName{Qualifier: m.Key, Name: inner})
		}
		*n = Name{Kind: NameQualified, Qualified: qualified}
		return nil
	}
	var components NameComponents
	for _, m := range members {
		var target *Text
		switch strings.ToLower(m.Key) {
		case "given":
			target = &components.Given
		case "family":
			target = &components.Family
		case "other", "$other":
			target = &components.Other
		default:
			continue
		}
		if err := json.Unmarshal(m.Value, target); err != nil {
			return fmt.Errorf("name component %q: %w", m.Key, err)
		}
	}
	*n = Name{Kind: NameComponentKind, Components: components}
	return nil
}

func hasNameComponents(members []member) bool {
	for _, m := range members {
		switch strings.ToLower(m.Key) {
		case "given", "family", "other", "$other":
			return true
		}
	}
	return false
}

// Qualifier returns the name for the given qualifier, matched case-insensitively.
func (n *Name) Qualifier(qualifier string) (*Name, bool) {
	if n == nil {
		return nil, false
	}
	for i := range n.Qualified {
		if strings.EqualFold(n.Qualified[i].Qualifier, qualifier) {
			return &n.Qualified[i].Name, true
		}
	}
	return nil, false
}

// RenderName renders a name for display.
// Qualified names render the first qualifier present in the document.
func RenderName(name *Name) string {
	if name == nil {
		return ""
	}
	switch name.Kind {
	case NamePlain, NameSequence:
		return name.Text.String()
	case NameComponentKind:
		return name.Components.String()
	case NameQualified:
		if len(name.Qualified) == 0 {
			return ""
		}
		return RenderName(&name.Qualified[0].Name)
	default:
		return ""
	}
}
