package viewmodel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AddressComponents holds the address parts in rendering order.
type AddressComponents struct {
	Locator  Text
	Street   Text
	Precinct Text
	City     Text
	County   Text
	State    Text
	Country  Text
}

// Address is a view-model address. It decodes {"component": {...}}, a bare component object,
// or an object keyed by use (e.g. {"HomeAddress": {"component": {...}}}), of which the first use is taken.
type Address struct {
	Use        string
	Components AddressComponents
}

func (a *Address) UnmarshalJSON(data []byte) error {
	*a = Address{}
	if jsonKind(data) != '{' {
		return nil
	}
	members, err := decodeMembers(data)
	if err != nil {
		return err
	}
	if component, ok := findMember(members, "component"); ok {
		if jsonKind(component) != '{' {
			return nil
		}
		if members, err = decodeMembers(component); err != nil {
			return err
		}
		return a.Components.set(members)
	}
	if hasAddressComponents(members) {
		return a.Components.set(members)
	}
	for _, m := range members {
		if jsonKind(m.Value) != '{' {
			continue
		}
		var inner Address
		if err := json.Unmarshal(m.Value, &inner); err != nil {
			return fmt.Errorf("address %q: %w", m.Key, err)
		}
		inner.Use = m.Key
		*a = inner
		return nil
	}
	return nil
}

func (c *AddressComponents) set(members []member) error {
	for _, m := range members {
		target := c.field(m.Key)
		if target == nil {
			continue
		}
		var text Text
		if err := json.Unmarshal(m.Value, &text); err != nil {
			return fmt.Errorf("address component %q: %w", m.Key, err)
		}
		*target = append(*target, text...)
	}
	return nil
}

func (c *AddressComponents) field(key string) *Text {
	switch strings.ToLower(key) {
	case "locator", "additionallocator":
		return &c.Locator
	case "street", "streetaddressline", "addressline":
		return &c.Street
	case "precinct":
		return &c.Precinct
	case "city":
		return &c.City
	case "county":
		return &c.County
	case "state":
		return &c.State
	case "country":
		return &c.Country
	default:
		return nil
	}
}

func hasAddressComponents(members []member) bool {
	var probe AddressComponents
	for _, m := range members {
		if probe.field(m.Key) != nil {
			return true
		}
	}
	return false
}

func (c AddressComponents) ordered() []Text {
	return []Text{c.Locator, c.Street, c.Precinct, c.City, c.County, c.State, c.Country}
}

// RenderAddress renders the present address components, separated by ", ".
func RenderAddress(address *Address) string {
	if address == nil {
		return ""
	}
	var b strings.Builder
	for _, component := range address.Components.ordered() {
		if value := component.String(); value != "" {
			b.WriteString(value)
			b.WriteString(", ")
		}
	}
	return strings.TrimSuffix(b.String(), ", ")
}

// RenderEntityAddress renders the address of an entity.
func RenderEntityAddress(entity *Entity) string {
	if entity == nil {
		return ""
	}
	return RenderAddress(entity.Address)
}
