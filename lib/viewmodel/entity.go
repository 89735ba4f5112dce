package viewmodel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Act type discriminators, as found in the $type field.
const (
	TypeSubstanceAdministration = "SubstanceAdministration"
	TypeQuantityObservation     = "QuantityObservation"
	TypeCodedObservation        = "CodedObservation"
	TypeTextObservation         = "TextObservation"
)

// Participation role through which a substance administration refers to the administered material.
const RoleProduct = "Product"

type Entity struct {
	ID      string   `json:"id,omitempty"`
	Type    string   `json:"$type,omitempty"`
	Name    *Name    `json:"name,omitempty"`
	Address *Address `json:"address,omitempty"`
}

type Patient struct {
	Entity
	DateOfBirth   string   `json:"dateOfBirth,omitempty"`
	GenderConcept *Concept `json:"genderConceptModel,omitempty"`
}

// Material is a (manufactured) material, e.g. a vaccine product.
type Material struct {
	Entity
	LotNumber  string `json:"lotNumber,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

type Concept struct {
	ID       string        `json:"id,omitempty"`
	Mnemonic string        `json:"mnemonic,omitempty"`
	Name     LocalizedText `json:"name,omitempty"`
}

type Participation struct {
	PlayerID string    `json:"player,omitempty"`
	Player   *Material `json:"playerModel,omitempty"`
}

// Participations maps roles to participations. A role holds either a single participation or a sequence.
type Participations map[string][]Participation

func (p *Participations) UnmarshalJSON(data []byte) error {
	*p = nil
	if jsonKind(data) != '{' {
		return nil
	}
	members, err := decodeMembers(data)
	if err != nil {
		return err
	}
	result := make(Participations, len(members))
	for _, m := range members {
		switch jsonKind(m.Value) {
		case '[':
			var participations []Participation
			if err := json.Unmarshal(m.Value, &participations); err != nil {
				return fmt.Errorf("participation %q: %w", m.Key, err)
			}
			result[m.Key] = participations
		case '{':
			var participation Participation
			if err := json.Unmarshal(m.Value, &participation); err != nil {
				return fmt.Errorf("participation %q: %w", m.Key, err)
			}
			result[m.Key] = []Participation{participation}
		}
	}
	*p = result
	return nil
}

// Player returns the first player in the given role, matched case-insensitively.
func (p Participations) Player(role string) *Material {
	for key, participations := range p {
		if !strings.EqualFold(key, role) {
			continue
		}
		for _, participation := range participations {
			if participation.Player != nil {
				return participation.Player
			}
		}
	}
	return nil
}

type Act struct {
	ID            string         `json:"id,omitempty"`
	Type          string         `json:"$type,omitempty"`
	ActTime       string         `json:"actTime,omitempty"`
	TypeConcept   *Concept       `json:"typeConceptModel,omitempty"`
	Participation Participations `json:"participation,omitempty"`
}

// Bundle is a page of search results.
type Bundle[T any] struct {
	Items        []T `json:"item"`
	TotalResults int `json:"totalResults"`
	Offset       int `json:"offset"`
	Count        int `json:"count"`
}
