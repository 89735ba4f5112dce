package viewmodel

// RenderConceptName returns the value for the given language, or that of the first language present.
// Sequences yield their first element.
func RenderConceptName(name LocalizedText, language string) string {
	if len(name) == 0 {
		return ""
	}
	if value, ok := name.Get(language); ok && len(value) > 0 {
		return value.First()
	}
	for _, entry := range name {
		if len(entry.Value) > 0 {
			return entry.Value.First()
		}
	}
	return ""
}

// RenderConcept renders the concept's name, falling back to its mnemonic.
func RenderConcept(concept *Concept, language string) string {
	if concept == nil {
		return ""
	}
	if name := RenderConceptName(concept.Name, language); name != "" {
		return name
	}
	return concept.Mnemonic
}

// RenderManufacturedMaterial renders the material name followed by its lot number, e.g. "Widget[LN#: LN123]".
func RenderManufacturedMaterial(material *Material) string {
	if material == nil {
		return ""
	}
	name := RenderName(material.Name)
	if material.LotNumber == "" {
		return name
	}
	return name + "[LN#: " + material.LotNumber + "]"
}

// RenderAct describes the act in the given language.
// Acts other than substance administrations and observations render as an empty string.
func RenderAct(act *Act, language string) string {
	if act == nil {
		return ""
	}
	printer := newPrinter(language)
	switch act.Type {
	case TypeSubstanceAdministration:
		var product string
		if material := act.Participation.Player(RoleProduct); material != nil {
			product = RenderName(material.Name)
		}
		return printer.Sprintf(msgAdministration, product)
	case TypeQuantityObservation, TypeCodedObservation, TypeTextObservation:
		return printer.Sprintf(msgObservation, RenderConcept(act.TypeConcept, language))
	default:
		return ""
	}
}
