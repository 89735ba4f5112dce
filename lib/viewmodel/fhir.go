package viewmodel

import (
	"github.com/nuts-foundation/hdsi-querytool/lib/to"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// NameFromFHIR maps FHIR names onto a view-model name. A single name maps onto its components
// (or its text if it has none), multiple names become a name qualified by their use.
func NameFromFHIR(names []fhir.HumanName) *Name {
	switch len(names) {
	case 0:
		return nil
	case 1:
		return humanName(names[0])
	}
	result := &Name{Kind: NameQualified}
	for _, name := range names {
		qualifier := "usual"
		if name.Use != nil {
			qualifier = name.Use.Code()
		}
		result.Qualified = append(result.Qualified, QualifiedName{Qualifier: qualifier, Name: *humanName(name)})
	}
	return result
}

func humanName(name fhir.HumanName) *Name {
	if len(name.Given) == 0 && name.Family == nil {
		if text := to.EmptyString(name.Text); text != "" {
			return PlainName(text)
		}
		return &Name{}
	}
	components := NameComponents{Given: name.Given}
	if family := to.EmptyString(name.Family); family != "" {
		components.Family = Text{family}
	}
	return ComponentName(components)
}

// AddressFromFHIR maps the first FHIR address onto a view-model address.
func AddressFromFHIR(addresses []fhir.Address) *Address {
	if len(addresses) == 0 {
		return nil
	}
	address := addresses[0]
	result := &Address{}
	if address.Use != nil {
		result.Use = address.Use.Code()
	}
	result.Components.Street = address.Line
	result.Components.City = textOf(address.City)
	result.Components.County = textOf(address.District)
	result.Components.State = textOf(address.State)
	result.Components.Country = textOf(address.Country)
	return result
}

// PatientFromFHIR maps a FHIR Patient onto the view-model patient.
func PatientFromFHIR(patient fhir.Patient) Patient {
	return Patient{
		Entity: Entity{
			ID:      to.EmptyString(patient.Id),
			Type:    "Patient",
			Name:    NameFromFHIR(patient.Name),
			Address: AddressFromFHIR(patient.Address),
		},
		DateOfBirth: to.EmptyString(patient.BirthDate),
	}
}

func textOf(value *string) Text {
	if s := to.EmptyString(value); s != "" {
		return Text{s}
	}
	return nil
}
