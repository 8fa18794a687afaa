package customdata

const (
	// KeyOwner is the product owner field.
	KeyOwner = "Owner"
	// KeyPhase is the lifecycle phase field. It is fixed to PhaseTransport in this editor.
	KeyPhase = "Phase"
	// KeyTransportType is the constrained transport mode field injected on load.
	KeyTransportType = "Transport Type"

	// PhaseTransport is the value Phase is forced to once the transport editor is used.
	PhaseTransport = "Transport"
)

// TransportTypes lists the accepted values for the Transport Type entry, in display order.
var TransportTypes = []string{"Road", "Rail", "Ship", "Plane", "Other"}

var displayKeys = map[string]bool{
	KeyOwner:         true,
	KeyPhase:         true,
	KeyTransportType: true,
}

// Displayed reports whether entries with the given key are shown and editable in the transport view.
func Displayed(key string) bool {
	return displayKeys[key]
}

// ReadOnly reports whether entries with the given key cannot be edited.
func ReadOnly(key string) bool {
	return key == KeyPhase
}

// ValidTransportType reports whether value is an accepted Transport Type.
// The empty value means "not selected yet" and is accepted.
func ValidTransportType(value string) bool {
	if value == "" {
		return true
	}
	for _, t := range TransportTypes {
		if t == value {
			return true
		}
	}
	return false
}
