package profile

// Option catalogs for the selectable fields, as rendered by the storefront
// form. The core never rejects values outside these lists; they are served to
// clients as form metadata.

const TripReasonHoneymoon = "Luna de miel"

// FieldOptions maps selectable fields to their offered choices.
var FieldOptions = map[FieldRef][]string{
	{SectionContact, "contactChannel"}: {"Oficina", "WhatsApp", "Web", "Referido"},
	{SectionTrip, "tripReason"}: {
		"Vacaciones", "Descanso", "Cumpleaños", TripReasonHoneymoon, "Empresarial", "Otro",
	},
	{SectionTravelerGroup, "groupType"}: {
		"Individual", "Pareja", "Familia", "Grupo", "Corporativo",
	},
	{SectionExperience, "travelStyle"}: {
		"Descanso", "Aventura", "Cultural", "Naturaleza", "Playa", "Mixto",
	},
	{SectionExperience, "comfortLevel"}: {"Básico", "Medio", "Alto"},
	{SectionExperience, "pace"}:         {"Tranquilo", "Equilibrado", "Intenso"},
	{SectionExperience, "amenities"}: {
		"Spa", "Piscina", "Gastronomía", "Vida nocturna", "Actividades al aire libre",
	},
	{SectionLodging, "accommodationType"}: {
		"Hotel", "Cabaña", "Finca", "Glamping", "Apartamento", "Hostal",
	},
	{SectionLodging, "category"}: {"Económica", "Estándar", "Premium"},
	{SectionLodging, "roomType"}: {"Sencilla", "Doble", "Múltiple"},
	{SectionLodging, "additionalPreferences"}: {
		"Ubicación central", "Piscina", "Desayuno incluido", "Accesibilidad", "Parqueadero",
	},
	{SectionTransport, "transportMode"}:  {"Terrestre", "Aéreo", "Mixto"},
	{SectionTransport, "timePreference"}: {"Mañana", "Tarde", "Noche", "Sin preferencia"},
	{SectionOperationalConditions, "priorityLevel"}: {
		"Lo más económico", "Equilibrado", "Mejor experiencia",
	},
	{SectionOperationalConditions, "servicesToInclude"}: {
		"Guianza", "Entradas a atracciones", "Seguro de viaje",
		"Asistencia médica", "Sesión de fotos", "Otro",
	},
	{SectionDeliverable, "proposalFormat"}: {
		"1 paquete recomendado", "2–3 alternativas: Eco–Estándar–Premium",
	},
}

// OptionsByPath returns the option catalogs keyed by "section.field" path,
// ready for JSON serialization.
func OptionsByPath() map[string][]string {
	out := make(map[string][]string, len(FieldOptions))
	for ref, opts := range FieldOptions {
		out[ref.String()] = append([]string(nil), opts...)
	}
	return out
}
