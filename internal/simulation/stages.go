package simulation

import "time"

// Stage is one timed phase of the processing animation with its display text.
type Stage struct {
	Duration time.Duration `json:"-"`
	Headline string        `json:"headline"`
	Subtext  string        `json:"subtext"`
}

// DefaultStages is the production timeline: five working phases of 1.5s each
// and a 1s closing phase, 8.5s in total.
var DefaultStages = []Stage{
	{
		Duration: 1500 * time.Millisecond,
		Headline: "Analizando perfil del viajero...",
		Subtext:  "Procesando preferencias, grupo y fechas del viaje",
	},
	{
		Duration: 1500 * time.Millisecond,
		Headline: "Explorando destinos disponibles...",
		Subtext:  "Cruzando destino de interés con temporada y duración",
	},
	{
		Duration: 1500 * time.Millisecond,
		Headline: "Seleccionando opciones de alojamiento...",
		Subtext:  "Filtrando por categoría, tipo y preferencias del grupo",
	},
	{
		Duration: 1500 * time.Millisecond,
		Headline: "Estructurando itinerario personalizado...",
		Subtext:  "Organizando actividades según estilo y ritmo de viaje",
	},
	{
		Duration: 1500 * time.Millisecond,
		Headline: "Armando propuesta final...",
		Subtext:  "Preparando el entregable con los mejores resultados",
	},
	{
		Duration: 1000 * time.Millisecond,
		Headline: "¡Propuesta lista!",
		Subtext:  "Tu paquete turístico personalizado ha sido generado",
	},
}
