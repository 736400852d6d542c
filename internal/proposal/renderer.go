// Package proposal turns a completed traveler profile into the structured
// proposal document and exports it as PDF or Excel artifacts.
package proposal

import (
	"fmt"
	"regexp"
	"time"

	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/internal/profile"
)

// Fallback labels used when an optional answer was left empty.
const (
	labelNotSpecified = "No especificado"
	labelNoneSelected = "Ninguno seleccionado"
)

const (
	defaultItineraryDays = 3
	maxItineraryDays     = 14
)

var durationDaysRe = regexp.MustCompile(`(\d+)\s*días`)

// Config identifies the issuing agency on generated documents.
type Config struct {
	AgencyName   string
	DocumentLogo string
	Website      string
	WhatsApp     string
}

// Renderer derives renderer-agnostic proposal documents from profiles.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer for the given agency identity.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render builds the proposal document for the profile, dated today.
func (r *Renderer) Render(p *models.TravelerProfile) models.ProposalDocument {
	return r.renderAt(p, time.Now())
}

func (r *Renderer) renderAt(p *models.TravelerProfile, now time.Time) models.ProposalDocument {
	children := p.TravelerGroup.Children
	if children == "" {
		children = "0"
	}

	return models.ProposalDocument{
		Header: models.ProposalHeader{
			Issuer:     r.cfg.DocumentLogo,
			Title:      "Propuesta de Paquete Turístico",
			Recipient:  p.Contact.Name,
			IssuedDate: spanishDate(now),
			Disclaimer: "Este documento es informativo. Los precios y disponibilidad están sujetos a confirmación por parte de la agencia.",
		},
		Summary: models.TripSummary{
			Destinations: orLabel(p.Trip.Destinations),
			TravelDates:  fmt.Sprintf("%s al %s", p.Trip.DepartureDate, p.Trip.ReturnDate),
			Duration:     orLabel(p.Trip.Duration),
			OriginCity:   orLabel(p.Contact.OriginCity),
			TripReason:   orLabel(p.Trip.TripReason),
			GroupSummary: fmt.Sprintf("%s: %s adultos, %s niños",
				orLabel(p.TravelerGroup.GroupType), orLabel(p.TravelerGroup.Adults), children),
		},
		Preferences: models.PreferenceProfile{
			ComfortLevel: orLabel(p.Experience.ComfortLevel),
			Pace:         orLabel(p.Experience.Pace),
			TravelStyles: append([]string{}, p.Experience.TravelStyle...),
			Amenities:    append([]string{}, p.Experience.Amenities...),
		},
		Lodging: models.LodgingProposal{
			Types:     append([]string{}, p.Lodging.AccommodationType...),
			Category:  orLabel(p.Lodging.Category),
			RoomType:  orLabel(p.Lodging.RoomType),
			RoomCount: orLabel(p.Lodging.RoomCount),
			Extras:    append([]string{}, p.Lodging.AdditionalPreferences...),
		},
		Transport: models.TransportPlan{
			Route:             fmt.Sprintf("%s ➔ %s", orLabel(p.Transport.DeparturePoint), orLabel(p.Transport.ArrivalPoint)),
			Mode:              orLabel(p.Transport.TransportMode),
			TimePreference:    orLabel(p.Transport.TimePreference),
			InternalTransfers: transferLabel(p.Transport.InternalTransfers),
		},
		Itinerary: buildItinerary(p),
		Conditions: models.OfferConditions{
			Services:       append([]string{}, p.OperationalConditions.ServicesToInclude...),
			PriorityLevel:  orLabel(p.OperationalConditions.PriorityLevel),
			ProposalFormat: orLabel(p.Deliverable.ProposalFormat),
			ClosingNote: fmt.Sprintf("Un asesor de Reservat se pondrá en contacto contigo muy pronto con tu número "+
				"celular registrado (%s) para conversar sobre estas alternativas y confirmar disponibilidad y "+
				"tarifas vigentes.", p.Contact.Phone),
		},
		Footer: models.ProposalFooter{
			AgencyName:  r.cfg.AgencyName,
			ContactLine: fmt.Sprintf("%s • WhatsApp: %s", r.cfg.Website, r.cfg.WhatsApp),
		},
	}
}

// buildItinerary produces one entry per trip day. Day counts come from the
// derived duration string and are clamped to a two-week proposal; the first
// and last days carry arrival and departure templates, and a honeymoon trip
// replaces every description outright, last write wins.
func buildItinerary(p *models.TravelerProfile) []models.ItineraryDay {
	numDays := defaultItineraryDays
	if m := durationDaysRe.FindStringSubmatch(p.Trip.Duration); m != nil {
		fmt.Sscanf(m[1], "%d", &numDays)
	}
	if numDays > maxItineraryDays {
		numDays = maxItineraryDays
	}

	destination := p.Trip.Destinations
	if destination == "" {
		destination = "Destino"
	}
	styles := joinOr(p.Experience.TravelStyle, "elegido")
	pace := p.Experience.Pace
	if pace == "" {
		pace = "de viaje"
	}
	arrival := p.Transport.ArrivalPoint
	if arrival == "" {
		arrival = "destino"
	}
	departure := p.Transport.DeparturePoint
	if departure == "" {
		departure = "origen"
	}

	days := make([]models.ItineraryDay, 0, numDays)
	for i := 0; i < numDays; i++ {
		title := fmt.Sprintf("Día %d – Exploración en %s", i+1, destination)
		desc := fmt.Sprintf("Actividades programadas basadas en el estilo %s y ritmo %s.", styles, pace)

		switch {
		case i == 0:
			title = "Día 1 – Llegada y Bienvenida"
			desc = fmt.Sprintf("Recepción en el punto de llegada (%s), entrega de indicaciones y tiempo libre para aclimatación.", arrival)
		case i == numDays-1:
			title = fmt.Sprintf("Día %d – Despedida y Retorno", numDays)
			desc = fmt.Sprintf("Check-out de alojamiento y traslado hacia el punto de salida (%s). Fin de nuestros servicios.", departure)
		}

		if p.Trip.TripReason == profile.TripReasonHoneymoon {
			desc = "Experiencia romántica especialmente diseñada para parejas, combinando intimidad y descubrimientos memorables."
		}

		days = append(days, models.ItineraryDay{Title: title, Description: desc})
	}
	return days
}

func orLabel(value string) string {
	if value == "" {
		return labelNotSpecified
	}
	return value
}

func transferLabel(t models.TriState) string {
	switch t {
	case models.TriYes:
		return "Requeridos"
	case models.TriNo:
		return "No requeridos"
	default:
		return labelNotSpecified
	}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// spanishDate formats a date the way es-CO long dates read.
func spanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
