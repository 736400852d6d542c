package models

// ProposalDocument is the renderer-agnostic description of a generated travel
// proposal. The PDF and Excel exporters lay it out; nothing here depends on a
// rendering library.
type ProposalDocument struct {
	Header      ProposalHeader    `json:"header"`
	Summary     TripSummary       `json:"summary"`
	Preferences PreferenceProfile `json:"preferences"`
	Lodging     LodgingProposal   `json:"lodging"`
	Transport   TransportPlan     `json:"transport"`
	Itinerary   []ItineraryDay    `json:"itinerary"`
	Conditions  OfferConditions   `json:"conditions"`
	Footer      ProposalFooter    `json:"footer"`
}

// ProposalHeader identifies the document, its recipient and issue date.
type ProposalHeader struct {
	Issuer     string `json:"issuer"`
	Title      string `json:"title"`
	Recipient  string `json:"recipient"`
	IssuedDate string `json:"issuedDate"`
	Disclaimer string `json:"disclaimer"`
}

// TripSummary is the top block of the proposal.
type TripSummary struct {
	Destinations string `json:"destinations"`
	TravelDates  string `json:"travelDates"`
	Duration     string `json:"duration"`
	OriginCity   string `json:"originCity"`
	TripReason   string `json:"tripReason"`
	GroupSummary string `json:"groupSummary"`
}

// PreferenceProfile lists the traveler's experience preferences.
type PreferenceProfile struct {
	ComfortLevel string   `json:"comfortLevel"`
	Pace         string   `json:"pace"`
	TravelStyles []string `json:"travelStyles"`
	Amenities    []string `json:"amenities"`
}

// LodgingProposal summarizes the requested accommodation.
type LodgingProposal struct {
	Types     []string `json:"types"`
	Category  string   `json:"category"`
	RoomType  string   `json:"roomType"`
	RoomCount string   `json:"roomCount"`
	Extras    []string `json:"extras"`
}

// TransportPlan summarizes the requested logistics.
type TransportPlan struct {
	Route             string `json:"route"`
	Mode              string `json:"mode"`
	TimePreference    string `json:"timePreference"`
	InternalTransfers string `json:"internalTransfers"`
}

// ItineraryDay is one suggested day of the trip.
type ItineraryDay struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// OfferConditions closes the proposal with services, priority and follow-up.
type OfferConditions struct {
	Services       []string `json:"services"`
	PriorityLevel  string   `json:"priorityLevel"`
	ProposalFormat string   `json:"proposalFormat"`
	ClosingNote    string   `json:"closingNote"`
}

// ProposalFooter is repeated on every page of the rendered document.
type ProposalFooter struct {
	AgencyName  string `json:"agencyName"`
	ContactLine string `json:"contactLine"`
}
