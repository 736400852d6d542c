// Package notification alerts a human travel advisor over WhatsApp when a
// traveler finishes the profiling flow.
package notification

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

// messageSender is the slice of the Twilio client the notifier uses.
type messageSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Config holds the Twilio credentials and routing numbers. Leaving AccountSID
// empty disables advisor notifications.
type Config struct {
	AccountSID    string
	AuthToken     string
	FromNumber    string // WhatsApp number, digits with country code
	AdvisorNumber string
}

// Enabled reports whether a notifier should be constructed at all.
func (c Config) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != "" && c.AdvisorNumber != ""
}

// AdvisorNotifier delivers new-proposal alerts to the agency's advisor.
type AdvisorNotifier struct {
	api    messageSender
	from   string
	to     string
	logger *zap.Logger
}

// NewAdvisorNotifier creates a notifier backed by the Twilio REST API.
func NewAdvisorNotifier(cfg Config, logger *zap.Logger) *AdvisorNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newAdvisorNotifier(client.Api, cfg, logger)
}

func newAdvisorNotifier(api messageSender, cfg Config, logger *zap.Logger) *AdvisorNotifier {
	return &AdvisorNotifier{
		api:    api,
		from:   "whatsapp:" + cfg.FromNumber,
		to:     "whatsapp:" + cfg.AdvisorNumber,
		logger: logger,
	}
}

// ProposalReady tells the advisor a traveler just received a proposal and is
// waiting for human follow-up.
func (n *AdvisorNotifier) ProposalReady(sessionID string, p models.TravelerProfile, doc models.ProposalDocument) error {
	body := buildProposalAlert(sessionID, p, doc)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.api.CreateMessage(params); err != nil {
		n.logger.Error("Advisor notification failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fmt.Errorf("failed to notify advisor: %w", err)
	}

	n.logger.Info("Advisor notified", zap.String("session_id", sessionID))
	return nil
}

func buildProposalAlert(sessionID string, p models.TravelerProfile, doc models.ProposalDocument) string {
	var b strings.Builder
	b.WriteString("Nueva propuesta generada en ReservaT\n")
	fmt.Fprintf(&b, "Cliente: %s\n", p.Contact.Name)
	fmt.Fprintf(&b, "Teléfono: %s\n", p.Contact.Phone)
	fmt.Fprintf(&b, "Destino: %s\n", doc.Summary.Destinations)
	fmt.Fprintf(&b, "Fechas: %s\n", doc.Summary.TravelDates)
	fmt.Fprintf(&b, "Motivo: %s\n", doc.Summary.TripReason)
	fmt.Fprintf(&b, "Sesión: %s", sessionID)
	return b.String()
}
