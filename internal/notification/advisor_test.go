package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

type mockMessageSender struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (m *mockMessageSender) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	m.params = params
	if m.err != nil {
		return nil, m.err
	}
	return &twilioApi.ApiV2010Message{}, nil
}

func testNotifierConfig() Config {
	return Config{
		AccountSID:    "AC123",
		AuthToken:     "token",
		FromNumber:    "+573000000000",
		AdvisorNumber: "+573111111111",
	}
}

func TestConfigEnabled(t *testing.T) {
	assert.True(t, testNotifierConfig().Enabled())

	cfg := testNotifierConfig()
	cfg.AdvisorNumber = ""
	assert.False(t, cfg.Enabled())
	assert.False(t, Config{}.Enabled())
}

func TestProposalReadySendsWhatsAppAlert(t *testing.T) {
	sender := &mockMessageSender{}
	n := newAdvisorNotifier(sender, testNotifierConfig(), zap.NewNop())

	p := models.NewTravelerProfile()
	p.Contact.Name = "Ana Pérez"
	p.Contact.Phone = "+57 301 555 1234"
	doc := models.ProposalDocument{
		Summary: models.TripSummary{
			Destinations: "Cartagena",
			TravelDates:  "2026-10-01 al 2026-10-05",
			TripReason:   "Vacaciones",
		},
	}

	require.NoError(t, n.ProposalReady("sess-1", *p, doc))
	require.NotNil(t, sender.params)
	assert.Equal(t, "whatsapp:+573111111111", *sender.params.To)
	assert.Equal(t, "whatsapp:+573000000000", *sender.params.From)
	assert.Contains(t, *sender.params.Body, "Ana Pérez")
	assert.Contains(t, *sender.params.Body, "Cartagena")
	assert.Contains(t, *sender.params.Body, "sess-1")
}

func TestProposalReadyError(t *testing.T) {
	sender := &mockMessageSender{err: errors.New("twilio down")}
	n := newAdvisorNotifier(sender, testNotifierConfig(), zap.NewNop())

	err := n.ProposalReady("sess-1", *models.NewTravelerProfile(), models.ProposalDocument{})
	assert.Error(t, err)
}
