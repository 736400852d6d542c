package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/intake"
	"github.com/reservat/storefront/internal/metrics"
	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/simulation"
	"github.com/reservat/storefront/internal/storefront"
)

type stubServiceStore struct {
	services []models.CatalogService
}

func (s *stubServiceStore) List(category string) ([]models.CatalogService, error) {
	if category == "" || category == "all" {
		return s.services, nil
	}
	var out []models.CatalogService
	for _, svc := range s.services {
		if svc.Category == category {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *stubServiceStore) GetByID(id int64) (*models.CatalogService, error) {
	for _, svc := range s.services {
		if svc.ID == id {
			copied := svc
			return &copied, nil
		}
	}
	return nil, nil
}

type stubUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func (s *stubUserStore) Create(user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users[user.Email] = user
	return nil
}

func (s *stubUserStore) GetByEmail(email string) (*models.User, error) {
	return s.users[email], nil
}

func (s *stubUserStore) GetByID(id int64) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type stubReservationStore struct {
	created   []*models.Reservation
	cancelled []int64
}

func (s *stubReservationStore) Create(tx *sql.Tx, res *models.Reservation) error {
	res.ID = int64(len(s.created) + 1)
	s.created = append(s.created, res)
	return nil
}

func (s *stubReservationStore) ListByUser(userID int64) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range s.created {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubReservationStore) Cancel(id, userID int64) (bool, error) {
	for _, r := range s.created {
		if r.ID == id && r.UserID == userID && r.Status == models.ReservationConfirmed {
			r.Status = models.ReservationCancelled
			s.cancelled = append(s.cancelled, id)
			return true, nil
		}
	}
	return false, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTransaction(fn func(*sql.Tx) error) error {
	return fn(nil)
}

type stubAssistant struct {
	reply string
	err   error
}

func (s *stubAssistant) Send(_ context.Context, _, _ string) (string, error) {
	return s.reply, s.err
}

func (s *stubAssistant) Forget(string) {}

func testRenderer() *proposal.Renderer {
	return proposal.NewRenderer(proposal.Config{
		AgencyName:   "Reservat",
		DocumentLogo: "ReservaT",
		Website:      "www.reservat.co",
		WhatsApp:     "+57 300 000 0000",
	})
}

func newTestServer(t *testing.T) (*Server, *stubReservationStore) {
	t.Helper()

	logger := zap.NewNop()
	stages := []simulation.Stage{
		{Duration: 30 * time.Millisecond, Headline: "Analizando", Subtext: "..."},
		{Duration: 30 * time.Millisecond, Headline: "Generando", Subtext: "..."},
	}

	manager := intake.NewManager(intake.ManagerConfig{
		SessionTTL:    time.Hour,
		SweepInterval: time.Hour,
	}, testRenderer(), stages, nil, logger)
	t.Cleanup(manager.Close)

	serviceStore := &stubServiceStore{services: []models.CatalogService{
		{ID: 1, Category: models.CategoryHotels, Name: "Hotel Caribe", Price: 450000},
		{ID: 2, Category: models.CategoryExperiences, Name: "Tour Islas del Rosario", Price: 180000},
	}}
	catalog := storefront.NewCatalog(serviceStore, logger)
	auth := storefront.NewAuth(&stubUserStore{users: map[string]*models.User{}}, logger)
	cart := storefront.NewCart(catalog, logger)
	resStore := &stubReservationStore{}
	reservations := storefront.NewReservations(stubTxRunner{}, resStore, cart, logger)

	server := NewServer(DefaultServerConfig(), Services{
		Sessions:     manager,
		PDF:          proposal.NewPDFExporter(logger),
		Excel:        proposal.NewExcelExporter(logger),
		Catalog:      catalog,
		Auth:         auth,
		Cart:         cart,
		Reservations: reservations,
		Assistant:    &stubAssistant{reply: "Con gusto te ayudo a planear tu viaje."},
		Metrics:      metrics.New(),
	}, logger)
	return server, resStore
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func createSession(t *testing.T, server *Server) string {
	t.Helper()
	rec := doRequest(t, server, http.MethodPost, "/api/v1/intake", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	id, _ := resp.Data.(map[string]interface{})["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// fillValidProfile answers every required field over the HTTP API.
func fillValidProfile(t *testing.T, server *Server, sessionID string) {
	t.Helper()

	texts := []struct {
		section string
		field   string
		value   string
	}{
		{"contact", "name", "Carlos Ruiz"},
		{"contact", "phone", "+57 301 555 9999"},
		{"contact", "email", "carlos@example.com"},
		{"contact", "originCity", "Medellín"},
		{"contact", "contactChannel", "WhatsApp"},
		{"trip", "destinations", "Eje Cafetero"},
		{"trip", "departureDate", "2026-11-10"},
		{"trip", "returnDate", "2026-11-14"},
		{"trip", "tripReason", "Vacaciones"},
		{"travelerGroup", "groupType", "Familia"},
		{"travelerGroup", "totalTravelers", "4"},
		{"travelerGroup", "adults", "2"},
		{"experience", "comfortLevel", "Confort"},
		{"experience", "pace", "Moderado"},
		{"lodging", "category", "4 estrellas"},
		{"lodging", "roomType", "Doble"},
		{"lodging", "roomCount", "2"},
		{"transport", "transportMode", "Aéreo"},
		{"transport", "departurePoint", "Medellín"},
		{"transport", "arrivalPoint", "Pereira"},
		{"operationalConditions", "priorityLevel", "Precio"},
		{"deliverable", "proposalFormat", "PDF"},
	}
	fieldsPath := fmt.Sprintf("/api/v1/intake/%s/fields", sessionID)
	for _, tc := range texts {
		rec := doRequest(t, server, http.MethodPut, fieldsPath, gin.H{
			"section": tc.section, "field": tc.field, "value": tc.value,
		}, "")
		require.Equal(t, http.StatusOK, rec.Code, "setting %s.%s", tc.section, tc.field)
	}

	optionsPath := fmt.Sprintf("/api/v1/intake/%s/options", sessionID)
	for _, tc := range []struct{ section, field, value string }{
		{"experience", "travelStyle", "Naturaleza"},
		{"lodging", "accommodationType", "Hotel"},
	} {
		rec := doRequest(t, server, http.MethodPut, optionsPath, gin.H{
			"section": tc.section, "field": tc.field, "value": tc.value,
		}, "")
		require.Equal(t, http.StatusOK, rec.Code, "toggling %s.%s", tc.section, tc.field)
	}

	rec := doRequest(t, server, http.MethodPut, fieldsPath, gin.H{
		"section": "trip", "field": "dateFlexibility", "value": false,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodPut, fieldsPath, gin.H{
		"section": "transport", "field": "internalTransfersNeeded", "value": true,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func waitForResult(t *testing.T, server *Server, sessionID string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	path := "/api/v1/intake/" + sessionID
	for {
		rec := doRequest(t, server, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		if state, _ := resp.Data.(map[string]interface{})["state"].(string); state == "RESULT" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the proposal")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/health", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestSessionNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/intake/nope", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
}

func TestSetFieldRejectsUnknownField(t *testing.T) {
	server, _ := newTestServer(t)
	id := createSession(t, server)

	rec := doRequest(t, server, http.MethodPut, "/api/v1/intake/"+id+"/fields", gin.H{
		"section": "contact", "field": "nickname", "value": "x",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetTriStateFieldOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)
	id := createSession(t, server)
	fieldsPath := "/api/v1/intake/" + id + "/fields"

	// Tri-state answers travel as JSON booleans, not labels.
	rec := doRequest(t, server, http.MethodPut, fieldsPath, gin.H{
		"section": "trip", "field": "dateFlexibility", "value": "Fechas exactas",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPut, fieldsPath, gin.H{
		"section": "trip", "field": "dateFlexibility", "value": false,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decodeResponse(t, rec).Data.(map[string]interface{})
	trip := overview["profile"].(map[string]interface{})["trip"].(map[string]interface{})
	assert.Equal(t, false, trip["dateFlexibility"])
}

func TestToggleOptionOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)
	id := createSession(t, server)
	optionsPath := "/api/v1/intake/" + id + "/options"
	body := gin.H{"section": "experience", "field": "travelStyle", "value": "Playa"}

	rec := doRequest(t, server, http.MethodPut, optionsPath, body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decodeResponse(t, rec).Data.(map[string]interface{})
	experience := overview["profile"].(map[string]interface{})["experience"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Playa"}, experience["travelStyle"])

	// Toggling the same value again deselects it.
	rec = doRequest(t, server, http.MethodPut, optionsPath, body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	overview = decodeResponse(t, rec).Data.(map[string]interface{})
	experience = overview["profile"].(map[string]interface{})["experience"].(map[string]interface{})
	assert.Empty(t, experience["travelStyle"])
}

func TestSubmitIncompleteProfileReturnsFieldErrors(t *testing.T) {
	server, _ := newTestServer(t)
	id := createSession(t, server)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/intake/"+id+"/submit", nil, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	errs := resp.Data.(map[string]interface{})["errors"].(map[string]interface{})
	assert.Contains(t, errs, "contact.name")
	assert.Contains(t, errs, "trip.destinations")
}

func TestIntakeFlowProducesDownloadableProposal(t *testing.T) {
	server, _ := newTestServer(t)
	id := createSession(t, server)
	fillValidProfile(t, server, id)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/intake/"+id+"/submit", nil, "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Edits are locked while the simulation runs.
	rec = doRequest(t, server, http.MethodPut, "/api/v1/intake/"+id+"/fields", gin.H{
		"section": "contact", "field": "name", "value": "Otro",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/progress", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	waitForResult(t, server, id)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/proposal", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	header := resp.Data.(map[string]interface{})["header"].(map[string]interface{})
	assert.Equal(t, "Carlos Ruiz", header["recipient"])

	rec = doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/proposal/pdf", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Propuesta_Reservat_Carlos_Ruiz.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/proposal/xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Propuesta_Reservat_Carlos_Ruiz.xlsx")

	rec = doRequest(t, server, http.MethodPost, "/api/v1/intake/"+id+"/reset", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "FORM", overview["state"])

	rec = doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/proposal", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProposalBeforeSubmitConflicts(t *testing.T) {
	server, _ := newTestServer(t)
	id := createSession(t, server)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/proposal", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/intake/"+id+"/progress", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFieldOptionsCatalog(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/intake/options", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	options := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Contains(t, options, "experience.travelStyle")
	assert.Contains(t, options, "lodging.accommodationType")
}

func TestCatalogEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/services", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	services := decodeResponse(t, rec).Data.([]interface{})
	assert.Len(t, services, 2)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/services?category=hoteles", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	services = decodeResponse(t, rec).Data.([]interface{})
	assert.Len(t, services, 1)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/services?category=vuelos", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/services/99", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func registerUser(t *testing.T, server *Server) string {
	t.Helper()
	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Ana Pérez", "email": "ana@example.com", "password": "segura123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := decodeResponse(t, rec).Data.(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthFlow(t *testing.T) {
	server, _ := newTestServer(t)
	token := registerUser(t, server)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])

	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "ana@example.com", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRequiresAuth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	server, resStore := newTestServer(t)
	token := registerUser(t, server)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/cart/items", gin.H{
		"service_id": 1, "quantity": 2,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/cart/items", gin.H{
		"service_id": 2,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.InDelta(t, 2*450000+180000, cart["total"].(float64), 0.01)

	rec = doRequest(t, server, http.MethodDelete, "/api/v1/cart/items/2", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/cart/checkout", nil, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, resStore.created, 1)
	assert.Equal(t, "Hotel Caribe", resStore.created[0].ServiceName)

	// Cart is emptied by checkout.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/cart/checkout", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/reservations", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	reservations := decodeResponse(t, rec).Data.([]interface{})
	require.Len(t, reservations, 1)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/reservations/1/cancel", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1}, resStore.cancelled)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/reservations/1/cancel", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/chat/widget", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	widget := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "ReservaT AI", widget["title"])

	rec = doRequest(t, server, http.MethodPost, "/api/v1/chat/messages", gin.H{
		"message": "¿Qué planes tienen en Cartagena?",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.NotEmpty(t, data["conversation_id"])
	assert.Equal(t, "Con gusto te ayudo a planear tu viaje.", data["reply"])
}
