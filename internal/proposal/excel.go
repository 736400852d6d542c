package proposal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

// ExcelFilename derives the spreadsheet download name for a proposal.
func ExcelFilename(contactName string) string {
	return fmt.Sprintf("Propuesta_Reservat_%s.xlsx", whitespaceRe.ReplaceAllString(contactName, "_"))
}

// ExcelExporter writes a proposal document to a single-sheet workbook so the
// agency can hand it to operators who work offers in spreadsheets.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates an Excel exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

const proposalSheet = "Propuesta"

// Generate renders the document and returns the workbook bytes.
func (e *ExcelExporter) Generate(doc models.ProposalDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(proposalSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Warn("Failed to drop default sheet", zap.Error(err))
	}

	e.setCell(f, "A1", doc.Header.Issuer)
	e.setCell(f, "A2", doc.Header.Title)
	e.setCell(f, "A3", "Emitido para: "+doc.Header.Recipient)
	e.setCell(f, "A4", "Fecha: "+doc.Header.IssuedDate)

	row := 6
	row = e.section(f, row, "Resumen del Viaje", [][2]string{
		{"Destino(s)", doc.Summary.Destinations},
		{"Ciudad de Origen", doc.Summary.OriginCity},
		{"Fechas de Viaje", doc.Summary.TravelDates},
		{"Duración Estimada", doc.Summary.Duration},
		{"Motivo del Viaje", doc.Summary.TripReason},
		{"Composición del Grupo", doc.Summary.GroupSummary},
	})

	row = e.section(f, row, "Perfil y Preferencias", [][2]string{
		{"Estilo de Viaje", joinOr(doc.Preferences.TravelStyles, labelNoneSelected)},
		{"Nivel de Comodidad", doc.Preferences.ComfortLevel},
		{"Ritmo de Viaje", doc.Preferences.Pace},
		{"Amenidades Deseadas", joinOr(doc.Preferences.Amenities, labelNoneSelected)},
	})

	row = e.section(f, row, "Propuesta de Alojamiento", [][2]string{
		{"Tipos Preferidos", joinOr(doc.Lodging.Types, labelNoneSelected)},
		{"Categoría", doc.Lodging.Category},
		{"Tipo de Habitación", doc.Lodging.RoomType},
		{"Total Habitaciones", doc.Lodging.RoomCount},
		{"Extras", joinOr(doc.Lodging.Extras, labelNoneSelected)},
	})

	row = e.section(f, row, "Transporte y Logística", [][2]string{
		{"Ruta Principal", strings.ReplaceAll(doc.Transport.Route, "➔", "-")},
		{"Medio de Transporte", doc.Transport.Mode},
		{"Preferencia Horario", doc.Transport.TimePreference},
		{"Traslados Internos", doc.Transport.InternalTransfers},
	})

	itinerary := make([][2]string, 0, len(doc.Itinerary))
	for _, day := range doc.Itinerary {
		itinerary = append(itinerary, [2]string{day.Title, day.Description})
	}
	row = e.section(f, row, "Itinerario Sugerido", itinerary)

	row = e.section(f, row, "Condiciones de la Oferta", [][2]string{
		{"Servicios Adicionales", joinOr(doc.Conditions.Services, labelNoneSelected)},
		{"Nivel de Prioridad", doc.Conditions.PriorityLevel},
		{"Formato Deseado", doc.Conditions.ProposalFormat},
	})

	e.setCell(f, fmt.Sprintf("A%d", row), doc.Conditions.ClosingNote)
	e.setCell(f, fmt.Sprintf("A%d", row+2), doc.Footer.AgencyName+" - "+doc.Footer.ContactLine)

	buf, err := f.WriteToBuffer()
	if err != nil {
		e.logger.Error("Excel generation failed", zap.Error(err))
		return nil, fmt.Errorf("failed to generate proposal workbook: %w", err)
	}

	e.logger.Info("Proposal workbook generated",
		zap.String("recipient", doc.Header.Recipient),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// section writes a title row followed by label/value rows and returns the next
// free row index.
func (e *ExcelExporter) section(f *excelize.File, row int, title string, fields [][2]string) int {
	e.setCell(f, fmt.Sprintf("A%d", row), title)
	row++
	for _, field := range fields {
		e.setCell(f, fmt.Sprintf("A%d", row), field[0])
		e.setCell(f, fmt.Sprintf("B%d", row), field[1])
		row++
	}
	return row + 1
}

func (e *ExcelExporter) setCell(f *excelize.File, cell, value string) {
	if err := f.SetCellValue(proposalSheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
