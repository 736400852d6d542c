package proposal

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// PDFFilename derives the download name for a generated proposal, replacing
// whitespace runs in the recipient name with underscores.
func PDFFilename(contactName string) string {
	return fmt.Sprintf("Propuesta_Reservat_%s.pdf", whitespaceRe.ReplaceAllString(contactName, "_"))
}

// PDFExporter lays a proposal document out as a letter-size PDF.
type PDFExporter struct {
	logger *zap.Logger
}

// NewPDFExporter creates a PDF exporter.
func NewPDFExporter(logger *zap.Logger) *PDFExporter {
	return &PDFExporter{logger: logger}
}

type pdfPalette struct {
	primary [3]int
	accent  [3]int
	text    [3]int
	muted   [3]int
	rule    [3]int
}

var palette = pdfPalette{
	primary: [3]int{37, 99, 235},
	accent:  [3]int{249, 115, 22},
	text:    [3]int{17, 24, 39},
	muted:   [3]int{107, 114, 128},
	rule:    [3]int{229, 231, 235},
}

// Generate renders the document and returns the PDF bytes.
func (e *PDFExporter) Generate(doc models.ProposalDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(18, 16, 18)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetDrawColor(palette.rule[0], palette.rule[1], palette.rule[2])
		pdf.Line(18, pdf.GetY(), 198, pdf.GetY())
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(156, 163, 175)
		pdf.CellFormat(60, 8, tr(doc.Footer.AgencyName), "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, tr(doc.Footer.ContactLine), "", 0, "C", false, 0, "")
		pdf.CellFormat(60, 8, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header: agency mark on the left, title block on the right.
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(palette.primary[0], palette.primary[1], palette.primary[2])
	pdf.CellFormat(70, 12, tr(doc.Header.Issuer), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(110, 7, tr(doc.Header.Title), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 5, tr("Emitido para: "+doc.Header.Recipient), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, tr("Fecha: "+doc.Header.IssuedDate), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(136, 136, 136)
	pdf.SetX(98)
	pdf.MultiCell(100, 4, tr(doc.Header.Disclaimer), "", "R", false)
	pdf.SetDrawColor(palette.primary[0], palette.primary[1], palette.primary[2])
	pdf.SetLineWidth(0.6)
	pdf.Line(18, pdf.GetY()+3, 198, pdf.GetY()+3)
	pdf.SetLineWidth(0.2)
	pdf.Ln(8)

	e.sectionTitle(pdf, tr, "Resumen del Viaje")
	e.fieldRow(pdf, tr, [][2]string{
		{"Destino(s)", doc.Summary.Destinations},
		{"Ciudad de Origen", doc.Summary.OriginCity},
	})
	e.fieldRow(pdf, tr, [][2]string{
		{"Fechas de Viaje", doc.Summary.TravelDates},
		{"Motivo del Viaje", doc.Summary.TripReason},
	})
	e.fieldRow(pdf, tr, [][2]string{
		{"Duración Estimada", doc.Summary.Duration},
		{"Composición del Grupo", doc.Summary.GroupSummary},
	})
	pdf.Ln(3)

	e.sectionTitle(pdf, tr, "Perfil y Preferencias")
	e.fieldRow(pdf, tr, [][2]string{
		{"Nivel de Comodidad", doc.Preferences.ComfortLevel},
		{"Ritmo de Viaje", doc.Preferences.Pace},
	})
	e.pillRow(pdf, tr, "Estilo de Viaje", doc.Preferences.TravelStyles, palette.primary)
	if len(doc.Preferences.Amenities) > 0 {
		e.pillRow(pdf, tr, "Amenidades Deseadas", doc.Preferences.Amenities, palette.accent)
	}
	pdf.Ln(3)

	e.sectionTitle(pdf, tr, "Propuesta de Alojamiento")
	e.pillRow(pdf, tr, "Tipos Preferidos", doc.Lodging.Types, palette.primary)
	e.fieldRow(pdf, tr, [][2]string{
		{"Categoría", doc.Lodging.Category},
		{"Tipo de Habitación", doc.Lodging.RoomType},
	})
	e.fieldRow(pdf, tr, [][2]string{
		{"Total Habitaciones", doc.Lodging.RoomCount},
	})
	if len(doc.Lodging.Extras) > 0 {
		e.fieldRow(pdf, tr, [][2]string{
			{"Extras de Alojamiento", strings.Join(doc.Lodging.Extras, " • ")},
		})
	}
	pdf.Ln(3)

	e.sectionTitle(pdf, tr, "Transporte y Logística")
	e.fieldRow(pdf, tr, [][2]string{
		{"Ruta Principal", strings.ReplaceAll(doc.Transport.Route, "➔", "-")},
		{"Medio de Transporte", doc.Transport.Mode},
	})
	e.fieldRow(pdf, tr, [][2]string{
		{"Preferencia Horario", doc.Transport.TimePreference},
		{"Traslados Internos", doc.Transport.InternalTransfers},
	})
	pdf.Ln(3)

	e.sectionTitle(pdf, tr, "Itinerario Sugerido")
	for _, day := range doc.Itinerary {
		e.itineraryCard(pdf, tr, day)
	}
	pdf.Ln(3)

	e.sectionTitle(pdf, tr, "Condiciones de la Oferta")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(palette.muted[0], palette.muted[1], palette.muted[2])
	pdf.CellFormat(0, 5, tr("SERVICIOS ADICIONALES SELECCIONADOS"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(palette.text[0], palette.text[1], palette.text[2])
	if len(doc.Conditions.Services) == 0 {
		pdf.CellFormat(0, 5, tr(labelNoneSelected), "", 1, "L", false, 0, "")
	} else {
		for _, s := range doc.Conditions.Services {
			pdf.CellFormat(0, 5, tr("• "+s), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(1)
	e.fieldRow(pdf, tr, [][2]string{
		{"Nivel de Prioridad del Cliente", doc.Conditions.PriorityLevel},
		{"Formato Deseado", doc.Conditions.ProposalFormat},
	})
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(palette.primary[0], palette.primary[1], palette.primary[2])
	pdf.MultiCell(0, 5, tr(doc.Conditions.ClosingNote), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		e.logger.Error("PDF generation failed", zap.Error(err))
		return nil, fmt.Errorf("failed to generate proposal PDF: %w", err)
	}

	e.logger.Info("Proposal PDF generated",
		zap.String("recipient", doc.Header.Recipient),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (e *PDFExporter) sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(palette.primary[0], palette.primary[1], palette.primary[2])
	pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(palette.rule[0], palette.rule[1], palette.rule[2])
	pdf.Line(18, pdf.GetY(), 198, pdf.GetY())
	pdf.Ln(2)
}

// fieldRow prints up to two label/value pairs side by side.
func (e *PDFExporter) fieldRow(pdf *fpdf.Fpdf, tr func(string) string, fields [][2]string) {
	colWidth := 180.0 / float64(len(fields))
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(palette.muted[0], palette.muted[1], palette.muted[2])
	for _, f := range fields {
		pdf.CellFormat(colWidth, 4, tr(strings.ToUpper(f[0])), "", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(palette.text[0], palette.text[1], palette.text[2])
	for _, f := range fields {
		pdf.CellFormat(colWidth, 5, tr(f[1]), "", 0, "L", false, 0, "")
	}
	pdf.Ln(7)
}

// pillRow prints a label followed by chip-styled values, or the none-selected
// fallback when the list is empty.
func (e *PDFExporter) pillRow(pdf *fpdf.Fpdf, tr func(string) string, label string, items []string, color [3]int) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(palette.muted[0], palette.muted[1], palette.muted[2])
	pdf.CellFormat(0, 4, tr(strings.ToUpper(label)), "", 1, "L", false, 0, "")
	if len(items) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(palette.text[0], palette.text[1], palette.text[2])
		pdf.CellFormat(0, 5, tr(labelNoneSelected), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		return
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(color[0], color[1], color[2])
	for _, item := range items {
		width := pdf.GetStringWidth(tr(item)) + 6
		pdf.CellFormat(width, 5, tr(item), "1", 0, "C", false, 0, "")
		pdf.CellFormat(2, 5, "", "", 0, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) itineraryCard(pdf *fpdf.Fpdf, tr func(string) string, day models.ItineraryDay) {
	startY := pdf.GetY()
	pdf.SetFillColor(249, 250, 251)
	pdf.SetDrawColor(palette.primary[0], palette.primary[1], palette.primary[2])
	pdf.SetLineWidth(0.8)
	pdf.Line(18, startY, 18, startY+13)
	pdf.SetLineWidth(0.2)
	pdf.SetX(21)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 5, tr(day.Title), "", 1, "L", true, 0, "")
	pdf.SetX(21)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(75, 85, 99)
	pdf.MultiCell(0, 4, tr(day.Description), "", "L", true)
	pdf.Ln(2)
}
