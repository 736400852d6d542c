package proposal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPDFExporterGenerate(t *testing.T) {
	doc := NewRenderer(testConfig()).Render(completedProfile())

	data, err := NewPDFExporter(zap.NewNop()).Generate(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}

func TestExcelExporterGenerate(t *testing.T) {
	doc := NewRenderer(testConfig()).Render(completedProfile())

	data, err := NewExcelExporter(zap.NewNop()).Generate(doc)
	require.NoError(t, err)
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "output should be a zip-based workbook")
}
