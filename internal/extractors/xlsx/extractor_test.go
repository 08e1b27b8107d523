package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

const testSharedStrings = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3">
<si><t>Product</t></si>
<si><t>F-500</t></si>
<si><r><t>Hydro</t></r><r><t>Lock</t></r></si>
</sst>`

const testWorkbook = `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheets><sheet name="Products" sheetId="1"/><sheet name="Pricing" sheetId="2"/></sheets>
</workbook>`

const testSheet1 = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row><c t="s"><v>0</v></c><c><v>42</v></c></row>
<row><c t="s"><v>1</v></c><c t="s"><v>2</v></c></row>
</sheetData>
</worksheet>`

const testSheet2 = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row><c t="inlineStr"><is><t>inline cell</t></is></c></row>
</sheetData>
</worksheet>`

// createTestXLSX assembles an in-memory workbook from named parts.
func createTestXLSX(parts map[string]string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range parts {
		f, _ := w.Create(name)
		f.Write([]byte(content))
	}
	w.Close()
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, domain.FormatXLSX, extractor.Format())
}

func TestExtract_SingleSheet(t *testing.T) {
	extractor := New()

	data := createTestXLSX(map[string]string{
		"xl/sharedStrings.xml":     testSharedStrings,
		"xl/worksheets/sheet1.xml": testSheet1,
	})

	text, err := extractor.Extract(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "Product\t42\nF-500\tHydroLock", text)
	// Single-sheet workbooks get no section header.
	assert.NotContains(t, text, "#")
}

func TestExtract_MultiSheetHeaders(t *testing.T) {
	extractor := New()

	data := createTestXLSX(map[string]string{
		"xl/workbook.xml":          testWorkbook,
		"xl/sharedStrings.xml":     testSharedStrings,
		"xl/worksheets/sheet1.xml": testSheet1,
		"xl/worksheets/sheet2.xml": testSheet2,
	})

	text, err := extractor.Extract(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, text, "# Products\n")
	assert.Contains(t, text, "# Pricing\n")
	assert.Contains(t, text, "inline cell")
}

func TestExtract_NotAZip(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), []byte("not a workbook"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
}
