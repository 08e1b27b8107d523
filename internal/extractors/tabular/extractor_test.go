package tabular

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

func TestNewCSV(t *testing.T) {
	extractor := NewCSV()
	require.NotNil(t, extractor)
	assert.Equal(t, domain.FormatCSV, extractor.Format())
	assert.Contains(t, extractor.MIMETypes(), "text/csv")
	assert.Contains(t, extractor.Extensions(), ".csv")
}

func TestNewTSV(t *testing.T) {
	extractor := NewTSV()
	require.NotNil(t, extractor)
	assert.Equal(t, domain.FormatTSV, extractor.Format())
	assert.Contains(t, extractor.Extensions(), ".tsv")
}

func TestExtract_CSV(t *testing.T) {
	extractor := NewCSV()

	input := "product,class\nF-500,\"A,B,C\"\nHydroLock,vapor\n"

	text, err := extractor.Extract(context.Background(), []byte(input))
	require.NoError(t, err)

	assert.Equal(t, "product\tclass\nF-500\tA,B,C\nHydroLock\tvapor", text)
}

func TestExtract_TSV(t *testing.T) {
	extractor := NewTSV()

	input := "product\tclass\nF-500\tmulti-class\n"

	text, err := extractor.Extract(context.Background(), []byte(input))
	require.NoError(t, err)

	assert.Equal(t, "product\tclass\nF-500\tmulti-class", text)
}

func TestExtract_RaggedRows(t *testing.T) {
	extractor := NewCSV()

	input := "a,b,c\nd\ne,f\n"

	text, err := extractor.Extract(context.Background(), []byte(input))
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc\nd\ne\tf", text)
}

func TestExtract_Empty(t *testing.T) {
	extractor := NewCSV()

	text, err := extractor.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
