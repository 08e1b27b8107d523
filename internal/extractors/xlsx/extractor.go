// Package xlsx extracts text from Excel workbooks. An XLSX file is a
// ZIP archive: cell text lives in xl/worksheets/sheetN.xml with string
// cells interned in xl/sharedStrings.xml. Each row becomes a text line
// with tab-joined cells; sheet names become section headers.
package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the source format this extractor produces.
func (e *Extractor) Format() domain.SourceFormat {
	return domain.FormatXLSX
}

// MIMETypes returns the MIME types this extractor handles.
func (e *Extractor) MIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
	}
}

// Extensions returns the file extension fallbacks.
func (e *Extractor) Extensions() []string {
	return []string{".xlsx", ".xls"}
}

var sheetName = regexp.MustCompile(`^xl/worksheets/sheet(\d+)\.xml$`)

// Extract renders every sheet as lines of tab-joined cells. Workbooks
// with more than one sheet get the sheet name as a section header.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a zip archive: %w", domain.ErrExtractionFailure, err)
	}

	shared, err := readSharedStrings(reader)
	if err != nil {
		return "", err
	}
	names := readSheetNames(reader)

	type sheet struct {
		num  int
		file *zip.File
	}
	var sheets []sheet
	for _, file := range reader.File {
		m := sheetName.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		sheets = append(sheets, sheet{num: n, file: file})
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].num < sheets[j].num })

	var parts []string
	for i, s := range sheets {
		text, err := parseSheet(s.file, shared)
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		if len(sheets) > 1 {
			header := fmt.Sprintf("Sheet %d", s.num)
			if i < len(names) && names[i] != "" {
				header = names[i]
			}
			text = "# " + header + "\n" + text
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n"), nil
}

// sharedStringsXML represents xl/sharedStrings.xml. Rich-text strings
// split one entry across several r runs.
type sharedStringsXML struct {
	Items []struct {
		Text string `xml:"t"`
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

func readSharedStrings(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "xl/sharedStrings.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open sharedStrings: %w", domain.ErrExtractionFailure, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read sharedStrings: %w", domain.ErrExtractionFailure, err)
		}

		var ss sharedStringsXML
		if err := xml.Unmarshal(content, &ss); err != nil {
			return nil, fmt.Errorf("%w: malformed sharedStrings: %w", domain.ErrExtractionFailure, err)
		}

		strs := make([]string, len(ss.Items))
		for i, item := range ss.Items {
			if item.Text != "" {
				strs[i] = item.Text
				continue
			}
			var b strings.Builder
			for _, r := range item.Runs {
				b.WriteString(r.Text)
			}
			strs[i] = b.String()
		}
		return strs, nil
	}
	return nil, nil
}

// workbookXML represents xl/workbook.xml, used for sheet names only.
type workbookXML struct {
	Sheets struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

func readSheetNames(reader *zip.Reader) []string {
	for _, file := range reader.File {
		if file.Name != "xl/workbook.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil
		}
		var wb workbookXML
		if err := xml.Unmarshal(content, &wb); err != nil {
			return nil
		}
		names := make([]string, len(wb.Sheets.Sheets))
		for i, s := range wb.Sheets.Sheets {
			names[i] = s.Name
		}
		return names
	}
	return nil
}

// worksheetXML represents the cell data of one sheet.
type worksheetXML struct {
	Rows []struct {
		Cells []struct {
			Type   string `xml:"t,attr"`
			Value  string `xml:"v"`
			Inline struct {
				Text string `xml:"t"`
			} `xml:"is"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

func parseSheet(file *zip.File, shared []string) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}

	var ws worksheetXML
	if err := xml.Unmarshal(content, &ws); err != nil {
		return "", fmt.Errorf("%w: malformed %s: %w", domain.ErrExtractionFailure, file.Name, err)
	}

	var lines []string
	for _, row := range ws.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			var val string
			switch c.Type {
			case "s":
				if i, err := strconv.Atoi(c.Value); err == nil && i >= 0 && i < len(shared) {
					val = shared[i]
				}
			case "inlineStr":
				val = c.Inline.Text
			default:
				val = c.Value
			}
			cells = append(cells, val)
		}
		line := strings.TrimRight(strings.Join(cells, "\t"), "\t ")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
