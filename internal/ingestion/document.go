package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Supported MIME types
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedFormat is returned for any file that is not a PDF or DOCX document.
	ErrUnsupportedFormat = errors.New("unsupported file format: please upload a PDF or DOCX file")
	// ErrExtractionFailed wraps failures reading a supported but unreadable document.
	ErrExtractionFailed = errors.New("failed to extract text from document")
)

// extractors maps a MIME type to its text extractor.
var extractors = map[string]func([]byte) (string, error){
	MIMETypePDF:  extractPDF,
	MIMETypeDOCX: extractDOCX,
}

// DetectFormat resolves the MIME type of an upload. A declared content type wins;
// when it is missing or generic, the file extension and then the content are consulted.
func DetectFormat(fileName, contentType string, data []byte) string {
	if ct := normalizeContentType(contentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MIMETypePDF
	case ".docx":
		return MIMETypeDOCX
	}
	if len(data) > 0 {
		return normalizeContentType(mimetype.Detect(data).String())
	}
	return ""
}

// ExtractText returns the plain text of a PDF or DOCX document.
// Any other format fails immediately with ErrUnsupportedFormat.
func ExtractText(fileName, contentType string, data []byte) (string, error) {
	format := DetectFormat(fileName, contentType, data)
	extract, ok := extractors[format]
	if !ok {
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, format)
	}

	text, err := extract(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtractionFailed, fileName, err)
	}
	return text, nil
}

func normalizeContentType(ct string) string {
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

// extractPDF reads the plain text of every page, separating pages with a blank line.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

type docxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    docxBody `xml:"body"`
}

type docxBody struct {
	Paras  []docxPara  `xml:"p"`
	Tables []docxTable `xml:"tbl"`
}

type docxPara struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paras []docxPara `xml:"p"`
}

// extractDOCX writes one line per paragraph of word/document.xml. Empty
// paragraphs become blank lines so entry blocks stay separated. Table rows
// follow the body text with cells joined by " | ".
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if docXML == nil {
		return "", errors.New("word/document.xml not found in DOCX")
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", fmt.Errorf("parsing DOCX XML: %w", err)
	}

	lines := make([]string, 0, len(doc.Body.Paras))
	for _, para := range doc.Body.Paras {
		lines = append(lines, paraText(para))
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				parts := make([]string, 0, len(cell.Paras))
				for _, p := range cell.Paras {
					if t := strings.TrimSpace(paraText(p)); t != "" {
						parts = append(parts, t)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			lines = append(lines, strings.Join(cells, " | "))
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func paraText(para docxPara) string {
	var b strings.Builder
	for _, run := range para.Runs {
		for _, t := range run.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}
