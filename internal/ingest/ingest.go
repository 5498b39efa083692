// Package ingest turns uploaded resume documents into plain text.
package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"resumeats/internal/errors"
	"resumeats/internal/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// Supported document MIME types
const (
	MimeText     = "text/plain"
	MimeMarkdown = "text/markdown"
	MimeHTML     = "text/html"
	MimePDF      = "application/pdf"
	MimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip      = "application/zip"
	mimeOctet    = "application/octet-stream"
)

var extensionTypes = map[string]string{
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".html": MimeHTML,
	".htm":  MimeHTML,
}

// DetectMIME decides how a document should be read: by file extension first,
// then by the declared type, then by sniffing the content.
func DetectMIME(data []byte, declared, fileName string) string {
	if utils.IsTextFile(fileName) {
		return MimeText
	}
	if mt, ok := extensionTypes[utils.GetFileExtension(fileName)]; ok {
		return mt
	}

	if mt := baseType(declared); mt != "" && mt != mimeOctet && mt != mimeZip {
		if mt == MimeMarkdown {
			return MimeText
		}
		return mt
	}

	sniffed := baseType(http.DetectContentType(data))
	if sniffed == mimeZip && isDOCX(data) {
		return MimeDOCX
	}
	return sniffed
}

func baseType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

// ExtractText returns the text content of a document. Unsupported types are a
// validation error; a document with little or no text is not an error.
func ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	detected := DetectMIME(data, mimeType, fileName)
	var (
		text string
		err  error
	)
	switch detected {
	case MimeText:
		text = strings.ToValidUTF8(string(data), "�")
	case MimePDF:
		text, err = extractPDF(data)
	case MimeHTML:
		text, err = extractHTML(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
			fmt.Sprintf("unsupported document type %q", detected), nil).
			WithContext("file", fileName)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("failed to extract text from %s document", detected), err).
			WithContext("file", fileName)
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template").Remove()

	doc.Find("li").PrependHtml("- ")
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, ul, ol, table").AppendHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	lines := strings.Split(root.Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text), nil
}

func isDOCX(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findZipEntry(zr, "word/document.xml") != nil
}

func findZipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	entry := findZipEntry(zr, "word/document.xml")
	if entry == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}

	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText keeps character data from w:t runs and breaks lines at paragraphs
// and explicit breaks. Tabs become spaces.
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteByte(' ')
			case "br", "cr":
				buf.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteByte('\n')
			}
		case xml.CharData:
			if inText && utf8.Valid(t) {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
