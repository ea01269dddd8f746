// File path: internal/document/extract.go
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Detect classifies an upload from its declared content type and file name.
func Detect(name, mime string) Kind {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	switch mime {
	case "text/plain":
		return KindText
	case "text/markdown":
		return KindMarkdown
	case "application/pdf":
		return KindPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindWord
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText
	case ".md", ".markdown":
		return KindMarkdown
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindWord
	}
	return KindUnsupported
}

// ExtractText produces the raw text of an upload for the kinds handled
// locally. PDF is deliberately not handled here: the binary is forwarded
// inline to the model instead, because local PDF extraction is unreliable.
func ExtractText(kind Kind, name string, data []byte) (string, error) {
	switch kind {
	case KindText, KindMarkdown:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("file %s is not valid UTF-8 text", name)
		}
		return string(data), nil
	case KindWord:
		text, err := extractWordText(data)
		if err != nil {
			return "", fmt.Errorf("extract text from %s: %w", name, err)
		}
		return text, nil
	case KindPDF:
		return "", fmt.Errorf("pdf content is analyzed inline, not extracted locally")
	default:
		return "", fmt.Errorf("unsupported file type: %s", name)
	}
}

// extractWordText pulls visible text out of a .docx archive. The format is a
// zip containing word/document.xml; paragraphs map to newlines, w:t elements
// carry the character data. None of the reference corpus ships a Word parsing
// library, so the two dozen lines of stdlib zip+xml walking live here.
func extractWordText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	var docXML io.ReadCloser
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("document.xml missing from docx archive")
	}
	defer docXML.Close()

	var builder strings.Builder
	decoder := xml.NewDecoder(docXML)
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "t":
				inText = true
			case "tab":
				builder.WriteByte('\t')
			case "br":
				builder.WriteByte('\n')
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				builder.Write(tok)
			}
		}
	}
	return strings.TrimSpace(builder.String()), nil
}
