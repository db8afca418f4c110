package corpus

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	docxFallbackBody = "word/document.xml"
	docxBodyType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	wordMLNamespace  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// docxBodyPath locates the main document part through [Content_Types].xml, falling back to the
// conventional word/document.xml.
func docxBodyPath(zr *zip.Reader) string {
	data, err := readZipEntry(zr, "[Content_Types].xml")
	if err != nil {
		return docxFallbackBody
	}
	var types contentTypes
	if err := xml.Unmarshal(data, &types); err != nil {
		return docxFallbackBody
	}
	for _, o := range types.Overrides {
		if o.ContentType == docxBodyType {
			return strings.TrimPrefix(o.PartName, "/")
		}
	}
	return docxFallbackBody
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// docxParagraphs walks the document body and returns the text of every top-level <w:p>,
// including empty and self-closing ones. Paragraphs nested in text boxes add to the enclosing one.
func docxParagraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		lines []string
		cur   strings.Builder
		depth int
		inRun bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordMLNamespace {
				continue
			}
			switch el.Name.Local {
			case "p":
				if depth == 0 {
					cur.Reset()
				}
				depth++
			case "t":
				inRun = depth > 0
			}
		case xml.EndElement:
			if el.Name.Space != wordMLNamespace {
				continue
			}
			switch el.Name.Local {
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					lines = append(lines, cur.String())
				}
			case "t":
				inRun = false
			}
		case xml.CharData:
			if inRun {
				cur.Write(el)
			}
		}
	}
}

// linesFromDOCX returns one line per <w:p> paragraph. Runs inside a paragraph are concatenated,
// since Word splits a sentence into several runs whenever formatting changes.
func linesFromDOCX(content []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("read DOCX: not a zip: %w", err)
	}
	body := docxBodyPath(zr)
	data, err := readZipEntry(zr, body)
	if err != nil {
		return nil, fmt.Errorf("read DOCX: %s: %w", body, err)
	}

	lines, err := docxParagraphs(data)
	if err != nil {
		return nil, fmt.Errorf("read DOCX: %s: %w", body, err)
	}
	return lines, nil
}
