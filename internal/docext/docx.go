package docext

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDocx concatenates paragraph text from a Word document.
// Pure Go: the .docx container is a zip archive holding WordprocessingML
// in word/document.xml; paragraphs are <w:p> elements, text runs <w:t>.
func extractDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document archive: %w", err)
	}
	defer zr.Close()

	doc, err := openZipEntry(&zr.Reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return wordParagraphs(doc)
}

// wordParagraphs walks WordprocessingML and returns one line per paragraph.
func wordParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines   []string
		current strings.Builder
		inPara  bool
		inText  bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					lines = append(lines, current.String())
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

// openZipEntry opens a named file within a zip archive.
func openZipEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("archive has no %s entry", name)
}
