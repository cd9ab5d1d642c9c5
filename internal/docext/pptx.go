package docext

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideEntryRE = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPresentation emits, for each slide, a "Slide N:" header followed
// by the text of each shape on the slide. Slides are ordered by their
// 1-based archive index.
func extractPresentation(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open presentation archive: %w", err)
	}
	defer zr.Close()

	type slideEntry struct {
		num  int
		file *zip.File
	}
	var slides []slideEntry
	for _, f := range zr.File {
		m := slideEntryRE.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideEntry{num: n, file: f})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("archive has no slides")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var lines []string
	for i, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open slide %d: %w", s.num, err)
		}
		shapes, err := slideShapeTexts(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.num, err)
		}

		lines = append(lines, fmt.Sprintf("Slide %d:", i+1))
		lines = append(lines, shapes...)
	}

	return strings.Join(lines, "\n"), nil
}

// slideShapeTexts returns the text of each shape on a slide. A shape's
// text is its paragraphs (<a:p>) joined by newlines, each paragraph the
// concatenation of its runs (<a:t>). Shapes without a text body are skipped.
func slideShapeTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		shapes    []string
		paras     []string
		current   strings.Builder
		shapeDepth int
		inBody    bool
		inPara    bool
		inRun     bool
		hasBody   bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed slide XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				shapeDepth++
				if shapeDepth == 1 {
					paras = paras[:0]
					hasBody = false
				}
			case "txBody":
				if shapeDepth > 0 {
					inBody = true
					hasBody = true
				}
			case "p":
				if inBody {
					inPara = true
					current.Reset()
				}
			case "t":
				inRun = inPara
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "sp":
				if shapeDepth == 1 && hasBody {
					shapes = append(shapes, strings.Join(paras, "\n"))
				}
				if shapeDepth > 0 {
					shapeDepth--
				}
			case "txBody":
				inBody = false
			case "p":
				if inPara {
					paras = append(paras, current.String())
					inPara = false
				}
			case "t":
				inRun = false
			}
		case xml.CharData:
			if inRun {
				current.Write(t)
			}
		}
	}

	return shapes, nil
}
