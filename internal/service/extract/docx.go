package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// coreProperties is the subset of docProps/core.xml we report. The decoder
// matches on local names, so the dc:/dcterms: prefixes need no handling.
type coreProperties struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Created string `xml:"created"`
}

// ExtractDOCX derives document metadata from DOC/DOCX bytes: paragraph and
// table counts from the document body plus title, author and creation date
// from the core properties. A DOCX file is a zip archive of XML parts, so
// this walks word/document.xml as a token stream rather than building a
// full document tree.
func ExtractDOCX(data []byte) (map[string]any, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	paragraphs, tables, err := countBodyElements(archive)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"paragraphs": paragraphs,
		"tables":     tables,
	}

	// Core properties are optional; a document without them still counts.
	if core, err := readCoreProperties(archive); err == nil {
		if core.Title != "" {
			meta["title"] = core.Title
		}
		if core.Creator != "" {
			meta["author"] = core.Creator
		}
		if core.Created != "" {
			meta["created"] = core.Created
		}
	}

	return meta, nil
}

func countBodyElements(archive *zip.Reader) (paragraphs, tables int, err error) {
	doc, err := archive.Open("word/document.xml")
	if err != nil {
		return 0, 0, fmt.Errorf("missing document body: %w", err)
	}
	defer doc.Close()

	decoder := xml.NewDecoder(doc)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parse document body: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "p":
			paragraphs++
		case "tbl":
			tables++
		}
	}

	return paragraphs, tables, nil
}

func readCoreProperties(archive *zip.Reader) (*coreProperties, error) {
	part, err := archive.Open("docProps/core.xml")
	if err != nil {
		return nil, err
	}
	defer part.Close()

	var core coreProperties
	if err := xml.NewDecoder(part).Decode(&core); err != nil {
		return nil, err
	}

	return &core, nil
}
