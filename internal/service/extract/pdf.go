package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF derives document metadata from PDF bytes: page count plus the
// author, title, producer and creation date from the Info dictionary, when
// present. The underlying parser panics on some malformed inputs, so the
// whole read runs behind a recover.
func ExtractPDF(data []byte) (meta map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	meta = map[string]any{
		"pages": reader.NumPage(),
	}

	info := reader.Trailer().Key("Info")
	for key, field := range map[string]string{
		"Author":       "author",
		"Title":        "title",
		"Producer":     "producer",
		"CreationDate": "created",
	} {
		if v := info.Key(key); v.Kind() == pdf.String {
			meta[field] = v.Text()
		}
	}

	return meta, nil
}
