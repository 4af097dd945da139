package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// UnreadableError reports a document whose text could not be extracted.
type UnreadableError struct {
	Name string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("document %q is unreadable: %v", e.Name, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// ExtractText converts raw item bytes to trimmed text. Text files are taken
// verbatim; PDFs yield the plain text of every page concatenated.
func ExtractText(item Item, data []byte) (string, error) {
	switch item.Kind {
	case KindText:
		return strings.TrimSpace(string(data)), nil
	case KindPDF:
		text, err := pdfText(data)
		if err != nil {
			return "", &UnreadableError{Name: item.Name, Err: err}
		}
		return strings.TrimSpace(text), nil
	default:
		return "", &UnreadableError{Name: item.Name, Err: fmt.Errorf("unsupported kind %q", item.Kind)}
	}
}

func pdfText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		b.WriteString(pageText)
	}

	return b.String(), nil
}
