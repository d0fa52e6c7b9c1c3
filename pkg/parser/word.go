package parser

import (
	"os"

	"code.sajari.com/docconv"
)

// extractWord returns the paragraph text of a Word document in document
// order. Legacy .doc files go through docconv's doc converter; failures on
// unreadable binaries surface as parse errors upstream.
func extractWord(path, ext string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text string
	if ext == ".doc" {
		text, _, err = docconv.ConvertDoc(f)
	} else {
		text, _, err = docconv.ConvertDocx(f)
	}
	if err != nil {
		return "", err
	}

	return text, nil
}
