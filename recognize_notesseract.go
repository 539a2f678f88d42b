//go:build notesseract

package pdfdocx

import (
	"context"
	"errors"
)

var errTesseractNotCompiled = errors.New("tesseract support is not compiled in (built with -tags notesseract)")

type missingRecognizer struct{}

func defaultRecognizer() Recognizer {
	return missingRecognizer{}
}

func (missingRecognizer) Available([]string) error {
	return errTesseractNotCompiled
}

func (missingRecognizer) Recognize(context.Context, string, []string) (string, error) {
	return "", errTesseractNotCompiled
}
