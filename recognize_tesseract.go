//go:build !notesseract

package pdfdocx

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer runs Tesseract through gosseract. Each call uses its own
// client, so a recognizer may be shared between goroutines.
type TesseractRecognizer struct{}

// NewTesseractRecognizer creates a new TesseractRecognizer.
func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{}
}

func defaultRecognizer() Recognizer {
	return NewTesseractRecognizer()
}

// Available fails when tessdata cannot be listed or lacks a trained model for
// one of languages.
func (r *TesseractRecognizer) Available(languages []string) error {
	installed, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("list tesseract languages: %w", err)
	}
	var missing []string
	for _, lang := range languages {
		if !slices.Contains(installed, lang) {
			missing = append(missing, lang)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tesseract language data not installed: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	return client.Text()
}
