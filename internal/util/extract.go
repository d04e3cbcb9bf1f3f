package util

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// maxResumeText caps what is kept for search so one huge upload cannot bloat
// the candidates table.
const maxResumeText = 64 * 1024

// ExtractPDFText returns the text of a PDF. Pages without a text layer are
// run through tesseract when it is installed; otherwise they are skipped.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	ocr := checkTesseract() == nil

	var fullText bytes.Buffer
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			log.Printf("[extract] page %d: text layer error: %v", n+1, err)
		}
		pageText = strings.TrimSpace(pageText)

		if pageText == "" && ocr {
			pageText, err = ocrPage(doc, n)
			if err != nil {
				log.Printf("[extract] page %d: %v", n+1, err)
				continue
			}
		}

		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
		if fullText.Len() >= maxResumeText {
			break
		}
	}

	return truncateUTF8(strings.TrimSpace(fullText.String()), maxResumeText), nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func ocrPage(doc *fitz.Document, n int) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", fmt.Errorf("failed to extract image: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := savePNG(tmpPath, img); err != nil {
		return "", fmt.Errorf("failed to save PNG: %w", err)
	}

	out, err := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract() error {
	out, err := exec.Command("tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
