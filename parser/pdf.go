package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var ErrNotPDF = errors.New("not a pdf document")

// PdfReader decodes PDF documents to text. pdftotext keeps the column layout
// the city patterns rely on; the pure Go reader is the fallback when the
// binary is missing or fails.
type PdfReader struct {
	Pdftotext string
	Logger    *zap.Logger
}

func NewPdfReader(logger *zap.Logger) *PdfReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PdfReader{Pdftotext: "pdftotext", Logger: logger}
}

// ReadPdfDoc returns the text of every page, pages separated by line breaks.
func (p *PdfReader) ReadPdfDoc(ctx context.Context, pdfFilePath string) (string, error) {
	if err := checkPdfHeader(pdfFilePath); err != nil {
		return "", err
	}

	text, err := p.pdftotext(ctx, pdfFilePath)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	p.logger().Info("pdftotext unavailable, falling back to the Go pdf reader",
		zap.String("path", pdfFilePath), zap.Error(err))

	text, err = readPdfPlainText(pdfFilePath)
	if err != nil {
		return "", fmt.Errorf("ERR: read pdf %s: %w", pdfFilePath, err)
	}
	return text, nil
}

func (p *PdfReader) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *PdfReader) pdftotext(ctx context.Context, pdfFilePath string) (string, error) {
	bin := p.Pdftotext
	if bin == "" {
		bin = "pdftotext"
	}
	cmd := exec.CommandContext(ctx, bin, "-layout", "-enc", "UTF-8", "-eol", "unix", pdfFilePath, "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", bin, err, strings.TrimSpace(stderr.String()))
	}
	return string(output), nil
}

func readPdfPlainText(pdfFilePath string) (string, error) {
	f, r, err := pdf.Open(pdfFilePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func checkPdfHeader(pdfFilePath string) error {
	f, err := os.Open(pdfFilePath)
	if err != nil {
		return fmt.Errorf("ERR: open %s: %w", pdfFilePath, err)
	}
	defer f.Close()

	header := make([]byte, 5)
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, []byte("%PDF-")) {
		return fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(pdfFilePath))
	}
	return nil
}

// ListPdfFiles returns the names of the .pdf files in dir, sorted.
func ListPdfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ERR: read folder %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		files = append(files, entry.Name())
	}
	slices.Sort(files)
	return files, nil
}
