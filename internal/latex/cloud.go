package latex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CloudCompiler submits LaTeX source to a texlive.net-style compile
// endpoint. It is the fallback path when no local engine is installed.
type CloudCompiler struct {
	endpoint string
	client   *http.Client
	logger   *log.Logger
}

func NewCloudCompiler(endpoint string, timeout time.Duration, logger *log.Logger) *CloudCompiler {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CloudCompiler{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// CompileSource uploads the document and writes the returned PDF to
// outputPath.
func (c *CloudCompiler) CompileSource(ctx context.Context, src string, outputPath string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil cloud compiler")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("filecontents[]", "main.tex")
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(part, src); err != nil {
		return "", err
	}
	for field, value := range map[string]string{
		"filename[]": "main.tex",
		"return":     "pdf",
	} {
		if err := w.WriteField(field, value); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.logger.Printf("cloud compile | endpoint=%s bytes=%d", c.endpoint, len(src))
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", err
	}

	// A successful compile returns the PDF bytes directly; short bodies
	// are error pages regardless of status code.
	if resp.StatusCode != http.StatusOK || len(pdf) < 1000 || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return "", &CompileError{Pass: 1, Log: string(truncateBytes(pdf, 4096)),
			Cause: fmt.Errorf("cloud compile failed: status %d", resp.StatusCode)}
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(outputPath, pdf, 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

func truncateBytes(b []byte, max int) []byte {
	if len(b) <= max {
		return b
	}
	return b[:max]
}
