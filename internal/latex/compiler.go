package latex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrEngineMissing  = errors.New("latex engine not found")
	ErrSourceMissing  = errors.New("latex source file not found")
	ErrPDFNotProduced = errors.New("pdf was not produced")
)

// CompileError carries the captured console output of a failed engine run.
type CompileError struct {
	Pass  int
	Log   string
	Cause error
}

func (e *CompileError) Error() string {
	if e == nil {
		return ""
	}
	lines := ExtractLogErrors(e.Log)
	if len(lines) > 0 {
		return fmt.Sprintf("latex compilation failed on pass %d: %s", e.Pass, strings.Join(lines, "; "))
	}
	return fmt.Sprintf("latex compilation failed on pass %d", e.Pass)
}

func (e *CompileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Compiler struct {
	engine      string
	passTimeout time.Duration
	logger      *log.Logger
}

// NewCompiler probes the engine binary once; a compiler is never handed
// out with an engine that cannot be invoked.
func NewCompiler(engine string, passTimeout time.Duration, logger *log.Logger) (*Compiler, error) {
	engine = strings.TrimSpace(engine)
	if engine == "" {
		engine = "pdflatex"
	}
	if passTimeout <= 0 {
		passTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, engine, "--version").Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineMissing, engine, err)
	}
	logger.Printf("LaTeX engine ready | engine=%s", engine)

	return &Compiler{engine: engine, passTimeout: passTimeout, logger: logger}, nil
}

// CompileFile compiles texPath to PDF in an isolated scratch directory,
// running the engine twice so cross-references resolve, and copies the
// result into outDir. The caller's source file is never touched.
func (c *Compiler) CompileFile(ctx context.Context, texPath string, outDir string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil compiler")
	}

	if _, err := os.Stat(texPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrSourceMissing, texPath)
	}

	if strings.TrimSpace(outDir) == "" {
		outDir = filepath.Dir(texPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	workDir, err := os.MkdirTemp("", "texpdf-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(workDir)

	workTex := filepath.Join(workDir, filepath.Base(texPath))
	if err := copyFile(texPath, workTex); err != nil {
		return "", err
	}

	for pass := 1; pass <= 2; pass++ {
		out, err := c.runPass(ctx, workDir, workTex)
		if err != nil {
			// The first pass is allowed to fail while references are
			// still unresolved; only the final pass is authoritative.
			if pass == 2 {
				return "", &CompileError{Pass: pass, Log: out, Cause: err}
			}
			c.logger.Printf("LaTeX pass failed, retrying | pass=%d engine=%s", pass, c.engine)
			continue
		}
		c.logger.Printf("LaTeX pass done | pass=%d file=%s", pass, filepath.Base(texPath))
	}

	stem := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	workPDF := filepath.Join(workDir, stem+".pdf")
	if _, err := os.Stat(workPDF); err != nil {
		return "", fmt.Errorf("%w: %s", ErrPDFNotProduced, workPDF)
	}

	finalPDF := filepath.Join(outDir, stem+".pdf")
	if err := copyFile(workPDF, finalPDF); err != nil {
		return "", err
	}
	return finalPDF, nil
}

// CompileSource compiles raw LaTeX text and places the PDF at outputPath.
func (c *Compiler) CompileSource(ctx context.Context, src string, outputPath string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil compiler")
	}

	srcDir, err := os.MkdirTemp("", "texsrc-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(srcDir)

	texPath := filepath.Join(srcDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(src), 0o644); err != nil {
		return "", err
	}

	pdfPath, err := c.CompileFile(ctx, texPath, srcDir)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := copyFile(pdfPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func (c *Compiler) runPass(ctx context.Context, workDir string, texPath string) (string, error) {
	passCtx, cancel := context.WithTimeout(ctx, c.passTimeout)
	defer cancel()

	cmd := exec.CommandContext(passCtx, c.engine,
		"-interaction=nonstopmode",
		"-output-directory", workDir,
		texPath,
	)
	cmd.Dir = workDir

	out, err := cmd.CombinedOutput()
	return string(out), err
}

// ExtractLogErrors pulls the "! ..." error lines out of engine console
// output so failures can be reported without the full log.
func ExtractLogErrors(logText string) []string {
	var out []string
	for _, line := range strings.Split(logText, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "!") {
			out = append(out, line)
		}
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
