package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/justin-aj/tailor-resume-ai/internal/latex"
)

// texpdf combines resume section files into main.tex and compiles it
// to PDF, falling back to a cloud compiler when no local engine is
// installed.
func main() {
	var (
		dir     = flag.String("dir", "tex", "directory holding the .tex section files")
		out     = flag.String("out", "output", "output directory for the PDF")
		engine  = flag.String("engine", "pdflatex", "latex engine binary")
		cloud   = flag.String("cloud", "", "cloud compile endpoint used when the engine is missing")
		combine = flag.Bool("combine", true, "rebuild main.tex from the section files first")
		timeout = flag.Duration("timeout", 60*time.Second, "per-pass compile timeout")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	mainPath := filepath.Join(*dir, "main.tex")
	if *combine {
		combined, err := latex.CombineSections(*dir, logger)
		if err != nil {
			logger.Fatalf("combine sections: %v", err)
		}
		mainPath = combined
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	compiler, err := latex.NewCompiler(*engine, *timeout, logger)
	if err != nil {
		if !errors.Is(err, latex.ErrEngineMissing) {
			logger.Fatalf("engine probe: %v", err)
		}
		cc := latex.NewCloudCompiler(*cloud, *timeout, logger)
		if cc == nil {
			logger.Fatalf("engine %q not found and no -cloud endpoint given", *engine)
		}
		src, err := os.ReadFile(mainPath)
		if err != nil {
			logger.Fatalf("read source: %v", err)
		}
		pdfPath, err := cc.CompileSource(ctx, string(src), filepath.Join(*out, "resume.pdf"))
		if err != nil {
			logger.Fatalf("cloud compile: %v", err)
		}
		fmt.Println(pdfPath)
		return
	}

	pdfPath, err := compiler.CompileFile(ctx, mainPath, *out)
	if err != nil {
		var cerr *latex.CompileError
		if errors.As(err, &cerr) {
			for _, line := range latex.ExtractLogErrors(cerr.Log) {
				logger.Printf("latex: %s", line)
			}
		}
		logger.Fatalf("compile: %v", err)
	}
	fmt.Println(pdfPath)
}
