package latex

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SectionOrder is the assembly order for a sectioned resume: each file
// holds one block of the document, main.tex is the combined output.
var SectionOrder = []string{
	"head.tex",
	"heading.tex",
	"education.tex",
	"programming.tex",
	"experience.tex",
	"projects.tex",
}

// CombineSections concatenates the section files found in texDir into
// texDir/main.tex, backing up any existing main.tex first. Missing
// section files are skipped. Returns the path to main.tex.
func CombineSections(texDir string, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.Default()
	}
	texDir = strings.TrimSpace(texDir)
	if texDir == "" {
		texDir = "tex_files"
	}

	mainPath := filepath.Join(texDir, "main.tex")

	if _, err := os.Stat(mainPath); err == nil {
		if err := backupMain(texDir, mainPath, logger); err != nil {
			return "", err
		}
	}

	parts := make([]string, 0, len(SectionOrder)+1)
	for _, name := range SectionOrder {
		b, err := os.ReadFile(filepath.Join(texDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				logger.Printf("section skipped | file=%s reason=not_found", name)
				continue
			}
			return "", err
		}
		content := strings.TrimSpace(string(b))
		if content == "" {
			continue
		}
		parts = append(parts, content)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no section files found in %s", texDir)
	}

	parts = append(parts, "\n%\n\\end{document}")

	if err := os.WriteFile(mainPath, []byte(strings.Join(parts, "\n\n")), 0o644); err != nil {
		return "", err
	}
	logger.Printf("main.tex built | sections=%d path=%s", len(parts)-1, mainPath)
	return mainPath, nil
}

func backupMain(texDir, mainPath string, logger *log.Logger) error {
	backupDir := filepath.Join(texDir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}

	stamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(backupDir, fmt.Sprintf("main_backup_%s.tex", stamp))
	if err := copyFile(mainPath, backupPath); err != nil {
		return err
	}
	logger.Printf("main.tex backed up | path=%s", backupPath)
	return nil
}
