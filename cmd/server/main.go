package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/kardianos/service"

	"github.com/justin-aj/tailor-resume-ai/internal/app"
	"github.com/justin-aj/tailor-resume-ai/internal/config"
)

type program struct {
	app     *app.App
	cleanup func() error
}

func (p *program) Start(_ service.Service) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	p.app = a
	p.cleanup = cleanup

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		_ = cleanup()
		return err
	}

	go func() {
		if err := a.Fiber.Listen(addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	if p.app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.app.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
	if p.cleanup != nil {
		if err := p.cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}
	return nil
}

func main() {
	svcFlag := flag.String("service", "", "control the system service: install, uninstall, start, stop, status")
	flag.Parse()

	svcConfig := &service.Config{
		Name:        "tailor-resume-ai",
		DisplayName: "Resume Tailor",
		Description: "Resume tailoring service: prompt assembly, LaTeX compilation and job scraping.",
	}

	prg := &program{}
	s, err := service.New(prg, svcConfig)
	if err != nil {
		log.Fatalf("service setup error: %v", err)
	}

	if *svcFlag != "" {
		// service.Control has no status action, so it is handled here.
		if *svcFlag == "status" {
			st, err := s.Status()
			if err != nil {
				log.Fatalf("service status error: %v", err)
			}
			fmt.Println(statusText(st))
			return
		}
		if err := service.Control(s, *svcFlag); err != nil {
			log.Fatalf("service control error: %v", err)
		}
		return
	}

	// Run blocks; interactive runs stop on SIGINT/SIGTERM.
	if err := s.Run(); err != nil {
		log.Fatalf("service run error: %v", err)
	}
}

func statusText(st service.Status) string {
	switch st {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
