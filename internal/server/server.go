// Package server hosts the local upload page payroll staff use to run a
// validation without touching the command line. It binds to loopback only
// and serves nothing outside its own outputs directory.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/history"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/runner"
)

// maxUploadBytes bounds one multipart upload.
const maxUploadBytes = 64 << 20

// Server is the upload front end around a Runner.
type Server struct {
	cfg    config.ServerConfig
	runner *runner.Runner
	hist   *history.Store
	log    *zap.Logger
}

// New builds a server. The history store and logger may be nil; without a
// store the index page simply shows no past runs.
func New(cfg config.ServerConfig, run *runner.Runner, hist *history.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, runner: run, hist: hist, log: log}
}

// Listen binds the first free port in the configured range.
func (s *Server) Listen() (net.Listener, error) {
	for port := s.cfg.PortStart; port <= s.cfg.PortEnd; port++ {
		addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			s.log.Info("listening", zap.String("addr", addr))
			return listener, nil
		}
	}
	return nil, fmt.Errorf("no free port in %d-%d", s.cfg.PortStart, s.cfg.PortEnd)
}

// Serve runs the HTTP server on the listener until ctx is cancelled or the
// server fails.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/outputs/", s.handleOutputs)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := http.Serve(listener, mux)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		listener.Close()
		return nil
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.renderError(w, http.StatusNotFound, "Not found.")
		return
	}
	s.render(w, http.StatusOK, indexTemplate, indexData{Recent: s.recentRuns()})
}

// recentRuns fetches past runs for the index page. Failures degrade to an
// empty list rather than breaking the page.
func (s *Server) recentRuns() []history.Run {
	if s.hist == nil {
		return nil
	}
	runs, err := s.hist.Recent(10)
	if err != nil {
		s.log.Warn("load run history", zap.Error(err))
		return nil
	}
	return runs
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.renderError(w, http.StatusMethodNotAllowed, "Upload requires POST.")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderError(w, http.StatusBadRequest, "Malformed upload: "+err.Error())
		return
	}

	runDir, err := s.newRunDir()
	if err != nil {
		s.log.Error("create run dir", zap.Error(err))
		s.renderError(w, http.StatusInternalServerError, "Could not create a run directory.")
		return
	}

	csvPath, err := s.saveUpload(r, "csv", runDir, "punches.csv")
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}
	xlsxPath, err := s.saveUpload(r, "xlsx", runDir, "timesheet.xlsx")
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.runner.Run(csvPath, xlsxPath, runDir)
	if err != nil {
		s.log.Error("validation failed", zap.Error(err))
		s.renderError(w, http.StatusInternalServerError, "Validation failed: "+err.Error())
		return
	}

	if s.hist != nil {
		_, err := s.hist.Record(history.Run{
			CSVName:        filepath.Base(csvPath),
			XLSXName:       filepath.Base(xlsxPath),
			Discrepancies:  summary.Discrepancies,
			OK:             summary.OK,
			NeedsAttention: summary.NeedsAttention,
			ReportPath:     summary.ReportPath,
		})
		if err != nil {
			s.log.Warn("record run history", zap.Error(err))
		}
	}

	s.render(w, http.StatusOK, resultTemplate, resultData{
		ReportLink:     s.outputLink(summary.ReportPath),
		ValidatedLink:  s.outputLink(summary.ValidatedPath),
		Discrepancies:  summary.Discrepancies,
		OK:             summary.OK,
		NeedsAttention: summary.NeedsAttention,
	})
}

// handleOutputs serves files generated under the outputs root. Anything
// resolving outside that root is rejected.
func (s *Server) handleOutputs(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/outputs/")
	full := filepath.Join(s.cfg.OutputsDir, filepath.FromSlash(rel))
	root, err1 := filepath.Abs(s.cfg.OutputsDir)
	target, err2 := filepath.Abs(full)
	if err1 != nil || err2 != nil || !strings.HasPrefix(target, root+string(filepath.Separator)) {
		s.renderError(w, http.StatusNotFound, "Not found.")
		return
	}
	http.ServeFile(w, r, target)
}

// newRunDir creates a fresh directory for one run's inputs and outputs.
func (s *Server) newRunDir() (string, error) {
	id := time.Now().Format("20060102-150405") + "-" + uuid.NewString()[:6]
	dir := filepath.Join(s.cfg.OutputsDir, "run-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// saveUpload stores one multipart file field into the run directory under a
// sanitized name.
func (s *Server) saveUpload(r *http.Request, field, runDir, fallback string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("please upload both a CSV and XLSX file")
	}
	defer file.Close()

	name := safeFilename(header.Filename, fallback)
	path := filepath.Join(runDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer out.Close()
	if _, err := out.ReadFrom(file); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

// safeFilename keeps only the base name and falls back when the client sent
// nothing usable.
func safeFilename(name, fallback string) string {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fallback
	}
	return base
}

func (s *Server) outputLink(path string) string {
	rel, err := filepath.Rel(s.cfg.OutputsDir, path)
	if err != nil {
		return ""
	}
	return "/outputs/" + filepath.ToSlash(rel)
}
