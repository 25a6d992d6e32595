// Package server exposes the invoice renderer over HTTP: the generate
// endpoint, image upload pre-flight, debug surfaces, template persistence
// and static file serving for the designer UI.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/gorilla/mux"

	"github.com/Mohamed-kissame/Facture-v2/invoice"
	"github.com/Mohamed-kissame/Facture-v2/pdf"
)

// Server wires the document generator, image service and template store
// behind a gorilla/mux router.
type Server struct {
	cfg       Config
	generator *pdf.Generator
	images    *pdf.ImageService
	store     *TemplateStore
	router    *mux.Router
	started   time.Time
}

// New builds a server from config. The template store is optional: with an
// empty TemplateDB path the template endpoints report 404.
func New(cfg Config) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		generator: pdf.NewGenerator(),
		images:    pdf.NewImageService(),
		started:   time.Now(),
	}

	if cfg.TemplateDB != "" {
		store, err := OpenTemplateStore(cfg.TemplateDB)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	s.router = mux.NewRouter()
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate-pdf", s.handleGeneratePDF).Methods(http.MethodPost)
	api.HandleFunc("/test-pdf", s.handleTestPDF).Methods(http.MethodGet)
	api.HandleFunc("/process-image", s.handleProcessImage).Methods(http.MethodPost)
	api.HandleFunc("/debug/images", s.handleDebugImages).Methods(http.MethodPost)
	api.HandleFunc("/debug/server", s.handleDebugServer).Methods(http.MethodGet)

	if s.store != nil {
		api.HandleFunc("/templates", s.handleSaveTemplate).Methods(http.MethodPost)
		api.HandleFunc("/templates", s.handleListTemplates).Methods(http.MethodGet)
		api.HandleFunc("/templates/{id:[0-9]+}", s.handleGetTemplate).Methods(http.MethodGet)
		api.HandleFunc("/templates/{id:[0-9]+}", s.handleDeleteTemplate).Methods(http.MethodDelete)
	}

	if s.cfg.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
}

// Router returns the handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP on the configured address.
func (s *Server) Start() error {
	logger.Infof("server listening on %s", s.cfg.Listen)
	return http.ListenAndServe(s.cfg.Listen, s.router)
}

// Close releases the template store.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large", err)
		return
	}

	// An empty request still gets a document: the simple confirmation PDF.
	if len(body) == 0 {
		logger.Infof("empty generate request, serving fallback document")
		s.serveFallbackPDF(w, "simple-invoice.pdf")
		return
	}

	inv, err := invoice.New(body)
	if err != nil {
		logger.Warnf("undecodable payload, serving fallback document: %v", err)
		s.serveFallbackPDF(w, "simple-invoice.pdf")
		return
	}

	data, err := s.generator.Generate(inv)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate PDF", err)
		return
	}
	servePDF(w, "invoice-template.pdf", data)
}

func (s *Server) handleTestPDF(w http.ResponseWriter, _ *http.Request) {
	s.serveFallbackPDF(w, "simple-invoice.pdf")
}

func (s *Server) serveFallbackPDF(w http.ResponseWriter, filename string) {
	data, err := s.generator.GenerateFallback()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate PDF", err)
		return
	}
	servePDF(w, filename, data)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageData string `json:"imageData"`
		ImageType string `json:"imageType"`
	}
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ImageData == "" {
		s.writeError(w, http.StatusBadRequest, "no image data provided", nil)
		return
	}

	result := s.images.Process(req.ImageData, req.ImageType)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func (s *Server) handleDebugImages(w http.ResponseWriter, r *http.Request) {
	var set invoice.ImageSet
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &set); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	report := map[string]string{
		"logoImage":      slotStatus(set.Logo),
		"signatureImage": slotStatus(set.Signature),
		"headerImage":    slotStatus(set.Header),
		"footerImage":    slotStatus(set.Footer),
		"watermarkImage": slotStatus(set.Watermark),
	}
	writeJSON(w, http.StatusOK, report)
}

func slotStatus(data string) string {
	if data == "" {
		return "not received"
	}
	return fmt.Sprintf("received (length: %d)", len(data))
}

func (s *Server) handleDebugServer(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"goVersion":   runtime.Version(),
		"platform":    runtime.GOOS,
		"allocBytes":  mem.Alloc,
		"uptime":      time.Since(s.started).String(),
		"environment": s.cfg.Environment,
		"requestUrl":  r.URL.String(),
	})
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" || len(req.Payload) == 0 {
		s.writeError(w, http.StatusBadRequest, "name and payload are required", nil)
		return
	}

	// Reject payloads the renderer would not understand.
	if _, err := invoice.New(req.Payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "payload is not a valid invoice", err)
		return
	}

	tpl, err := s.store.Save(req.Name, req.Payload)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to save template", err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	templates, err := s.store.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list templates", err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	tpl, err := s.store.Get(id)
	if errors.Is(err, ErrTemplateNotFound) {
		s.writeError(w, http.StatusNotFound, "template not found", nil)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load template", err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	err := s.store.Delete(id)
	if errors.Is(err, ErrTemplateNotFound) {
		s.writeError(w, http.StatusNotFound, "template not found", nil)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	return json.NewDecoder(body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("writing response: %v", err)
	}
}

// errorResponse is the JSON error envelope. Details are included outside
// production only.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		logger.Errorf("%s: %v", message, err)
		if !s.cfg.IsProduction() {
			resp.Details = err.Error()
		}
	}
	writeJSON(w, status, resp)
}
