package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/intake"
	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/schema"
	"github.com/sells-group/lead-intake/internal/store"
)

// processor runs the extract+brief pipeline for one lead. Satisfied by
// *intake.Pipeline; a stub stands in during handler tests.
type processor interface {
	Process(ctx context.Context, id string) (*model.StageTransition, error)
}

// newRouter builds the intake HTTP API. The widget is served from the
// dealer's domain, so CORS is open for POSTs from anywhere.
func newRouter(st store.Store, pipe processor, creditMode model.CreditMode) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/intake/raw", func(w http.ResponseWriter, req *http.Request) {
		var raw model.RawInput
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := schema.ValidateRawInput(&raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		lead := model.Lead{
			Raw: raw,
			Credit: model.Credit{
				Consent: raw.Form.ConsentSoftCredit,
				Mode:    creditMode,
			},
			Meta: buildMeta(req),
		}

		created, err := st.CreateLead(req.Context(), lead)
		if err != nil {
			zap.L().Error("intake: create lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to store lead")
			return
		}

		zap.L().Info("lead received",
			zap.String("lead_id", created.ID),
			zap.Int("messages", len(raw.Messages)))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": created.ID})
	})

	r.Post("/intake/extract/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")

		transition, err := pipe.Process(req.Context(), id)
		if err != nil {
			switch {
			case eris.Is(err, intake.ErrLeadNotFound):
				writeError(w, http.StatusNotFound, "lead not found")
			case eris.Is(err, intake.ErrNoCompiledText):
				writeError(w, http.StatusBadRequest, "lead has no compiled text")
			case eris.Is(err, intake.ErrExtractionFailed), eris.Is(err, intake.ErrBriefingFailed):
				zap.L().Warn("intake: pipeline failed", zap.String("lead_id", id), zap.Error(err))
				writeError(w, http.StatusBadGateway, "model pipeline failed")
			default:
				zap.L().Error("intake: process failed", zap.String("lead_id", id), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":    true,
			"id":    transition.LeadID,
			"stage": transition.To,
		})
	})

	r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
		filter := store.LeadFilter{
			Stage: model.Stage(req.URL.Query().Get("stage")),
		}
		if v := req.URL.Query().Get("limit"); v != "" {
			filter.Limit, _ = strconv.Atoi(v)
		}
		if v := req.URL.Query().Get("offset"); v != "" {
			filter.Offset, _ = strconv.Atoi(v)
		}

		leads, err := st.ListLeads(req.Context(), filter)
		if err != nil {
			zap.L().Error("intake: list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list leads")
			return
		}
		if leads == nil {
			leads = []model.Lead{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "leads": leads})
	})

	r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
		lead, err := st.GetLead(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "lead not found")
				return
			}
			zap.L().Error("intake: get lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load lead")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "lead": lead})
	})

	return r
}

// requestLogger logs one line per request with method, path, status
// and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		zap.L().Info("http request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// buildMeta fills tracking metadata from the request. Clients never
// set these fields themselves.
func buildMeta(req *http.Request) model.Meta {
	meta := model.Meta{
		CreatedAt:  time.Now().UTC(),
		Source:     "chat",
		FinishMode: model.FinishExplicit,
	}

	if ua := req.UserAgent(); ua != "" {
		meta.UA = &ua
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil && host != "" {
		meta.IP = &host
	}
	if ref := req.Referer(); ref != "" {
		meta.PageURL = &ref
	}
	if src := req.URL.Query().Get("source"); src != "" {
		meta.Source = src
	}
	if req.URL.Query().Get("finish") == "auto" {
		meta.FinishMode = model.FinishAuto
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
