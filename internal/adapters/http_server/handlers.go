// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"guest_portal/internal/app"
	"guest_portal/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Catalog *app.CatalogService
	Bonus   *app.BonusService
	Auth    *app.AuthService
	// Limiter throttles sign-in attempts per client IP; nil disables it.
	Limiter *IPLimiter
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.Limiter != nil {
				r.Use(h.Limiter.Middleware)
			}
			r.Post("/auth/guest", h.signInGuest)
			r.Post("/auth/admin", h.signInAdmin)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Session)

			r.Get("/shop/items", h.listOfferings(domain.KindShop))
			r.Get("/travel/services", h.listOfferings(domain.KindTravel))

			r.With(RequireRole(domain.RoleGuest)).Get("/me/bonus", h.myBonus)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))
				r.Get("/guests/{id}/bonus", h.auditBonus)
				r.Post("/guests/{id}/bonus", h.appendBonus)
				r.Put("/properties/{pid}/{kind}/{id}/override", h.putOverride)
				r.Delete("/properties/{pid}/{kind}/{id}/override", h.deleteOverride)
			})
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", `Bearer realm="guest-portal"`)
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "valid session required")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAmount):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCachedJSON writes v with a weak ETag and honours If-None-Match.
func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeValue(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}

// ---- auth ----

func (h *Handlers) signInGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := h.Auth.SignInGuest(r.Context(), req.Token)
	if err != nil {
		log.Info().Err(err).Str("remote", remoteIP(r)).Msg("guest sign-in rejected")
		writeError(w, err)
		return
	}
	writeValue(w, http.StatusOK, st)
}

func (h *Handlers) signInAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := h.Auth.SignInAdmin(r.Context(), req.Password)
	if err != nil {
		log.Warn().Str("remote", remoteIP(r)).Msg("admin sign-in rejected")
		writeError(w, err)
		return
	}
	writeValue(w, http.StatusOK, st)
}

// ---- catalog ----

type offeringsResponse struct {
	Kind       domain.CatalogKind        `json:"kind"`
	City       string                    `json:"city"`
	PropertyID *string                   `json:"property_id,omitempty"`
	Items      []domain.ResolvedOffering `json:"items"`
}

// listOfferings takes city/property_id from the query string and falls back to
// the guest's own stay when they are omitted.
func (h *Handlers) listOfferings(kind domain.CatalogKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := domain.CatalogQuery{Kind: kind, City: strings.TrimSpace(r.URL.Query().Get("city"))}
		if pid := strings.TrimSpace(r.URL.Query().Get("property_id")); pid != "" {
			q.PropertyID = &pid
		}
		if s, ok := domain.SessionFrom(r.Context()); ok && s.Role == domain.RoleGuest {
			if q.City == "" {
				q.City = s.City
			}
			if q.PropertyID == nil && s.PropertyID != "" {
				pid := s.PropertyID
				q.PropertyID = &pid
			}
		}
		if q.City == "" {
			writeProblem(w, http.StatusBadRequest, "Invalid city", "city is required")
			return
		}

		items, err := h.Catalog.ListOfferings(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []domain.ResolvedOffering{}
		}
		writeCachedJSON(w, r, offeringsResponse{Kind: kind, City: q.City, PropertyID: q.PropertyID, Items: items})
	}
}

type overrideRequest struct {
	PriceOverride decimal.NullDecimal `json:"price_override"`
	IsAvailable   *bool               `json:"is_available"`
}

func (h *Handlers) putOverride(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req overrideRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, err)
		return
	}
	o := domain.PriceOverride{
		EntityID:      chi.URLParam(r, "id"),
		PropertyID:    chi.URLParam(r, "pid"),
		PriceOverride: req.PriceOverride,
		IsAvailable:   req.IsAvailable,
	}
	if err := h.Catalog.SetOverride(r.Context(), kind, o); err != nil {
		writeError(w, err)
		return
	}
	writeValue(w, http.StatusOK, o)
}

func (h *Handlers) deleteOverride(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Catalog.RemoveOverride(r.Context(), kind, chi.URLParam(r, "pid"), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- bonus ----

func (h *Handlers) myBonus(w http.ResponseWriter, r *http.Request) {
	s, _ := domain.SessionFrom(r.Context())
	v, err := h.Bonus.View(r.Context(), s.GuestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCachedJSON(w, r, v)
}

type auditResponse struct {
	domain.BonusView
	Discrepancies []domain.LedgerDiscrepancy `json:"discrepancies"`
}

func (h *Handlers) auditBonus(w http.ResponseWriter, r *http.Request) {
	v, disc, err := h.Bonus.Audit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if disc == nil {
		disc = []domain.LedgerDiscrepancy{}
	}
	writeValue(w, http.StatusOK, auditResponse{BonusView: v, Discrepancies: disc})
}

func (h *Handlers) appendBonus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64   `json:"amount"`
		Note   *string `json:"note"`
	}
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, err)
		return
	}
	s, _ := domain.SessionFrom(r.Context())
	tx, err := h.Bonus.Append(r.Context(), chi.URLParam(r, "id"), req.Amount, req.Note, s.Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("guest_id", tx.GuestID).Int64("amount", tx.Amount).Int64("balance_after", tx.BalanceAfter).
		Str("created_by", s.Subject).Msg("bonus transaction appended")
	writeValue(w, http.StatusCreated, tx)
}
