// Package http exposes the product store to collaborators over JSON/REST.
// The adapter adds no semantics of its own: one operation maps to one
// handler, and domain errors map to status codes in errors.go.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/light-bringer/product-store/internal/app/product/contracts"
	"github.com/light-bringer/product-store/internal/app/product/domain"
)

// Handler serves the product store REST API.
type Handler struct {
	store contracts.ProductStore
	log   zerolog.Logger
}

// NewHandler creates a Handler over the given store.
func NewHandler(store contracts.ProductStore, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("component", "http").Logger(),
	}
}

// Routes mounts all product endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/search", h.search)
		r.Get("/count", h.count)
		r.Post("/lookup", h.findByIDs)
		r.Post("/bulk/update", h.bulkUpdate)
		r.Post("/bulk/delete", h.bulkDelete)
		r.Get("/slug/{slug}", h.getBySlug)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getByID)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Post("/inventory", h.updateInventory)
			r.Post("/archive", h.archive)
		})
	})

	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var params domain.CreateParams
	if !h.decode(w, r, &params) {
		return
	}

	prod, err := h.store.Create(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, prod)
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	prod, err := h.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	prod, err := h.store.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, page, err := filterFromQuery(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	products, err := h.store.FindAll(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Items: products})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	filter, _, err := filterFromQuery(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	products, err := h.store.Search(r.Context(), r.URL.Query().Get("q"), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Items: products})
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	filter, _, err := filterFromQuery(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	n, err := h.store.Count(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var patch domain.Patch
	if !h.decode(w, r, &patch) {
		return
	}

	var expectedVersion *int64
	if raw := r.URL.Query().Get("expectedVersion"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorBody(fmt.Errorf("invalid expectedVersion: %q", raw)))
			return
		}
		expectedVersion = &v
	}

	prod, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), patch, expectedVersion)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta int64 `json:"delta"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	prod, err := h.store.UpdateInventory(r.Context(), chi.URLParam(r, "id"), body.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	prod, err := h.store.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) findByIDs(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	products, err := h.store.FindByIDs(r.Context(), body.IDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Items: products})
}

func (h *Handler) bulkUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Updates []bulkUpdateEntry `json:"updates"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	updates := make([]contracts.BulkUpdate, len(body.Updates))
	for i, u := range body.Updates {
		updates[i] = contracts.BulkUpdate{ID: u.ID, Patch: u.Patch}
	}

	if err := h.store.BulkUpdate(r.Context(), updates); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	if err := h.store.BulkDelete(r.Context(), body.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkUpdateEntry struct {
	ID    string       `json:"id"`
	Patch domain.Patch `json:"patch"`
}

type listResponse struct {
	Items interface{} `json:"items"`
}

// decode parses the request body, rejecting unknown fields. Writes a 400
// and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

// filterFromQuery parses the pushdown and in-memory filters plus the
// pagination window from URL query parameters.
func filterFromQuery(r *http.Request) (contracts.Filter, contracts.Page, error) {
	q := r.URL.Query()

	filter := contracts.Filter{
		Category: q.Get("category"),
		SellerID: q.Get("sellerId"),
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return filter, contracts.Page{}, fmt.Errorf("invalid status: %q", raw)
		}
		filter.Status = status
	}

	if raw := q.Get("isFeatured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, contracts.Page{}, fmt.Errorf("invalid isFeatured: %q", raw)
		}
		filter.IsFeatured = &v
	}

	var err error
	if filter.MinPrice, err = optionalInt(q.Get("minPrice"), "minPrice"); err != nil {
		return filter, contracts.Page{}, err
	}
	if filter.MaxPrice, err = optionalInt(q.Get("maxPrice"), "maxPrice"); err != nil {
		return filter, contracts.Page{}, err
	}

	if raw := q.Get("tags"); raw != "" {
		filter.Tags = strings.Split(raw, ",")
	}

	var page contracts.Page
	if v, err := optionalInt(q.Get("limit"), "limit"); err != nil {
		return filter, page, err
	} else if v != nil {
		page.Limit = *v
	}
	if v, err := optionalInt(q.Get("offset"), "offset"); err != nil {
		return filter, page, err
	} else if v != nil {
		page.Offset = *v
	}

	return filter, page, nil
}

func optionalInt(raw, name string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}
