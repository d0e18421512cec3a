/*
handlers.go - HTTP handlers for the emissions dashboard API.

PURPOSE:
  Exposes the calculation/aggregation engine over REST. Handlers parse and
  validate input, convert to decimals, delegate to the core packages, and
  serialize the result. No business arithmetic lives here.

ENDPOINTS:
  Auth:
    POST /api/login                          Credential check

  Events:
    GET  /api/events                         List events
    POST /api/events                         Register event
    GET  /api/events/latest                  Most recent event

  Calculation (stateless):
    POST /api/calc/{domain}                  Single-line calculation
    GET  /api/factors/{domain}               Published keys for a domain
    GET  /api/hvac/{refrigerant}/alternatives  Greener refrigerants
    POST /api/logistics/estimate             Distance + emission estimate

  Persistence:
    POST /api/events/{event}/batches         Save a multi-line batch
    POST /api/events/{event}/materials       Save a material calculation
    POST /api/events/{event}/logistics       Save a logistics estimate
    GET  /api/events/{event}/rollup          Event summary

ERROR HANDLING:
  - 400: negative quantity, empty batch, malformed record, bad JSON,
         unknown domain/mode
  - 404: event not registered
  - 500: storage failures (propagated unchanged from the gateway)
  - 502: routing provider failures

SEE ALSO:
  - dto.go: wire shapes
  - server.go: router and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/batch"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/factor"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/rollup"
)

const timeFormat = time.RFC3339

func nowUTC() time.Time { return time.Now().UTC() }

// batchDomains maps the (category, quantity) calculator domains to their
// scope and source-table identity.
var batchDomains = map[factor.Domain]struct {
	Scope  emission.Scope
	Source emission.Source
}{
	factor.Fuel:         {emission.Scope1, emission.SourceFuel},
	factor.Electricity:  {emission.Scope2, emission.SourceElectricity},
	factor.HVAC:         {emission.Scope2, emission.SourceHVAC},
	factor.Food:         {emission.Scope3, emission.SourceFood},
	factor.Dish:         {emission.Scope3, emission.SourceDish},
	factor.Road:         {emission.Scope3, emission.SourceTransport},
	factor.RoadElectric: {emission.Scope3, emission.SourceTransport},
}

// Handler holds the dependencies every endpoint needs.
type Handler struct {
	Gateway  emission.Gateway
	Provider logistics.DistanceProvider
	Log      zerolog.Logger

	creds map[string]string // role -> sha256(password)
}

// NewHandler creates a handler around a gateway. provider may be nil, in
// which case the logistics endpoints report an unavailable provider.
func NewHandler(gw emission.Gateway, provider logistics.DistanceProvider, log zerolog.Logger) *Handler {
	return &Handler{
		Gateway:  gw,
		Provider: provider,
		Log:      log,
		creds:    defaultCredentials(),
	}
}

// =============================================================================
// EVENTS
// =============================================================================

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Event name is required", nil)
		return
	}

	if err := h.Gateway.SaveEvent(r.Context(), req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save event", err)
		return
	}
	writeJSON(w, http.StatusCreated, EventDTO{Name: req.Name})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	names, err := h.Gateway.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	dtos := make([]EventDTO, len(names))
	for i, n := range names {
		dtos[i] = EventDTO{Name: n}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) LatestEvent(w http.ResponseWriter, r *http.Request) {
	name, err := h.Gateway.LatestEvent(r.Context())
	if errors.Is(err, emission.ErrNoEvent) {
		writeError(w, http.StatusNotFound, "No event registered yet", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load latest event", err)
		return
	}
	writeJSON(w, http.StatusOK, EventDTO{Name: name})
}

// eventExists checks that an event was registered before data is saved
// against it, mirroring the dashboard's "save an event first" guard.
func (h *Handler) eventExists(ctx context.Context, event string) (bool, error) {
	names, err := h.Gateway.ListEvents(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == event {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// STATELESS CALCULATION
// =============================================================================

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	domain := factor.Domain(chi.URLParam(r, "domain"))

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Quantity < 0 || req.Weight < 0 || req.Distance < 0 {
		writeError(w, http.StatusBadRequest, "Quantity must not be negative", emission.ErrInvalidQuantity)
		return
	}

	quantity := decimal.NewFromFloat(req.Quantity)
	weight := decimal.NewFromFloat(req.Weight)

	var (
		kgCO2e decimal.Decimal
		scope  emission.Scope
	)
	switch domain {
	case factor.Material:
		scope = emission.Scope3
		if req.Item != "" {
			kgCO2e = emission.KitItem(req.Item, weight, quantity)
		} else {
			kgCO2e = emission.Material(req.Category, weight, quantity)
		}
	case factor.Logistics:
		scope = emission.Scope3
		kgCO2e = emission.Logistics(req.Category, decimal.NewFromFloat(req.Distance), weight)
	default:
		calc := emission.ForDomain(domain)
		if calc == nil {
			writeError(w, http.StatusBadRequest, "Unknown calculation domain", nil)
			return
		}
		d, ok := batchDomains[domain]
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown calculation domain", nil)
			return
		}
		scope = d.Scope
		kgCO2e = calc(req.Category, quantity)
	}

	writeJSON(w, http.StatusOK, CalcResponse{
		Category: req.Category,
		Scope:    string(scope),
		Emission: f64(kgCO2e),
	})
}

func (h *Handler) ListFactors(w http.ResponseWriter, r *http.Request) {
	domain := factor.Domain(chi.URLParam(r, "domain"))
	keys := factor.Keys(domain)
	if keys == nil && domain != factor.Material {
		writeError(w, http.StatusBadRequest, "Unknown factor domain", nil)
		return
	}
	if domain == factor.Material {
		keys = []string{"Banners", "Kit", "Momentoes", "Trophies"}
	}
	writeJSON(w, http.StatusOK, map[string]any{"domain": domain, "keys": keys})
}

func (h *Handler) HVACAlternatives(w http.ResponseWriter, r *http.Request) {
	refrigerant := chi.URLParam(r, "refrigerant")

	options := emission.GreenerRefrigerants(refrigerant)
	dtos := make([]AlternativeDTO, len(options))
	for i, alt := range options {
		dtos[i] = AlternativeDTO{
			Refrigerant:  alt.Refrigerant,
			Factor:       f64(alt.Factor),
			ReductionPct: f64(alt.ReductionPct),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BATCH PERSISTENCE
// =============================================================================

func (h *Handler) SaveBatch(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var req SaveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	domain := factor.Domain(req.Domain)
	d, ok := batchDomains[domain]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown batch domain", nil)
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "Batch has no entries", nil)
		return
	}

	exists, err := h.eventExists(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check event", err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Event not registered", emission.ErrEventNotFound)
		return
	}

	b := batch.New(d.Scope, d.Source, emission.ForDomain(domain))
	for _, e := range req.Entries {
		if _, err := b.Add(e.Category, decimal.NewFromFloat(e.Quantity)); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entry", err)
			return
		}
	}

	rec := b.Record(event, nowUTC())
	if err := h.Gateway.Save(r.Context(), []emission.Record{rec}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save batch", err)
		return
	}

	entries := make([]EntryDTO, 0, b.Len())
	for _, e := range b.Entries() {
		entries = append(entries, toEntryDTO(e))
	}
	h.Log.Info().Str("event", event).Str("source", string(d.Source)).
		Int("entries", b.Len()).Msg("batch saved")

	writeJSON(w, http.StatusCreated, BatchDTO{
		RecordID: rec.ID,
		Scope:    string(d.Scope),
		Source:   string(d.Source),
		Total:    f64(rec.Total),
		Entries:  entries,
	})
}

func (h *Handler) SaveMaterial(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var req SaveMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Quantity < 0 || req.Weight < 0 {
		writeError(w, http.StatusBadRequest, "Quantity must not be negative", emission.ErrInvalidQuantity)
		return
	}

	exists, err := h.eventExists(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check event", err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Event not registered", emission.ErrEventNotFound)
		return
	}

	weight := decimal.NewFromFloat(req.Weight)
	quantity := decimal.NewFromFloat(req.Quantity)

	item := req.Category
	var kgCO2e decimal.Decimal
	if req.Item != "" {
		item = req.Item
		kgCO2e = emission.KitItem(req.Item, weight, quantity)
	} else {
		kgCO2e = emission.Material(req.Category, weight, quantity)
	}

	rec := toRecord(event, emission.Scope3, emission.SourceMaterial, item, quantity, weight, kgCO2e)
	if err := h.Gateway.Save(r.Context(), []emission.Record{rec}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save material record", err)
		return
	}

	writeJSON(w, http.StatusCreated, CalcResponse{
		Category: item,
		Scope:    string(emission.Scope3),
		Emission: f64(kgCO2e),
	})
}

// =============================================================================
// LOGISTICS
// =============================================================================

func (h *Handler) estimate(ctx context.Context, req LogisticsRequest) (LogisticsResponse, int, error) {
	if h.Provider == nil {
		return LogisticsResponse{}, http.StatusServiceUnavailable,
			errors.New("no distance provider configured")
	}
	if req.WeightKg < 0 {
		return LogisticsResponse{}, http.StatusBadRequest, emission.ErrInvalidQuantity
	}

	mode := logistics.Mode(req.Mode)
	weight := decimal.NewFromFloat(req.WeightKg)

	distance, kgCO2e, err := logistics.Estimate(ctx, h.Provider, mode, req.Origin, req.Destination, weight)
	if err != nil {
		return LogisticsResponse{}, http.StatusBadGateway, err
	}

	// Comparison reuses the resolved distance for every mode, matching the
	// dashboard's side-by-side chart.
	resp := LogisticsResponse{
		Mode:       string(mode),
		DistanceKm: f64(distance),
		Emission:   f64(kgCO2e),
	}
	for _, m := range logistics.Modes() {
		resp.Comparison = append(resp.Comparison, ModeEmissionDTO{
			Mode:     string(m),
			Emission: f64(emission.Logistics(string(m), distance, weight)),
		})
	}
	return resp, http.StatusOK, nil
}

func (h *Handler) EstimateLogistics(w http.ResponseWriter, r *http.Request) {
	var req LogisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, status, err := h.estimate(r.Context(), req)
	if err != nil {
		writeError(w, status, "Failed to estimate logistics emission", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SaveLogistics(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var req LogisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	exists, err := h.eventExists(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check event", err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Event not registered", emission.ErrEventNotFound)
		return
	}

	resp, status, err := h.estimate(r.Context(), req)
	if err != nil {
		writeError(w, status, "Failed to estimate logistics emission", err)
		return
	}

	rec := toRecord(event, emission.Scope3, emission.SourceLogistics,
		req.Mode,
		decimal.NewFromFloat(resp.DistanceKm),
		decimal.NewFromFloat(req.WeightKg),
		decimal.NewFromFloat(resp.Emission))
	if err := h.Gateway.Save(r.Context(), []emission.Record{rec}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save logistics record", err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// =============================================================================
// ROLLUP
// =============================================================================

func (h *Handler) Rollup(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	records, err := h.Gateway.LoadAll(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	roll, err := rollup.Summarize(records)
	if errors.Is(err, emission.ErrMalformedRecord) {
		writeError(w, http.StatusBadRequest, "Malformed record in store", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize", err)
		return
	}

	writeJSON(w, http.StatusOK, toRollupDTO(event, roll))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
