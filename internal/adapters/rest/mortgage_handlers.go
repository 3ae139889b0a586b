package rest

import (
	"encoding/json"
	"fmt"
	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type MortgageHandler struct {
	calculateUC        usecases_port.CalculateMortgageUseCase
	rateInputUC        usecases_port.RateInputUseCase
	propertyMortgageUC usecases_port.GetPropertyMortgageUseCase
}

func NewMortgageHandler(
	calculateUC usecases_port.CalculateMortgageUseCase,
	rateInputUC usecases_port.RateInputUseCase,
	propertyMortgageUC usecases_port.GetPropertyMortgageUseCase,
) *MortgageHandler {
	return &MortgageHandler{
		calculateUC:        calculateUC,
		rateInputUC:        rateInputUC,
		propertyMortgageUC: propertyMortgageUC,
	}
}

// decodeMortgageRequest читает тело; цена должна быть положительной, иначе калькулятор не показывается.
func decodeMortgageRequest(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (MortgageRequest, bool) {
	var req MortgageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode mortgage request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.Principal <= 0 {
		WriteJSONError(w, http.StatusUnprocessableEntity, "Field 'principal' must be positive")
		return req, false
	}
	return req, true
}

// Calculate - POST /api/v1/mortgage/calculate
func (h *MortgageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CalculateMortgage"})

	req, ok := decodeMortgageRequest(w, r, logger)
	if !ok {
		return
	}
	calc := h.calculateUC.Execute(r.Context(), req.toDomain())
	RespondWithJSON(w, http.StatusOK, toCalculationResponse(calc))
}

// Schedule - POST /api/v1/mortgage/schedule
func (h *MortgageHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MortgageSchedule"})

	req, ok := decodeMortgageRequest(w, r, logger)
	if !ok {
		return
	}
	calc := h.calculateUC.Schedule(r.Context(), req.toDomain())
	RespondWithJSON(w, http.StatusOK, toCalculationResponse(calc))
}

// ExportSchedule - POST /api/v1/mortgage/schedule.xlsx
func (h *MortgageHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ExportMortgageSchedule"})

	req, ok := decodeMortgageRequest(w, r, logger)
	if !ok {
		return
	}
	file, err := h.calculateUC.Export(r.Context(), req.toDomain())
	if err != nil {
		logger.Error("Failed to export schedule", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to export schedule")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		logger.Error("Failed to write export body", err, nil)
	}
}

// RateInput - POST /api/v1/mortgage/rate-input
func (h *MortgageHandler) RateInput(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RateInput"})

	var req RateInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode rate input body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := h.rateInputUC.Keystroke(req.Previous, req.Typed)
	if req.Commit {
		result = h.rateInputUC.Commit(req.Typed)
	}
	RespondWithJSON(w, http.StatusOK, RateInputResponse(result))
}

// GetPropertyMortgage - GET /api/v1/properties/{propertyID}/mortgage
func (h *MortgageHandler) GetPropertyMortgage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetPropertyMortgage"})

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}

	params, err := parsePropertyMortgageParams(r)
	if err != nil {
		logger.Warn("Invalid mortgage query parameters", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.propertyMortgageUC.Execute(r.Context(), propertyID, params)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyMortgageResponse(quote))
}

func parsePropertyMortgageParams(r *http.Request) (usecases_port.PropertyMortgageParams, error) {
	q := r.URL.Query()
	params := usecases_port.PropertyMortgageParams{
		DownPaymentPercent:        constants.DefaultDownPaymentPercent,
		TenorYears:                constants.DefaultTenorYears,
		AnnualInterestRatePercent: constants.DefaultInterestRate,
	}

	if v := q.Get("down_payment_percent"); v != "" {
		dp, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("invalid 'down_payment_percent': %q", v)
		}
		params.DownPaymentPercent = dp
	}
	if v := q.Get("tenor_years"); v != "" {
		tenor, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("invalid 'tenor_years': %q", v)
		}
		params.TenorYears = tenor
	}
	if v := q.Get("interest_rate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, fmt.Errorf("invalid 'interest_rate': %q", v)
		}
		params.AnnualInterestRatePercent = rate
	}
	return params, nil
}
