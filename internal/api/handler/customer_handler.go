package handler

import (
	"log/slog"
	"net/http"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service     customer.CustomerService
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, ls loan.LoanService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if ls == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service:     s,
		loanService: ls,
		logger:      l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /v1/customers
// @Summary Onboard a new customer
// @Description Registers a customer and assigns a credit line based on age at onboarding.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer onboarding request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully onboarded"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or age outside the accepted range"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid bearer token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, r, malformedBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	created, err := h.service.Onboard(r.Context(), req.ToOnboardRequest())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to onboard customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	resp := dto.NewCustomerResponse(created)
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", resp.ID))
	w.Header().Set("Location", "/v1/customers/"+resp.ID)
	respondJSON(w, http.StatusCreated, resp)
}

// GetCustomer handles GET /v1/customers/{customerID}
// @Summary Retrieve customer details
// @Description Returns the customer with the assigned and available credit line.
// @Tags Customers
// @Produce json
// @Param customerID path string true "Customer ID" Format(uuid)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidFromURL(r, "customerID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	found, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if apperrors.KindOf(err) == apperrors.KindInternal {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(found))
}

// ListCustomerLoans handles GET /v1/customers/{customerID}/loans
// @Summary List customer loans
// @Description Returns every loan of the customer, newest first, with its payment plan.
// @Tags Customers
// @Produce json
// @Param customerID path string true "Customer ID" Format(uuid)
// @Success 200 {array} dto.LoanResponse "Loans of the customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/loans [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomerLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidFromURL(r, "customerID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	loans, err := h.loanService.ListCustomerLoans(r.Context(), customerID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to list customer loans", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(loans))
}
