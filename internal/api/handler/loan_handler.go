package handler

import (
	"log/slog"
	"net/http"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/loan"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles POST /v1/loans
//
// @Summary Originate a loan
// @Description Debits the customer's available credit line and creates a loan with its installment plan.
// @Tags Loans
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client supplied key; a repeated key is rejected with 409"
// @Param request body dto.CreateLoanRequest true "Loan origination request"
// @Success 201 {object} dto.LoanResponse "Loan successfully originated"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or insufficient credit line"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update or duplicate request"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, r, malformedBody(err))
		return
	}
	customerID, err := req.Validate()
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := h.service.Originate(r.Context(), customerID, req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := dto.NewLoanResponse(created)
	w.Header().Set("Location", "/v1/loans/"+resp.ID)
	respondJSON(w, http.StatusCreated, resp)
}

// GetLoan handles GET /v1/loans/{loanID}
//
// @Summary Retrieve a loan
// @Description Returns the loan with its payment plan.
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Success 200 {object} dto.LoanResponse "Loan details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID format"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	found, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(found))
}
