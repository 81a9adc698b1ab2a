package rest

import (
	"log/slog"
	"net/http"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/application/usecase"
	"github.com/tandaclub/tanda/pkg/auth"
)

// LoanHandler exposes the loan lifecycle operations over REST.
type LoanHandler struct {
	requestLoan     *usecase.RequestLoanUseCase
	decideLoan      *usecase.DecideLoanUseCase
	registerPayment *usecase.RegisterPaymentUseCase
	markLoanPaid    *usecase.MarkLoanPaidUseCase
	getLoan         *usecase.GetLoanUseCase
	listLoans       *usecase.ListLoansUseCase
	logger          *slog.Logger
}

// NewLoanHandler wires the loan usecases into an HTTP handler.
func NewLoanHandler(
	requestLoan *usecase.RequestLoanUseCase,
	decideLoan *usecase.DecideLoanUseCase,
	registerPayment *usecase.RegisterPaymentUseCase,
	markLoanPaid *usecase.MarkLoanPaidUseCase,
	getLoan *usecase.GetLoanUseCase,
	listLoans *usecase.ListLoansUseCase,
	logger *slog.Logger,
) *LoanHandler {
	return &LoanHandler{
		requestLoan:     requestLoan,
		decideLoan:      decideLoan,
		registerPayment: registerPayment,
		markLoanPaid:    markLoanPaid,
		getLoan:         getLoan,
		listLoans:       listLoans,
		logger:          logger,
	}
}

// RegisterRoutes attaches the loan routes to the given mux.
func (h *LoanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/loans", h.request)
	mux.HandleFunc("GET /api/v1/loans", h.list)
	mux.HandleFunc("GET /api/v1/loans/{id}", h.get)
	mux.HandleFunc("GET /api/v1/members/{member_id}/loans", h.listByMember)
	mux.HandleFunc("POST /api/v1/loans/{id}/approve", h.approve)
	mux.HandleFunc("POST /api/v1/loans/{id}/reject", h.reject)
	mux.HandleFunc("POST /api/v1/loans/{id}/payments", h.registerPaymentWeek)
	mux.HandleFunc("POST /api/v1/loans/{id}/settle", h.settle)
}

func (h *LoanHandler) request(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	// Loans are always requested for the authenticated member.
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		req.MemberID = claims.UserID.String()
	}

	resp, err := h.requestLoan.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LoanHandler) list(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listLoans.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) listByMember(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listLoans.ByMember(r.Context(), r.PathValue("member_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getLoan.Execute(r.Context(), dto.GetLoanRequest{LoanID: r.PathValue("id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *LoanHandler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *LoanHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	req := dto.DecideLoanRequest{
		LoanID:        r.PathValue("id"),
		Approve:       approve,
		RequesterRole: requesterRole(r),
	}

	resp, err := h.decideLoan.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) registerPaymentWeek(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.LoanID = r.PathValue("id")

	resp, err := h.registerPayment.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) settle(w http.ResponseWriter, r *http.Request) {
	req := dto.MarkLoanPaidRequest{
		LoanID:        r.PathValue("id"),
		RequesterRole: requesterRole(r),
	}

	resp, err := h.markLoanPaid.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requesterRole(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.HasRole(auth.RoleAdmin) {
		return auth.RoleAdmin
	}
	return auth.RoleMember
}
