package httpapi

import (
	"net/http"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	accounts, count, err := h.service.ListAccounts(r.Context(), domain.AccountFilter{
		NumberIBAN: r.URL.Query().Get("number_iban"),
		Page:       page,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[AccountResponse]{
		Count:   count,
		Results: mapSlice(accounts, newAccountResponse),
	})
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	account, err := h.service.CreateAccount(r.Context(), domain.CreateAccountInput{
		Debit:         req.Debit,
		Percent:       req.Percent,
		AccountTypeID: req.AccountTypeID,
		CustomerID:    req.CustomerID,
	}, EmployeeFromContext(r.Context()))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountNotFound.Message)
		return
	}
	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountNotFound.Message)
		return
	}
	var req UpdateAccountRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	account, err := h.service.UpdateAccount(r.Context(), id, domain.UpdateAccountInput{
		Debit:   req.Debit,
		Percent: req.Percent,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountNotFound.Message)
		return
	}
	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account has been deleted."})
}

// generateIBAN assigns an IBAN once. Repeated calls leave the account unchanged and
// only report that the IBAN exists.
func (h *Handler) generateIBAN(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountNotFound.Message)
		return
	}
	account, generated, err := h.service.GenerateIBAN(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	if !generated {
		writeJSON(w, http.StatusOK, MessageResponse{Message: domain.ErrIBANExists.Message})
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *Handler) postOperation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountNotFound.Message)
		return
	}
	var req OperationRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	account, err := h.service.PostOperation(r.Context(), id, domain.OperationInput{
		Type:  domain.OperationType(req.TypeOperation),
		Value: req.ValueOperation,
	}, EmployeeFromContext(r.Context()))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *Handler) listOperations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountNotFound.Message)
		return
	}
	filter, err := parseOperationFilter(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	operations, count, err := h.service.ListOperations(r.Context(), id, filter)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[OperationResponse]{
		Count:   count,
		Results: mapSlice(operations, newOperationResponse),
	})
}

func (h *Handler) runInterest(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RunInterest(r.Context(), EmployeeFromContext(r.Context()))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InterestResponse{Message: result.Message(), Count: result.Count})
}
