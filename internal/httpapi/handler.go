package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// Handler serves the back-office REST API.
type Handler struct {
	service  BackOffice
	logger   logrus.FieldLogger
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service BackOffice, logger logrus.FieldLogger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: newValidator(),
	}
}

// Customers

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	desc, err := parseOrdering(r, "last_name")
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, count, err := h.service.ListCustomers(r.Context(), domain.CustomerFilter{
		Search:   r.URL.Query().Get("search"),
		LastName: r.URL.Query().Get("last_name"),
		Desc:     desc,
		Page:     page,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[CustomerResponse]{
		Count:   count,
		Results: mapSlice(customers, newCustomerResponse),
	})
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	customer, err := h.service.CreateCustomer(r.Context(), req.toInput(), EmployeeFromContext(r.Context()))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCustomerResponse(customer))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrCustomerNotFound.Message)
		return
	}
	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCustomerResponse(customer))
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrCustomerNotFound.Message)
		return
	}
	var req CustomerRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	customer, err := h.service.UpdateCustomer(r.Context(), id, req.toInput())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCustomerResponse(customer))
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrCustomerNotFound.Message)
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Customer has been deleted."})
}

// Account types

func (h *Handler) listAccountTypes(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	desc, err := parseOrdering(r, "code")
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	types, count, err := h.service.ListAccountTypes(r.Context(), domain.AccountTypeFilter{
		Search: r.URL.Query().Get("search"),
		Desc:   desc,
		Page:   page,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[AccountTypeResponse]{
		Count:   count,
		Results: mapSlice(types, newAccountTypeResponse),
	})
}

func (h *Handler) createAccountType(w http.ResponseWriter, r *http.Request) {
	var req AccountTypeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	accountType, err := h.service.CreateAccountType(r.Context(), domain.AccountTypeInput{
		Code:        req.Code,
		Description: req.Description,
		Subaccount:  req.Subaccount,
		Percent:     req.Percent,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAccountTypeResponse(accountType))
}

func (h *Handler) getAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountTypeNotFound.Message)
		return
	}
	accountType, err := h.service.GetAccountType(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountTypeResponse(accountType))
}

func (h *Handler) updateAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountTypeNotFound.Message)
		return
	}
	var req AccountTypeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	accountType, err := h.service.UpdateAccountType(r.Context(), id, domain.AccountTypeUpdate{
		Description: req.Description,
		Subaccount:  req.Subaccount,
		Percent:     req.Percent,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountTypeResponse(accountType))
}

func (h *Handler) deleteAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrAccountTypeNotFound.Message)
		return
	}
	if err := h.service.DeleteAccountType(r.Context(), id); err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account type has been deleted."})
}

// Parameters

func (h *Handler) listParameters(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.ListParameters(r.Context())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[ParameterResponse]{
		Count:   len(params),
		Results: mapSlice(params, newParameterResponse),
	})
}

func (h *Handler) getParameter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrParameterNotFound.Message)
		return
	}
	param, err := h.service.GetParameter(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newParameterResponse(param))
}

func (h *Handler) updateParameter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendErrorResponse(w, http.StatusNotFound, domain.ErrParameterNotFound.Message)
		return
	}
	var req ParameterRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	param, err := h.service.UpdateParameter(r.Context(), id, domain.ParameterInput{
		CountryCode: req.CountryCode,
		BankNumber:  req.BankNumber,
	})
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newParameterResponse(param))
}

// Monitoring

func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLogFilter(r)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, count, err := h.service.ListActivity(r.Context(), filter)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[LogEntryResponse]{
		Count:   count,
		Results: mapSlice(entries, newLogEntryResponse),
	})
}
