package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	JWTSecret []byte
	Logger    logrus.FieldLogger
}

// NewRouter builds the HTTP API. Every route under /api requires a bearer token;
// write routes are recorded in the activity log.
func NewRouter(service BackOffice, cfg RouterConfig) http.Handler {
	h := NewHandler(service, cfg.Logger)
	monitor := func(action domain.Action, handler string) func(http.Handler) http.Handler {
		return Monitor(service, cfg.Logger, action, handler)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(recoverer(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(cfg.JWTSecret))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.With(monitor(domain.ActionCreateCustomer, "createCustomer")).Post("/", h.createCustomer)
			r.Get("/{id}", h.getCustomer)
			r.With(monitor(domain.ActionUpdateCustomer, "updateCustomer")).Put("/{id}", h.updateCustomer)
			r.With(monitor(domain.ActionDeleteCustomer, "deleteCustomer")).Delete("/{id}", h.deleteCustomer)
		})

		r.Route("/accounttypes", func(r chi.Router) {
			r.Get("/", h.listAccountTypes)
			r.With(monitor(domain.ActionCreateAccountType, "createAccountType")).Post("/", h.createAccountType)
			r.Get("/{id}", h.getAccountType)
			r.With(monitor(domain.ActionUpdateAccountType, "updateAccountType")).Put("/{id}", h.updateAccountType)
			r.With(monitor(domain.ActionDeleteAccountType, "deleteAccountType")).Delete("/{id}", h.deleteAccountType)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.listAccounts)
			r.With(monitor(domain.ActionCreateAccount, "createAccount")).Post("/", h.createAccount)
			r.With(monitor(domain.ActionRunInterest, "runInterest")).Post("/interest", h.runInterest)
			r.Get("/{id}", h.getAccount)
			r.With(monitor(domain.ActionUpdateAccount, "updateAccount")).Put("/{id}", h.updateAccount)
			r.With(monitor(domain.ActionDeleteAccount, "deleteAccount")).Delete("/{id}", h.deleteAccount)
			r.With(monitor(domain.ActionGenerateIBAN, "generateIBAN")).Post("/{id}/generate", h.generateIBAN)
			r.Get("/{id}/operations", h.listOperations)
			r.With(monitor(domain.ActionPostOperation, "postOperation")).Post("/{id}/operations", h.postOperation)
		})

		r.Route("/parameters", func(r chi.Router) {
			r.Get("/", h.listParameters)
			r.Get("/{id}", h.getParameter)
			r.With(monitor(domain.ActionUpdateParameter, "updateParameter")).Put("/{id}", h.updateParameter)
		})

		r.Get("/monitoring", h.listActivity)
	})

	return r
}
