package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Invalid id.")
	}
	return id, nil
}

// parsePage reads limit and offset.
func parsePage(r *http.Request) (domain.Page, error) {
	page := domain.Page{Limit: defaultPageSize}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return page, errors.New("limit: A positive integer is required.")
		}
		page.Limit = min(n, maxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, errors.New("offset: A non-negative integer is required.")
		}
		page.Offset = n
	}
	return page, nil
}

// parseOrdering accepts "field" and "-field".
func parseOrdering(r *http.Request, field string) (desc bool, err error) {
	switch r.URL.Query().Get("ordering") {
	case "", field:
		return false, nil
	case "-" + field:
		return true, nil
	default:
		return false, fmt.Errorf("ordering: Only %q and %q are supported.", field, "-"+field)
	}
}

func parseDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%s: Date has wrong format. Use YYYY-MM-DD.", name)
	}
	return &d, nil
}

func parseOperationFilter(r *http.Request) (domain.OperationFilter, error) {
	var filter domain.OperationFilter
	page, err := parsePage(r)
	if err != nil {
		return filter, err
	}
	filter.Page = page

	q := r.URL.Query()
	if v := q.Get("type_operation"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("type_operation: A valid integer is required.")
		}
		t := domain.OperationType(n)
		filter.Type = &t
	}
	if v := q.Get("value_operation"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("value_operation: A valid number is required.")
		}
		filter.Value = &d
	}
	if filter.Date, err = parseDate(r, "operation_date"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseLogFilter(r *http.Request) (domain.LogFilter, error) {
	var filter domain.LogFilter
	page, err := parsePage(r)
	if err != nil {
		return filter, err
	}
	filter.Page = page
	if filter.Date, err = parseDate(r, "date_log"); err != nil {
		return filter, err
	}
	filter.User = r.URL.Query().Get("user_log")
	filter.Status = r.URL.Query().Get("status_log")
	return filter, nil
}
