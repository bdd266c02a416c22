package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type indexPage struct {
	Transactions []core.Transaction
	Budget       core.BudgetStatus
}

type formPage struct {
	Title  string
	Action string
	Form   TransactionForm
	Error  string
	Types  []core.TransactionType
}

type summaryPage struct {
	Summary core.Summary
	Budget  core.BudgetStatus
}

var formTypes = []core.TransactionType{core.Expense, core.Income}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Overview(r.Context())
	if err != nil {
		s.handleError(w, r, err, log.OpList)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", indexPage{
		Transactions: ov.Transactions,
		Budget:       ov.Budget,
	})
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "form.html", addPage(TransactionForm{
		Date: s.svc.Today(),
		Type: string(core.Expense),
	}, ""))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, err := ParseTransactionForm(r)
	if err != nil {
		BadRequestError("invalid form submission").Write(w)
		return
	}
	fields, err := form.Fields()
	if err != nil {
		s.rejectForm(w, r, addPage(form, err.Error()), err)
		return
	}
	if _, err := s.svc.Create(r.Context(), fields); err != nil {
		s.handleError(w, r, err, log.OpCreate)
		return
	}
	Redirect("/").Write(w)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(r)
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	t, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err, log.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "form.html", editPage(id, FormFromTransaction(t), ""))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(r)
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	form, err := ParseTransactionForm(r)
	if err != nil {
		BadRequestError("invalid form submission").Write(w)
		return
	}
	fields, err := form.Fields()
	if err != nil {
		s.rejectForm(w, r, editPage(id, form, err.Error()), err)
		return
	}
	if _, err := s.svc.Update(r.Context(), id, fields); err != nil {
		s.handleError(w, r, err, log.OpUpdate)
		return
	}
	Redirect("/").Write(w)
}

// handleDelete is idempotent: an unknown id still redirects home.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	id, ok := ParseID(r)
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	if _, err := s.svc.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err, log.OpDelete)
		return
	}
	Redirect("/").Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.handleError(w, r, err, log.OpSummary)
		return
	}
	budget, err := s.svc.Budget(r.Context())
	if err != nil {
		s.handleError(w, r, err, log.OpBudget)
		return
	}
	s.render(w, r, http.StatusOK, "summary.html", summaryPage{Summary: sum, Budget: budget})
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().BodyJSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady reports whether templates are loaded and the store is readable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if _, err := s.svc.List(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewResponse().Status(httpStatus).BodyJSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func addPage(form TransactionForm, errMsg string) formPage {
	return formPage{Title: "Add transaction", Action: "/add", Form: form, Error: errMsg, Types: typeOptions(form.Type)}
}

func editPage(id int, form TransactionForm, errMsg string) formPage {
	return formPage{
		Title:  "Edit transaction",
		Action: "/edit/" + strconv.Itoa(id),
		Form:   form,
		Error:  errMsg,
		Types:  typeOptions(form.Type),
	}
}

// typeOptions lists the selectable types, keeping a stored type outside
// formTypes so saving the form does not rewrite it.
func typeOptions(current string) []core.TransactionType {
	for _, t := range formTypes {
		if string(t) == current {
			return formTypes
		}
	}
	if current == "" {
		return formTypes
	}
	return append([]core.TransactionType{core.TransactionType(current)}, formTypes...)
}

// rejectForm shows the submitted form again with the validation message.
func (s *Server) rejectForm(w http.ResponseWriter, r *http.Request, page formPage, err error) {
	log.FromContext(r.Context()).InfoContext(r.Context(), "Rejected transaction form",
		log.FieldErrorType, log.ErrorTypeValidation,
		log.FieldError, err)
	s.render(w, r, errorStatus(err), "form.html", page)
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var verr *core.ValidationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := errorStatus(err)
	switch status {
	case http.StatusNotFound:
		NotFoundError("transaction not found").Write(w)
	case http.StatusUnprocessableEntity:
		ErrorResponse(status, err.Error()).Write(w)
	default:
		errType := log.ErrorTypeStorage
		var perr *core.ParseError
		if errors.As(err, &perr) {
			errType = log.ErrorTypeParse
		}
		log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), "Request failed", err, op,
			log.LogFields{log.FieldErrorType: errType})
		InternalServerError("internal error").Write(w)
	}
}

// render buffers the page so a template error can still answer 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.events.LogError(r.Context(), "Template render failed", err, log.OpRender, log.LogFields{"template": name, log.FieldErrorType: log.ErrorTypeInternal})
		InternalServerError("internal error").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.String()).Write(w)
}
