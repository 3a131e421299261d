/*
handlers.go - HTTP API handlers for the savings engine

PURPOSE:
  Exposes accounts over REST. Handles HTTP request/response and JSON, and
  delegates every rule to the account package.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                   List accounts
    POST   /api/accounts                   Create account from JSON
    GET    /api/accounts/{id}              Account details and balance
    GET    /api/accounts/{id}/summary      Summary (?as_of=YYYY-MM-DD)
    GET    /api/accounts/{id}/allowance    Deposit room (?date=YYYY-MM-DD)

  Mutations:
    POST   /api/accounts/{id}/deposits     {date, amount}
    POST   /api/accounts/{id}/withdrawals  {date, amount}
    POST   /api/accounts/{id}/schedules    {from, to, day_of_month, amount}

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    GET    /api/scenarios/current          Currently loaded scenario
    POST   /api/scenarios/load             Load a demo scenario

ARCHITECTURE:
  Handler holds the registry, the account factory and a logger. Every
  account operation runs under the account's own lock (Entry.With) inside
  a span tagged with the account id and variant, and is counted in the
  savings_* metrics.

ERROR HANDLING:
  Errors are returned as JSON with an HTTP status taken from the account
  error category:
  - 400: Malformed body, bad date, negative amount, bad day of month,
         invalid configuration, unknown variant
  - 404: Account not found
  - 409: Duplicate account id
  - 422: Cap exceeded, overdraw, operation not supported by the variant
  - 500: Anything else

  Rejected mutations are logged at Info. 500s are logged at Error.

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - registry.go: Account table and per-account locking
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/warp/savings-engine/account"
	"github.com/warp/savings-engine/calendar"
	"github.com/warp/savings-engine/factory"
	"github.com/warp/savings-engine/logging"
	"github.com/warp/savings-engine/metrics"
	"github.com/warp/savings-engine/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation names, used for spans, metrics and logs.
const (
	opCreate   = "create"
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opSchedule = "schedule"
	opSummary  = "summary"
	opAllow    = "allowance"
)

// errBadRequest marks request-shape problems found before the account is
// touched.
var errBadRequest = errors.New("bad request")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *Registry
	Factory  *factory.AccountFactory
	Log      *logging.Logger

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler with an empty registry.
func NewHandler(log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{
		Registry: NewRegistry(),
		Factory:  factory.NewAccountFactory(),
		Log:      log.WithComponent("api"),
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts, oldest first.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	entries := h.Registry.List()
	dtos := make([]AccountDTO, 0, len(entries))
	for _, e := range entries {
		_ = e.With(func(acc account.Account) error {
			dtos = append(dtos, toAccountDTO(h.Factory, e, acc))
			return nil
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAccount creates an account from an AccountJSON body.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx, span := tracing.Tracer.Start(r.Context(), "account."+opCreate,
		trace.WithAttributes(attribute.String("account.variant", req.Variant)))
	defer span.End()

	acc, err := h.Factory.FromJSON(req)
	if err != nil {
		h.fail(ctx, w, span, variantLabel(req.Variant), opCreate, err)
		return
	}
	e, err := h.Registry.Add(req.ID, acc)
	if err != nil {
		h.fail(ctx, w, span, string(acc.Variant()), opCreate, err)
		return
	}
	span.SetAttributes(attribute.String("account.id", e.ID))
	metrics.RecordMutation(string(acc.Variant()), opCreate, metrics.OutcomeOK)
	h.Log.InfoContext(ctx, "account created",
		logging.FieldAccountID, e.ID,
		logging.FieldVariant, string(acc.Variant()),
	)

	var dto AccountDTO
	_ = e.With(func(acc account.Account) error {
		dto = toAccountDTO(h.Factory, e, acc)
		return nil
	})
	writeJSON(w, http.StatusCreated, dto)
}

// GetAccount returns one account with its balance as of its latest
// principal transaction.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	e, err := h.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Account not found", err)
		return
	}

	var dto AccountDTO
	_ = e.With(func(acc account.Account) error {
		dto = toAccountDTO(h.Factory, e, acc)
		return nil
	})
	writeJSON(w, http.StatusOK, dto)
}

// GetSummary returns the account summary. as_of defaults to the latest
// principal transaction date.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	asOf, err := optionalDate(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	var summary account.Summary
	h.withAccount(w, r, opSummary, func(ctx context.Context, acc account.Account) error {
		summary = acc.Summarize(asOf)
		metrics.RecordSummary(string(acc.Variant()), summary.DaysSimulated)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("summary.days_simulated", summary.DaysSimulated),
			attribute.String("summary.as_of", summary.AsOf.String()),
		)
		return nil
	}, func(w http.ResponseWriter) {
		writeJSON(w, http.StatusOK, summary)
	})
}

// GetAllowance returns the remaining fiscal-year deposit room of a capped
// account on the given date.
func (h *Handler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	date, err := optionalDate(r, "date")
	if err != nil || date == nil {
		if err == nil {
			err = fmt.Errorf("%w: date is required", errBadRequest)
		}
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	id := chi.URLParam(r, "id")
	var dto AllowanceDTO
	h.withAccount(w, r, opAllow, func(ctx context.Context, acc account.Account) error {
		allowance, ok := acc.(account.DepositAllowance)
		if !ok {
			return fmt.Errorf("%s account has no deposit allowance: %w", acc.Variant(), account.ErrUnsupportedOperation)
		}
		fy := calendar.FiscalYearOf(*date)
		dto = AllowanceDTO{
			AccountID:        id,
			Date:             *date,
			FiscalYearStart:  fy.Start,
			FiscalYearEnd:    fy.End,
			AnnualDepositCap: allowance.AnnualDepositCap(),
			Remaining:        allowance.RemainingAllowance(*date),
		}
		return nil
	}, func(w http.ResponseWriter) {
		writeJSON(w, http.StatusOK, dto)
	})
}

// =============================================================================
// MUTATION HANDLERS
// =============================================================================

// Deposit records a deposit.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req MovementRequest
	if err := decodeMovement(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.mutate(w, r, opDeposit, func(acc account.Account) error {
		return acc.Deposit(req.Date, req.Amount)
	})
}

// Withdraw records a withdrawal.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req MovementRequest
	if err := decodeMovement(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.mutate(w, r, opWithdraw, func(acc account.Account) error {
		return acc.Withdraw(req.Date, req.Amount)
	})
}

// ScheduleDeposits records a monthly deposit schedule.
func (h *Handler) ScheduleDeposits(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.From.IsZero() || req.To.IsZero() {
		writeError(w, http.StatusBadRequest, "Invalid request body", fmt.Errorf("%w: from and to are required", errBadRequest))
		return
	}
	h.mutate(w, r, opSchedule, func(acc account.Account) error {
		return acc.ScheduleRecurringDeposit(req.From, req.To, req.DayOfMonth, req.Amount)
	})
}

// mutate runs one account mutation and acknowledges it with 201.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, operation string, fn func(account.Account) error) {
	id := chi.URLParam(r, "id")
	h.withAccount(w, r, operation, func(ctx context.Context, acc account.Account) error {
		err := fn(acc)
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeRejected
			if statusFor(err) == http.StatusInternalServerError {
				outcome = metrics.OutcomeError
			}
		}
		metrics.RecordMutation(string(acc.Variant()), operation, outcome)
		return err
	}, func(w http.ResponseWriter) {
		writeJSON(w, http.StatusCreated, MutationDTO{AccountID: id, Operation: operation, Status: "recorded"})
	})
}

// withAccount looks the account up, runs fn under its lock inside a span,
// and either writes the error or calls ok.
func (h *Handler) withAccount(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	fn func(ctx context.Context, acc account.Account) error,
	ok func(w http.ResponseWriter),
) {
	id := chi.URLParam(r, "id")
	ctx, span := tracing.Tracer.Start(r.Context(), "account."+operation,
		trace.WithAttributes(attribute.String("account.id", id)))
	defer span.End()

	e, err := h.Registry.Get(id)
	if err != nil {
		h.fail(ctx, w, span, "", operation, err)
		return
	}

	var variant string
	err = e.With(func(acc account.Account) error {
		variant = string(acc.Variant())
		span.SetAttributes(attribute.String("account.variant", variant))
		return fn(ctx, acc)
	})
	if err != nil {
		h.fail(ctx, w, span, variant, operation, err)
		return
	}
	ok(w)
}

// fail records err on the span, logs it and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, span trace.Span, variant, operation string, err error) {
	status := statusFor(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	log := h.Log.With(
		logging.FieldAccountID, chi.URLParamFromCtx(ctx, "id"),
		logging.FieldVariant, variant,
		logging.FieldOperation, operation,
		logging.FieldError, err.Error(),
	)
	if status == http.StatusInternalServerError {
		log.ErrorContext(ctx, "account operation failed")
	} else {
		log.InfoContext(ctx, "account operation rejected")
	}

	if operation == opCreate {
		metrics.RecordMutation(variant, opCreate, metrics.OutcomeRejected)
	}
	writeError(w, status, errorMessage(status), err)
}

// =============================================================================
// HELPERS
// =============================================================================

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateID):
		return http.StatusConflict
	case account.IsRuleViolation(err):
		return http.StatusUnprocessableEntity
	case account.IsClientError(err), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Account not found"
	case http.StatusConflict:
		return "Account already exists"
	case http.StatusUnprocessableEntity:
		return "Operation refused by account rules"
	case http.StatusBadRequest:
		return "Invalid request"
	default:
		return "Internal error"
	}
}

// variantLabel keeps metric labels to the known variants.
func variantLabel(raw string) string {
	if raw == "" {
		return string(account.Unrestricted)
	}
	v, err := account.ParseVariant(raw)
	if err != nil {
		return "unknown"
	}
	return string(v)
}

func decodeMovement(r *http.Request, req *MovementRequest) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return err
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", errBadRequest)
	}
	return nil
}

// optionalDate reads a YYYY-MM-DD query parameter. Absent means nil.
func optionalDate(r *http.Request, name string) (*calendar.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

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
