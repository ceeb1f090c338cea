package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	"github.com/AlibekovAA/user-registry/internal/common/dates"
	commonhttp "github.com/AlibekovAA/user-registry/internal/common/http"
	"github.com/AlibekovAA/user-registry/internal/common/jwtverify"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
	"github.com/AlibekovAA/user-registry/internal/user/service"
	"github.com/AlibekovAA/user-registry/internal/user/service/dto"
)

type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.User, error)
	UpdateUser(ctx context.Context, req dto.UpdateUserRequest) error
	DeleteUserByID(ctx context.Context, id domain.ID) error
	FindUsersByBirthDateRange(ctx context.Context, from, to dates.Date) (dto.UsersByBirthDateRange, error)
}

type createUserRequest struct {
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	BirthDate   dates.Date `json:"birthDate"`
	Address     string     `json:"address"`
	PhoneNumber string     `json:"phoneNumber"`
}

type updateUserRequest struct {
	ID int64 `json:"id"`
	createUserRequest
}

type Options struct {
	RequestTimeout time.Duration
	JWTSecret      string
	RateLimiter    *commonhttp.RateLimiter
	HealthChecks   []commonhttp.HealthCheck
	MetricsHandler http.Handler
	Clock          clock.Clock
}

type Handler struct {
	users  UserService
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(users UserService, log *logger.Logger, opts Options) http.Handler {
	h := &Handler{
		users:  users,
		errors: commonhttp.NewErrorHandler(log, opts.Clock),
		log:    log,
	}

	r := chi.NewRouter()
	r.NotFound(h.errors.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return commonhttp.ErrRouteNotFound
	}))
	r.MethodNotAllowed(h.errors.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return commonhttp.ErrMethodNotAllowed
	}))

	r.Get("/health", commonhttp.HealthHandler(log, opts.HealthChecks...))
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/users", func(r chi.Router) {
		r.Use(jwtverify.RequireForWrites(opts.JWTSecret, log))
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware())
		}
		r.Use(commonhttp.WithTimeout(opts.RequestTimeout))

		r.Post("/", h.errors.Wrap(h.createUser))
		r.Put("/", h.errors.Wrap(h.updateUser))
		r.Delete("/{id}", h.errors.Wrap(h.deleteUser))
		r.Get("/list/by-birth-date-range", h.errors.Wrap(h.findByBirthDateRange))
	})

	return r
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) error {
	var req createUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "create_user_invalid_json",
		}).Warnf("create user failed: invalid json: %v", err)
		return err
	}

	if _, err := h.users.CreateUser(r.Context(), req.toDTO()); err != nil {
		return err
	}

	w.WriteHeader(http.StatusCreated)
	return nil
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) error {
	var req updateUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "update_user_invalid_json",
		}).Warnf("update user failed: invalid json: %v", err)
		return err
	}

	base := req.toDTO()
	err := h.users.UpdateUser(r.Context(), dto.UpdateUserRequest{
		ID:          domain.ID(req.ID),
		Email:       base.Email,
		FirstName:   base.FirstName,
		LastName:    base.LastName,
		BirthDate:   base.BirthDate,
		Address:     base.Address,
		PhoneNumber: base.PhoneNumber,
	})
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return commonhttp.ErrInvalidUserID.WithCause(fmt.Errorf("id %q", raw))
	}

	if err := h.users.DeleteUserByID(r.Context(), domain.ID(id)); err != nil {
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

func (h *Handler) findByBirthDateRange(w http.ResponseWriter, r *http.Request) error {
	from, err := parseDateParam(r, "from")
	if err != nil {
		return err
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		return err
	}

	result, err := h.users.FindUsersByBirthDateRange(r.Context(), from, to)
	if err != nil {
		return err
	}

	commonhttp.WriteJSON(w, http.StatusOK, result)
	return nil
}

// parseDateParam returns a zero Date for an absent parameter and leaves the
// missing-bound decision to the service.
func parseDateParam(r *http.Request, name string) (dates.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return dates.Date{}, nil
	}
	d, err := dates.Parse(raw)
	if err != nil {
		return dates.Date{}, service.ErrInvalidDateRange.
			WithMessage(fmt.Sprintf("Invalid '%s' date: %s. Expected format YYYY-MM-DD.", name, raw)).
			WithCause(err)
	}
	return d, nil
}

func (req createUserRequest) toDTO() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   req.BirthDate.Time,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
}
