// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/middleware"
	"github.com/dramirezb/cinemateca/internal/platform/request"
	"github.com/dramirezb/cinemateca/internal/platform/respond"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// birthdayLayout is the wire format of the birthday form field.
const birthdayLayout = "2006-01-02"

// Handler implements the user administration HTTP endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the user endpoints.
//
// Listing and creating accounts is admin-only; the per-id routes accept
// the owner or an admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Get("/", handler.listUsers)
		admin.Post("/", handler.createUser)
	})

	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth())

		owner.Get("/{id}", handler.getUser)
		owner.Patch("/{id}", handler.updateUser)
		owner.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// authorizeOwnerOrAdmin rejects callers that are neither the target
// user nor an admin.
func authorizeOwnerOrAdmin(httpRequest *http.Request, targetID string) error {
	claims, err := request.RequiredClaims(httpRequest)
	if err != nil {
		return err
	}
	if claims.UserID != targetID && !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You may only manage your own account")
	}
	return nil
}

func (handler *Handler) listUsers(writer http.ResponseWriter, httpRequest *http.Request) {
	page := pagination.FromRequest(httpRequest)

	users, meta, err := handler.service.ListUsers(httpRequest.Context(), page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Users retrieved successfully", users, meta)
}

func (handler *Handler) getUser(writer http.ResponseWriter, httpRequest *http.Request) {
	id := request.Param(httpRequest, "id")

	if err := authorizeOwnerOrAdmin(httpRequest, id); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	user, err := handler.service.GetUser(httpRequest.Context(), id)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "User retrieved successfully", user)
}

func (handler *Handler) createUser(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := CreateUserInput{
		FirstName: form.String("firstName"),
		LastName:  form.String("lastName"),
		Email:     form.String("email"),
		Password:  form.String("password"),
		Gender:    form.StringPtr("gender"),
		Role:      form.StringPtr("role"),
		Status:    form.StringPtr("status"),
	}

	birthday, err := parseBirthday(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	input.Birthday = birthday

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	user, err := handler.service.CreateUser(httpRequest.Context(), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "User created successfully", user)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, httpRequest *http.Request) {
	id := request.Param(httpRequest, "id")

	if err := authorizeOwnerOrAdmin(httpRequest, id); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := UpdateUserInput{
		FirstName: form.StringPtr("firstName"),
		LastName:  form.StringPtr("lastName"),
		Email:     form.StringPtr("email"),
		Password:  form.StringPtr("password"),
		Gender:    form.StringPtr("gender"),
		Role:      form.StringPtr("role"),
		Status:    form.StringPtr("status"),
	}

	// Only admins may touch role and status.
	claims, _ := request.RequiredClaims(httpRequest)
	if (input.Role != nil || input.Status != nil) && !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		respond.Error(writer, httpRequest, apperr.Forbidden("Only administrators may change role or status"))
		return
	}

	birthday, err := parseBirthday(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	input.Birthday = birthday

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	user, err := handler.service.UpdateUser(httpRequest.Context(), id, input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "User updated successfully", user)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, httpRequest *http.Request) {
	id := request.Param(httpRequest, "id")

	if err := authorizeOwnerOrAdmin(httpRequest, id); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if err := handler.service.DeleteUser(httpRequest.Context(), id); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "User deleted successfully", nil)
}

// # Form Parsing

func parseBirthday(form *request.Form) (*time.Time, error) {
	raw := form.StringPtr("birthday")
	if raw == nil {
		return nil, nil
	}

	birthday, err := time.Parse(birthdayLayout, *raw)
	if err != nil {
		return nil, validate.RequiredError("birthday", "Must be a date formatted YYYY-MM-DD").WithFields(fieldRequirements)
	}
	return &birthday, nil
}

// parseFiles extracts the optional profileImage part.
func parseFiles(form *request.Form) (map[string]*upload.FileInput, error) {
	file, present, err := form.File("profileImage", constants.MaxImageBytes)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return map[string]*upload.FileInput{"profileImage": file}, nil
}
