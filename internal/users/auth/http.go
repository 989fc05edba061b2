// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/request"
	"github.com/dramirezb/cinemateca/internal/platform/respond"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
)

// birthdayLayout is the wire format of the signup birthday field.
const birthdayLayout = "2006-01-02"

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the authentication endpoints.
//
// # Endpoints
//   - POST /signup  : Creates a new account (multipart form).
//   - POST /login   : Authenticates and returns a token pair.
//   - POST /refresh : Rotates a refresh session.
//   - POST /logout  : Revokes a refresh session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// signup handles POST /api/v1/auth/signup requests.
//
// The body is multipart/form-data so the optional profileImage can ride
// along with the scalar fields.
func (handler *Handler) signup(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := SignupInput{
		FirstName: form.String("firstName"),
		LastName:  form.String("lastName"),
		Email:     form.String("email"),
		Password:  form.String("password"),
		Gender:    form.StringPtr("gender"),
	}

	if raw := form.StringPtr("birthday"); raw != nil {
		birthday, err := time.Parse(birthdayLayout, *raw)
		if err != nil {
			respond.Error(writer, httpRequest,
				validate.RequiredError("birthday", "Must be a date formatted YYYY-MM-DD").WithFields(fieldRequirements))
			return
		}
		input.Birthday = &birthday
	}

	file, present, err := form.File("profileImage", constants.MaxImageBytes)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	if present {
		input.Files = map[string]*upload.FileInput{"profileImage": file}
	}

	user, err := handler.service.Signup(httpRequest.Context(), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "User created successfully", user)
}

// loginRequest is the JSON payload for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
func (handler *Handler) login(writer http.ResponseWriter, httpRequest *http.Request) {
	var payload loginRequest
	if err := request.DecodeJSON(httpRequest, &payload); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if payload.Email == "" || payload.Password == "" {
		respond.Error(writer, httpRequest, validate.RequiredError("email/password", "are required"))
		return
	}

	session, err := handler.service.Login(httpRequest.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Login successful", session)
}

// refreshRequest is the JSON payload for session rotation and logout.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh handles POST /api/v1/auth/refresh requests.
func (handler *Handler) refresh(writer http.ResponseWriter, httpRequest *http.Request) {
	var payload refreshRequest
	if err := request.DecodeJSON(httpRequest, &payload); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if payload.RefreshToken == "" {
		respond.Error(writer, httpRequest, validate.RequiredError("refreshToken", "is required"))
		return
	}

	session, err := handler.service.Refresh(httpRequest.Context(), payload.RefreshToken)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Session refreshed successfully", session)
}

// logout handles POST /api/v1/auth/logout requests.
func (handler *Handler) logout(writer http.ResponseWriter, httpRequest *http.Request) {
	var payload refreshRequest
	if err := request.DecodeJSON(httpRequest, &payload); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if err := handler.service.Logout(httpRequest.Context(), payload.RefreshToken); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Logout successful", nil)
}
