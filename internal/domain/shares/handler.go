package shares

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"vidalink/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	defaultExpiresInHours = 24
	defaultMaxAccess      = 1

	maxIssueBodyBytes = 1 << 20
)

type Routes struct {
	Service   *Service
	Projector *Projector

	// PublicBaseURL arma el link que se codifica en el QR.
	PublicBaseURL string

	// AccessLimit (opcional) envuelve las rutas del médico.
	AccessLimit func(http.Handler) http.Handler
}

func RegisterRoutes(r chi.Router, rt Routes) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Paciente: gestión de sus tokens
	r.Route("/shares", func(sr chi.Router) {
		sr.Post("/", issueShareHandler(rt.Service, validate, rt.PublicBaseURL))
		sr.Get("/", listSharesHandler(rt.Service, rt.PublicBaseURL))
		sr.Get("/{shareID}/access-log", accessLogHandler(rt.Service))
		sr.Post("/{shareID}/revoke", revokeShareHandler(rt.Service))
	})

	// Médico: sin autenticación, solo el token
	r.Route("/access/{token}", func(ar chi.Router) {
		if rt.AccessLimit != nil {
			ar.Use(rt.AccessLimit)
		}
		ar.Get("/", accessShareHandler(rt.Service, rt.Projector))
		ar.Get("/documents/{documentID}/download", downloadDocumentHandler(rt.Service, rt.Projector))
	})
}

type issueShareRequest struct {
	RecordIDs      []string   `json:"record_ids" validate:"required,min=1,max=200,dive,required"`
	AccessType     AccessType `json:"access_type" validate:"omitempty,oneof=READ EXPORT"`
	ExpiresInHours *int       `json:"expires_in_hours" validate:"omitempty,gt=1,lte=168"`
	MaxAccess      *int       `json:"max_access" validate:"omitempty,min=1,max=100"`
	DoctorName     string     `json:"doctor_name" validate:"omitempty,max=200"`
	DoctorEmail    string     `json:"doctor_email" validate:"omitempty,email"`
	Institution    string     `json:"institution" validate:"omitempty,max=200"`
}

type shareResponse struct {
	ID             string     `json:"id"`
	Token          string     `json:"token"`
	AccessURL      string     `json:"access_url"`
	RecordIDs      []string   `json:"record_ids"`
	AccessType     AccessType `json:"access_type"`
	DoctorName     string     `json:"doctor_name,omitempty"`
	DoctorEmail    string     `json:"doctor_email,omitempty"`
	Institution    string     `json:"institution,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	MaxAccess      int        `json:"max_access"`
	AccessCount    int        `json:"access_count"`
	IsActive       bool       `json:"is_active"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
}

type accessLogResponse struct {
	ID                string    `json:"id"`
	AccessedAt        time.Time `json:"accessed_at"`
	AccessorIP        string    `json:"accessor_ip,omitempty"`
	AccessorUserAgent string    `json:"accessor_user_agent,omitempty"`
	Outcome           Outcome   `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// issueShareHandler godoc
// @Summary Emitir un token de acceso
// @Description El paciente comparte eventos de salud propios con un médico. Devuelve el token de 8 caracteres y la URL para el QR. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags shares
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param body body issueShareRequest true "Eventos a compartir y límites"
// @Success 201 {object} shareResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 413 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 500 {string} string "internal error"
// @Router /shares [post]
func issueShareHandler(svc *Service, validate *validator.Validate, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req issueShareRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxIssueBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
			return
		}

		in := IssueInput{
			OwnerID:        claims.UserID,
			RecordIDs:      req.RecordIDs,
			AccessType:     req.AccessType,
			ExpiresInHours: defaultExpiresInHours,
			MaxAccess:      defaultMaxAccess,
			DoctorName:     req.DoctorName,
			DoctorEmail:    req.DoctorEmail,
			Institution:    req.Institution,
		}
		if in.AccessType == "" {
			in.AccessType = AccessRead
		}
		if req.ExpiresInHours != nil {
			in.ExpiresInHours = *req.ExpiresInHours
		}
		if req.MaxAccess != nil {
			in.MaxAccess = *req.MaxAccess
		}

		t, err := svc.Issue(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toShareResponse(t, baseURL))
	}
}

// listSharesHandler godoc
// @Summary Listar mis tokens
// @Tags shares
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} shareResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /shares [get]
func listSharesHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]shareResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toShareResponse(t, baseURL))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// accessLogHandler godoc
// @Summary Auditoría de un token
// @Description Todos los intentos de acceso registrados contra el token, en cualquier estado.
// @Tags shares
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param shareID path string true "ID del token"
// @Success 200 {array} accessLogResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /shares/{shareID}/access-log [get]
func accessLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.AccessLog(r.Context(), claims.UserID, chi.URLParam(r, "shareID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]accessLogResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, accessLogResponse{
				ID:                e.ID,
				AccessedAt:        e.AccessedAt,
				AccessorIP:        e.AccessorIP,
				AccessorUserAgent: e.AccessorUserAgent,
				Outcome:           e.Outcome,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// revokeShareHandler godoc
// @Summary Revocar un token
// @Description Desactiva el token de inmediato. Revocar un token ya inactivo no es error.
// @Tags shares
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param shareID path string true "ID del token"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /shares/{shareID}/revoke [post]
func revokeShareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Revoke(r.Context(), claims.UserID, chi.URLParam(r, "shareID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// accessShareHandler godoc
// @Summary Acceso del médico
// @Description Valida el token (consume un acceso) y devuelve la vista de los registros compartidos. Cualquier motivo de rechazo responde el mismo 403.
// @Tags access
// @Produce json
// @Param token path string true "Token de 8 caracteres"
// @Success 200 {object} PatientShareView
// @Failure 403 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Failure 500 {string} string "internal error"
// @Router /access/{token} [get]
func accessShareHandler(svc *Service, projector *Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, err := svc.Validate(r.Context(), chi.URLParam(r, "token"), accessorMeta(r))
		if err != nil {
			writeAccessError(w, err)
			return
		}

		view, err := projector.Project(r.Context(), access)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// downloadDocumentHandler godoc
// @Summary Descargar un documento (solo EXPORT)
// @Description Valida el token (consume un acceso) y redirige a una URL firmada temporal del documento.
// @Tags access
// @Param token path string true "Token de 8 caracteres"
// @Param documentID path string true "ID del documento"
// @Success 302
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /access/{token}/documents/{documentID}/download [get]
func downloadDocumentHandler(svc *Service, projector *Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, err := svc.Validate(r.Context(), chi.URLParam(r, "token"), accessorMeta(r))
		if err != nil {
			writeAccessError(w, err)
			return
		}

		url, err := projector.DocumentURL(r.Context(), access, chi.URLParam(r, "documentID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrExportNotPermitted):
				writeJSON(w, http.StatusForbidden, errorResponse{Error: ErrExportNotPermitted.Error()})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "document not found"})
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}

func toShareResponse(t ShareToken, baseURL string) shareResponse {
	return shareResponse{
		ID:             t.ID,
		Token:          t.Token,
		AccessURL:      AccessURL(baseURL, t.Token),
		RecordIDs:      t.RecordIDs,
		AccessType:     t.AccessType,
		DoctorName:     t.DoctorName,
		DoctorEmail:    t.DoctorEmail,
		Institution:    t.Institution,
		ExpiresAt:      t.ExpiresAt,
		MaxAccess:      t.MaxAccess,
		AccessCount:    t.AccessCount,
		IsActive:       t.IsActive,
		LastAccessedAt: t.LastAccessedAt,
		CreatedAt:      t.CreatedAt,
		RevokedAt:      t.RevokedAt,
	}
}

// AccessURL es la URL del frontend que se codifica en el QR.
func AccessURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/medical-access/" + token
}

func accessorMeta(r *http.Request) AccessorMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return AccessorMeta{IP: ip, UserAgent: r.UserAgent()}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidParameters):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidRecordOwnership):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "share not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeAccessError: el médico nunca ve el motivo del rechazo.
func writeAccessError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAccessDenied) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: ErrAccessDenied.Error()})
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	return "invalid field " + fe.Field() + " (" + fe.Tag() + ")"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
