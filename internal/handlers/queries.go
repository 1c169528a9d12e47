package handlers

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/imlogolabs/studio/internal/models"
)

// queryForm is the payload of a service card's query form.
type queryForm struct {
	Service       string `json:"service"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	ServiceType   string `json:"serviceType"`
}

type queryErrors struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type queryAccepted struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (h *Handler) HandleQueries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, h.queryLog.Recent())
	case http.MethodPost:
		h.submitQuery(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) submitQuery(w http.ResponseWriter, r *http.Request) {
	form, err := decodeQuery(r)
	if err != nil {
		h.writeError(w, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	if fields := h.validateQuery(form); len(fields) > 0 {
		h.writeJSONStatus(w, http.StatusBadRequest, queryErrors{Error: "Invalid query", Fields: fields})
		return
	}

	sub := models.QuerySubmission{
		ID:            uuid.NewString(),
		Service:       form.Service,
		Name:          form.Name,
		ContactNumber: form.ContactNumber,
		Email:         form.Email,
		ServiceType:   form.ServiceType,
		SubmittedAt:   h.now(),
	}
	h.queryLog.Add(sub)
	slog.Info("Query submitted",
		"id", sub.ID,
		"service", sub.Service,
		"service_type", sub.ServiceType,
		"name", sub.Name,
		"email", sub.Email,
		"contact_number", sub.ContactNumber)

	h.writeJSONStatus(w, http.StatusCreated, queryAccepted{
		ID:      sub.ID,
		Message: "Thanks, we will be in touch soon.",
	})
}

func decodeQuery(r *http.Request) (queryForm, error) {
	var form queryForm
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return form, err
		}
		form = queryForm{
			Service:       r.PostForm.Get("service"),
			Name:          r.PostForm.Get("name"),
			ContactNumber: r.PostForm.Get("contactNumber"),
			Email:         r.PostForm.Get("email"),
			ServiceType:   r.PostForm.Get("serviceType"),
		}
	}
	form.Service = strings.TrimSpace(form.Service)
	form.Name = strings.TrimSpace(form.Name)
	form.ContactNumber = strings.TrimSpace(form.ContactNumber)
	form.Email = strings.TrimSpace(form.Email)
	form.ServiceType = strings.TrimSpace(form.ServiceType)
	return form, nil
}

// validateQuery returns a message per invalid field.
func (h *Handler) validateQuery(form queryForm) map[string]string {
	fields := map[string]string{}

	if form.Name == "" {
		fields["name"] = "Name is required."
	}
	if addr, err := mail.ParseAddress(form.Email); err != nil || addr.Address != form.Email {
		fields["email"] = "Enter a valid email address."
	}
	if !validContactNumber(form.ContactNumber) {
		fields["contactNumber"] = "Enter a phone number of 7 to 20 digits."
	}

	service, ok := h.cfg.Service(form.Service)
	switch {
	case !ok:
		fields["service"] = "Unknown service."
	case !service.HasItem(form.ServiceType):
		fields["serviceType"] = "Select a service type."
	}
	return fields
}

func validContactNumber(s string) bool {
	if len(s) < 7 || len(s) > 20 {
		return false
	}
	digits := 0
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '+' && i == 0:
		case c == ' ':
		default:
			return false
		}
	}
	return digits > 0
}
