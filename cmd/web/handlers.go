package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/venkm/formrelay/cmd/web/formhttp"
	"github.com/venkm/formrelay/cmd/web/formhttp/handlers"
	"github.com/venkm/formrelay/cmd/web/services"
	"github.com/venkm/formrelay/form"
)

const (
	invalidRequestMessage = "Invalid request format."
	successMessage        = "Thank you for reaching out! Your message has been sent successfully. I will get back to you soon!"
	sendFailedFormat      = "Failed to send email. Please try again or contact me directly at %s."
)

// NewContactHandler handles POST /contact: decode, validate, relay, report. Validation failures
// produce a 400 carrying every field error joined with " | ", send failures a 500 pointing at
// the fallback contact address.
func NewContactHandler(logger logrus.FieldLogger, svc *services.SubmitSvc, maxBodySize int64, fallbackContact string) http.HandlerFunc {
	log := logger.WithField("handler", "contact")
	sendFailedMessage := fmt.Sprintf(sendFailedFormat, fallbackContact)

	return func(w http.ResponseWriter, r *http.Request) {
		log := log.WithField(handlers.RequestID.String(), r.Context().Value(handlers.RequestID))

		defer deferClose(r.Body, log)

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSONResponse(log, w, http.StatusMethodNotAllowed, formhttp.ContactResponse{Message: invalidRequestMessage})
			return
		}

		body, err := formhttp.GetBodyFromHTTPRequest(r, maxBodySize)
		if err != nil {
			log.WithFields(logrus.Fields{
				"error":          err,
				"content_length": r.ContentLength,
			}).Error("Unable to read the request")

			writeJSONResponse(log, w, http.StatusBadRequest, formhttp.ContactResponse{Message: invalidRequestMessage})
			return
		}

		var req formhttp.ContactRequest
		if err := json.Unmarshal(body, &req); err != nil {
			log.WithError(err).Error("Unable to parse the request body")
			writeJSONResponse(log, w, http.StatusBadRequest, formhttp.ContactResponse{Message: invalidRequestMessage})
			return
		}

		values := form.Values{
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		}

		result, err := svc.HandleSubmission(r.Context(), values, clientIP(r))

		if len(result.Errors) > 0 {
			writeJSONResponse(log, w, http.StatusBadRequest, formhttp.ContactResponse{
				Message:     result.Errors.Join(" | "),
				Alternative: result.Alternative,
			})
			return
		}

		if err != nil {
			writeJSONResponse(log, w, http.StatusInternalServerError, formhttp.ContactResponse{Message: sendFailedMessage})
			return
		}

		writeJSONResponse(log, w, http.StatusOK, formhttp.ContactResponse{
			Success: true,
			Message: successMessage,
		})
	}
}

// NewTestEmailHandler triggers the fixed test submission, answering in the regular response shape
func NewTestEmailHandler(logger logrus.FieldLogger, svc *services.SubmitSvc, recipient string) http.HandlerFunc {
	log := logger.WithField("handler", "test_email")

	return func(w http.ResponseWriter, r *http.Request) {
		log := log.WithField(handlers.RequestID.String(), r.Context().Value(handlers.RequestID))

		if err := svc.SendTest(r.Context(), recipient); err != nil {
			writeJSONResponse(log, w, http.StatusInternalServerError, formhttp.ContactResponse{
				Message: "Failed to send test email",
			})
			return
		}

		writeJSONResponse(log, w, http.StatusOK, formhttp.ContactResponse{
			Success: true,
			Message: fmt.Sprintf("Test email sent to %s!", recipient),
		})
	}
}

func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func writeJSONResponse(log logrus.FieldLogger, w http.ResponseWriter, statusCode int, response formhttp.ContactResponse) {
	body, err := json.Marshal(response)
	if err != nil {
		log.WithFields(logrus.Fields{
			"response": response,
			"error":    err,
		}).Error("Failed to marshal the response")

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}
