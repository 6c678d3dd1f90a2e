package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
)

const maxBodySize = 1 << 20

func Router(api *API) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/customers", mutation(api.CreateCustomer, http.StatusCreated)).Methods(http.MethodPost)
	s.HandleFunc("/customers/bulk", mutation(api.BulkCreateCustomers, http.StatusOK)).Methods(http.MethodPost)
	s.HandleFunc("/products", mutation(api.CreateProduct, http.StatusCreated)).Methods(http.MethodPost)
	s.HandleFunc("/orders", mutation(api.CreateOrder, http.StatusCreated)).Methods(http.MethodPost)
	s.HandleFunc("/customers", query(api.AllCustomers)).Methods(http.MethodGet)
	s.HandleFunc("/products", query(api.AllProducts)).Methods(http.MethodGet)
	s.HandleFunc("/orders", query(api.AllOrders)).Methods(http.MethodGet)
	return logMiddleware(r)
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mutation(op func(ctx context.Context, body []byte) (any, error), status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			writeError(w, &requestError{cause: err})
			return
		}
		result, err := op(r.Context(), body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, status, result)
	}
}

func query(op func(ctx context.Context, params map[string]string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
		result, err := op(r.Context(), params)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeError(w http.ResponseWriter, err error) {
	body, ok := describe(err)
	if !ok {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, httpStatus(err, ok), errorResponse{Error: body})
}

func httpStatus(err error, clientError bool) int {
	kind, isKind := model.KindOf(err)
	switch {
	case isKind && kind == model.DuplicateEmail:
		return http.StatusConflict
	case isKind:
		return http.StatusUnprocessableEntity
	case clientError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(b); err != nil {
		log.WithField("err", err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
