package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pikechu/MidiReader/analysis"
	"github.com/pikechu/MidiReader/midi"
	"github.com/pkg/errors"
)

type decodeResponse struct {
	ID       uuid.UUID         `json:"id"`
	Header   headerView        `json:"header"`
	Summary  *analysis.Summary `json:"summary"`
	Events   []trackView       `json:"events,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

type errorResponse struct {
	ID     uuid.UUID `json:"id"`
	Error  string    `json:"error"`
	Kind   string    `json:"kind,omitempty"`
	Offset *int      `json:"offset,omitempty"`
}

type server struct {
	config  *Config
	verbose bool
}

func newRouter(config *Config, verbose bool) *mux.Router {
	var srv = &server{config, verbose}
	var router = mux.NewRouter()

	router.Use(srv.recoverMiddleware)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/decode", srv.handleDecode).Methods(http.MethodPost)

	return router
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(value)

	if err != nil {
		log.Printf("Failed to write response: %s", err)
	}
}

func (srv *server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			log.Printf("Error in %s request of '%s': %v", r.Method, r.URL.Path, err)
			if srv.verbose {
				log.Print("stacktrace from panic: \n" + string(debug.Stack()))
			}

			writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: fmt.Sprint(err)})
		}()

		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// decodeOptions applies ?strict= and ?zero_tempo= on top of the config.
func (srv *server) decodeOptions(r *http.Request) ([]midi.Option, error) {
	var options = srv.config.DecodeOptions()
	var query = r.URL.Query()

	if strict := query.Get("strict"); strict != "" {
		options = append(options, midi.WithStrict(strict == "1" || strict == "true"))
	}

	if zeroTempo := query.Get("zero_tempo"); zeroTempo != "" {
		policy, err := parseZeroTempo(zeroTempo)

		if err != nil {
			return nil, err
		}

		options = append(options, midi.WithZeroTempo(policy))
	}

	return options, nil
}

func (srv *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var id = uuid.New()

	data, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, srv.config.MaxUploadBytes))

	if err != nil {
		log.Printf("[%s] invalid upload: %s", id, err)

		var status = http.StatusBadRequest
		var tooLarge *http.MaxBytesError

		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		writeJSON(w, status, &errorResponse{ID: id, Error: err.Error()})
		return
	}

	options, err := srv.decodeOptions(r)

	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{ID: id, Error: err.Error()})
		return
	}

	log.Printf("[%s] decoding %d bytes", id, len(data))

	file, err := midi.Decode(data, options...)

	if err != nil {
		log.Printf("[%s] decode failed: %s", id, err)

		var response = &errorResponse{ID: id, Error: err.Error()}
		var decodeErr *midi.DecodeError

		if errors.As(err, &decodeErr) {
			var offset = decodeErr.Offset
			response.Kind = decodeErr.Kind.String()
			response.Offset = &offset
		}

		writeJSON(w, http.StatusUnprocessableEntity, response)
		return
	}

	var view = newFileView(file)

	var response = &decodeResponse{
		ID:       id,
		Header:   view.Header,
		Summary:  analysis.Summarize(file),
		Warnings: view.Warnings,
	}

	if r.URL.Query().Get("events") != "" {
		response.Events = view.Tracks
	}

	log.Printf("[%s] decoded %d tracks", id, len(file.Tracks))

	writeJSON(w, http.StatusOK, response)
}

func serve(config *Config, verbose bool) error {
	log.Printf("listening on %s", config.Listen)

	return http.ListenAndServe(config.Listen, newRouter(config, verbose))
}
