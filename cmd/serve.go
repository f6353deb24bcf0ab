package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/corpus"
	"github.com/jsphweid/melodex/duration"
	"github.com/jsphweid/melodex/encode"
	"github.com/jsphweid/melodex/kern"
	"github.com/jsphweid/melodex/key"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/sequence"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the vocabulary, the latest report and an encoder",
	Long:  `Serves the vocabulary, the latest report and an encoder over HTTP`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := LoadServer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		logger.Progress("Listening on %v", serveAddr)
		return http.ListenAndServe(serveAddr, s.Router())
	},
}

type Server struct {
	cfg      config.Config
	mappings model.Vocabulary
	report   *model.ReportResponse
}

// LoadServer reads the persisted vocabulary and, when a ledger exists,
// the summary of its latest run.
func LoadServer(ctx context.Context, cfg config.Config) (*Server, error) {
	mappings, err := corpus.LoadMapping(cfg.MappingPath)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, mappings: mappings}

	if _, err := os.Stat(cfg.LedgerPath); err == nil {
		run, err := analyzeRun(ctx, cfg.LedgerPath, "")
		if err != nil {
			return nil, err
		}
		s.report = &model.ReportResponse{RunID: run.runID, Summary: run.summary}
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/vocabulary", s.HandleVocabulary).Methods("GET")
	router.HandleFunc("/report", s.HandleReport).Methods("GET")
	router.HandleFunc("/encode", s.HandleEncode).Methods("POST")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func (s *Server) HandleVocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.VocabularyResponse{Symbols: corpus.Symbols(s.mappings)})
}

func (s *Server) HandleReport(w http.ResponseWriter, r *http.Request) {
	if s.report == nil {
		writeError(w, http.StatusNotFound, errors.New("no preprocessing run has been recorded"))
		return
	}
	writeJSON(w, http.StatusOK, s.report)
}

// HandleEncode runs a **kern score through the per-score stages and maps
// the result through the served vocabulary.
func (s *Server) HandleEncode(w http.ResponseWriter, r *http.Request) {
	var input model.EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not decode request body: %w", err))
		return
	}

	song, err := kern.Parse(strings.NewReader(input.Kern))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !duration.HasAcceptableDurations(song, s.cfg.AcceptableDurations) {
		writeError(w, http.StatusUnprocessableEntity, errors.New("score has unacceptable durations"))
		return
	}
	normalized, k, shift, err := key.Normalize(song)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	symbols, err := encode.Symbols(normalized, s.cfg.TimeStep, encode.Markers{Rest: s.cfg.Rest, Hold: s.cfg.Hold})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	ids, err := sequence.ToInts(strings.Join(symbols, " "), s.mappings)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, model.EncodeResponse{
		Key:     k.String(),
		Shift:   shift,
		Symbols: symbols,
		Ids:     ids,
	})
}
