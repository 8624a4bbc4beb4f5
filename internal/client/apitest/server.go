// Package apitest runs an in-process fake of the admin API for tests. It
// speaks the same paths, headers and envelope as the real server and records
// what it receives.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/go-chi/chi/v5"
)

// Default credentials the fake accepts.
const (
	Email    = "asha@example.com"
	Password = "s3cret"
	OTP      = "123456"
	Token    = "fake-token"
)

// Feedback is a recorded update-feedback call.
type Feedback struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

// WhatsApp is a recorded send-whatsapp-message call.
type WhatsApp struct {
	ID           string `json:"id"`
	MobileNumber string `json:"mobileNumber"`
	Status       string `json:"status"`
}

// Assignment is a recorded update-user-instruction-assignment call.
type Assignment struct {
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
	AssignedTo  string `json:"assignedTo"`
}

// Report is a recorded send-employee-statics-excelfile upload.
type Report struct {
	Email    string
	FileName string
	Data     []byte
}

// Request is a summary of every request the fake served.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
}

// Server is the fake admin API.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	Profile models.Profile
	Queues  map[models.Tag][]models.Lead
	// ByStatus backs users-by-status.
	ByStatus        map[string][]models.Lead
	StatsAll        []models.AgentStats
	StatsToday      []models.AgentStats
	StatesAndCities models.StatesAndCities

	Feedbacks   []Feedback
	WhatsApps   []WhatsApp
	Assignments []Assignment
	Reports     []Report
	OTPRequests []string
	Requests    []Request

	fail map[string]int
}

// New starts a fake server and stops it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		Profile: models.Profile{
			Username: "Asha",
			Email:    Email,
			Role:     models.RoleSuperAdmin,
			AdminID:  "a-1",
		},
		Queues:          make(map[models.Tag][]models.Lead),
		ByStatus:        make(map[string][]models.Lead),
		StatesAndCities: models.StatesAndCities{},
		fail:            make(map[string]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Fail makes every request to path (without query, e.g.
// "/admin/assignment-stats") answer with code until cleared with code 0.
func (s *Server) Fail(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.fail, path)
		return
	}
	s.fail[path] = code
}

// Calls returns how many requests hit path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.Requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to path.
func (s *Server) Last(path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Requests) - 1; i >= 0; i-- {
		if s.Requests[i].Path == path {
			return s.Requests[i], true
		}
	}
	return Request{}, false
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures, requireUserID)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/send-otp", s.sendOTP)
		r.Post("/verify-otp", s.verifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(requireToken)

			for _, tag := range models.Tags {
				r.Get("/"+string(tag)+"-users", s.nextLead(tag))
			}
			r.Get("/users-by-status", s.usersByStatus)
			r.Put("/update-feedback", s.updateFeedback)
			r.Post("/send-whatsapp-message", s.sendWhatsApp)
			r.Patch("/update-user-instruction-assignment", s.updateAssignment)
			r.Get("/states_and_city", s.statesAndCity)
			r.Get("/assignment-stats", s.assignmentStats)
			r.Post("/send-employee-statics-excelfile", s.uploadReport)
		})
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.Requests = append(s.Requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		code, ok := s.fail[r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeError(w, code, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(common.UserIDHeaderName) != common.UserIDHeaderValue {
			writeError(w, http.StatusBadRequest, "missing user id header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Email != Email || in.Password != Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.writeSession(w)
}

func (s *Server) sendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Email != Email {
		writeError(w, http.StatusNotFound, "Admin not found")
		return
	}
	s.mu.Lock()
	s.OTPRequests = append(s.OTPRequests, in.Email)
	s.mu.Unlock()
	writeData(w, nil)
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Email != Email || in.OTP != OTP {
		writeError(w, http.StatusUnauthorized, "Invalid OTP")
		return
	}
	s.writeSession(w)
}

func (s *Server) writeSession(w http.ResponseWriter) {
	s.mu.Lock()
	p := s.Profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   Token,
		"data":    p,
	})
}

// nextLead serves the queue head for tag. Leads are removed once feedback
// is recorded for them.
func (s *Server) nextLead(tag models.Tag) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))

		s.mu.Lock()
		var out []models.Lead
		for _, l := range s.Queues[tag] {
			if st := q.Get("status"); st != "" && string(l.Status) != st {
				continue
			}
			out = append(out, l)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		s.mu.Unlock()

		writeData(w, nonNil(out))
	}
}

func (s *Server) usersByStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	s.mu.Lock()
	out := append([]models.Lead(nil), s.ByStatus[q.Get("status")]...)
	s.mu.Unlock()

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	writeData(w, nonNil(out))
}

func (s *Server) updateFeedback(w http.ResponseWriter, r *http.Request) {
	var in Feedback
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	s.Feedbacks = append(s.Feedbacks, in)
	for tag, leads := range s.Queues {
		for i, l := range leads {
			if l.ID == in.ID {
				s.Queues[tag] = append(leads[:i:i], leads[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	writeData(w, nil)
}

func (s *Server) sendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var in WhatsApp
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	s.WhatsApps = append(s.WhatsApps, in)
	s.mu.Unlock()
	writeData(w, nil)
}

func (s *Server) updateAssignment(w http.ResponseWriter, r *http.Request) {
	var in Assignment
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	s.Assignments = append(s.Assignments, in)
	s.mu.Unlock()
	writeData(w, nil)
}

func (s *Server) statesAndCity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, s.StatesAndCities)
}

func (s *Server) assignmentStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.StatsAll
	if r.URL.Query().Get("current_day") == "true" {
		out = s.StatsToday
	}
	s.mu.Unlock()
	writeData(w, nonNil(out))
}

func (s *Server) uploadReport(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeError(w, http.StatusUnsupportedMediaType, "expected multipart form")
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.Reports = append(s.Reports, Report{Email: r.FormValue("email"), FileName: hdr.Filename, Data: data})
	s.mu.Unlock()
	writeData(w, nil)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok", "data": data})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
