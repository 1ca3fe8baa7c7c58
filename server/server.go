// Package server exposes the core catalog over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/ipgen/core"
	"github.com/sarchlab/ipgen/datarecording"
	"github.com/sarchlab/ipgen/param"
)

// Server serves the catalog of a registry.
type Server struct {
	registry   *core.Registry
	builds     *datarecording.BuildReader
	portNumber int
	logger     *log.Logger

	http     *http.Server
	listener net.Listener
}

// NewServer creates a server for a registry.
func NewServer(r *core.Registry) *Server {
	return &Server{
		registry: r,
		logger:   log.New(io.Discard, "", 0),
	}
}

// WithPortNumber sets the port number of the server. Ports below 1000 are
// replaced by a random port.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber < 1000 && portNumber != 0 {
		s.logger.Printf("port %d is not allowed, using a random port instead",
			portNumber)

		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// WithBuildReader enables the build history endpoint.
func (s *Server) WithBuildReader(r *datarecording.BuildReader) *Server {
	s.builds = r
	return s
}

// WithLogger sets the logger that reports the listening address.
func (s *Server) WithLogger(l *log.Logger) *Server {
	s.logger = l
	return s
}

// Router returns the routes of the server.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/api/cores", s.listCores).Methods(http.MethodGet)
	r.HandleFunc("/api/core/{name}", s.coreDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/core/{name}/validate", s.validate).
		Methods(http.MethodPost)
	r.HandleFunc("/api/core/{name}/template", s.template).
		Methods(http.MethodGet)
	r.HandleFunc("/api/builds", s.listBuilds).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", s.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", s.collectProfile).Methods(http.MethodGet)

	return r
}

// Start listens and serves in the background. It returns the URL of the
// catalog.
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", "localhost:"+strconv.Itoa(s.portNumber))
	if err != nil {
		return "", err
	}

	s.listener = listener
	s.http = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	s.logger.Printf("serving the core catalog at %s", url)

	go func() {
		err := s.http.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("server stopped: %v", err)
		}
	}()

	return url, nil
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}

	return s.http.Shutdown(ctx)
}

type coreSummary struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Type        string `json:"type"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

func (s *Server) listCores(w http.ResponseWriter, _ *http.Request) {
	list := s.registry.List()
	rsp := make([]coreSummary, 0, len(list))

	for _, d := range list {
		rsp = append(rsp, coreSummary{
			Name:        d.Name,
			Version:     d.Version,
			Type:        d.Type,
			Module:      d.Module,
			Description: d.Description,
		})
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (s *Server) coreDetail(w http.ResponseWriter, r *http.Request) {
	d, ok := s.findCoreOr404(w, mux.Vars(r)["name"])
	if !ok {
		return
	}

	detail, err := describe(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(detail)
	serializer.SetMaxDepth(3)

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

type validateRsp struct {
	Params  map[string]any    `json:"params"`
	Summary map[string]string `json:"summary"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	d, ok := s.findCoreOr404(w, mux.Vars(r)["name"])
	if !ok {
		return
	}

	raw := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed body: %w", err))
		return
	}

	set, err := d.Schema.Validate(d.Schema.Merge(d.Schema.Defaults().Map(), raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if _, _, err := d.Bind(set); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, validateRsp{
		Params:  set.Map(),
		Summary: d.SummaryOf(set),
	})
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) {
	d, ok := s.findCoreOr404(w, mux.Vars(r)["name"])
	if !ok {
		return
	}

	set := d.Schema.Defaults()

	data, err := param.ExportJSON(set, param.Bookkeeping{
		BuildName: d.Name + "_wrapper",
		BuildDir:  ".",
	}, d.SummaryOf(set))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

type buildsRsp struct {
	Total  int                        `json:"total"`
	Builds []datarecording.BuildEntry `json:"builds"`
}

func (s *Server) listBuilds(w http.ResponseWriter, r *http.Request) {
	if s.builds == nil {
		writeError(w, http.StatusNotFound, errors.New("no build history configured"))
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", l))
			return
		}

		limit = n
	}

	coreName := r.URL.Query().Get("core")

	entries, err := s.builds.Builds(r.Context(), coreName, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	total, err := s.builds.Count(r.Context(), coreName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, buildsRsp{Total: total, Builds: entries})
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (s *Server) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

func (s *Server) findCoreOr404(
	w http.ResponseWriter,
	name string,
) (core.Descriptor, bool) {
	d, ok := s.registry.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("core %s not found", name))
	}

	return d, ok
}

type errorRsp struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorRsp{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
