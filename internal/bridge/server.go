// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bridge

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"rokuctl/internal/logger"
	"rokuctl/internal/roku"
)

// extensionContentTypes maps downloaded icon file extensions back to the
// content type served to bridge clients.
var extensionContentTypes = map[string]string{
	".png": "image/png",
	".jpg": "image/jpeg",
	".gif": "image/gif",
}

// Server exposes registered devices over a JSON REST API
type Server struct {
	store  *Store
	icons  *IconCache
	logger zerolog.Logger
	server *http.Server
}

// NewServer creates a bridge server over the given registry
func NewServer(store *Store) (*Server, error) {
	icons, err := NewIconCache(128)
	if err != nil {
		return nil, err
	}

	return &Server{
		store:  store,
		icons:  icons,
		logger: logger.New(),
	}, nil
}

// Handler builds the route table. Exposed separately from Start so tests
// can drive the router directly.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.Use(s.loggingMiddleware)
	router.Use(s.corsMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Registry
	api.HandleFunc("/devices", s.handleListDevices).Methods("GET")
	api.HandleFunc("/devices", s.handleAddDevice).Methods("POST")
	api.HandleFunc("/devices/{id}", s.handleGetDevice).Methods("GET")
	api.HandleFunc("/devices/{id}", s.handleRemoveDevice).Methods("DELETE")
	api.HandleFunc("/devices/{id}/history", s.handleHistory).Methods("GET")

	// Queries
	api.HandleFunc("/devices/{id}/apps", s.handleApps).Methods("GET")
	api.HandleFunc("/devices/{id}/active-app", s.handleActiveApp).Methods("GET")
	api.HandleFunc("/devices/{id}/device-info", s.handleDeviceInfo).Methods("GET")
	api.HandleFunc("/devices/{id}/icon/{app_id}", s.handleIcon).Methods("GET")

	// Actions
	api.HandleFunc("/devices/{id}/keypress/{key}", s.handleKeyAction("press")).Methods("POST")
	api.HandleFunc("/devices/{id}/keydown/{key}", s.handleKeyAction("down")).Methods("POST")
	api.HandleFunc("/devices/{id}/keyup/{key}", s.handleKeyAction("up")).Methods("POST")
	api.HandleFunc("/devices/{id}/launch/{app_id}", s.handleLaunch).Methods("POST")
	api.HandleFunc("/devices/{id}/text", s.handleText).Methods("POST")

	return router
}

// Start serves the API until the listener fails or Stop is called
func (s *Server) Start(address string) error {
	s.server = &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().
		Str("address", address).
		Msg("Starting bridge server")

	return s.server.ListenAndServe()
}

// Stop stops the bridge server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Middleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Bridge request")
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Response helpers

func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error().Err(err).Msg("Failed to encode response")
		}
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}

// deviceClient resolves a registered device and builds a protocol client
func (s *Server) deviceClient(r *http.Request) (*Device, *roku.Client, error) {
	id := mux.Vars(r)["id"]
	device, err := s.store.GetDevice(id)
	if err != nil {
		return nil, nil, err
	}
	return device, roku.NewClient(device.Address, false), nil
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.store.ListDevices()
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, devices)
}

func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Address == "" {
		s.sendError(w, http.StatusBadRequest, "address is required")
		return
	}
	if req.Name == "" {
		req.Name = req.Address
	}

	device, err := s.store.AddDevice(req.Name, req.Address)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().
		Str("device_id", device.ID).
		Str("address", device.Address).
		Msg("Device registered")

	s.sendJSON(w, http.StatusCreated, device)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := s.store.GetDevice(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, device)
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveDevice(mux.Vars(r)["id"]); err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.store.History(mux.Vars(r)["id"], limit)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, entries)
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	device, client, err := s.deviceClient(r)
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	apps, err := client.Apps()
	s.record(device.ID, "app_list", "", err == nil)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, apps)
}

func (s *Server) handleActiveApp(w http.ResponseWriter, r *http.Request) {
	device, client, err := s.deviceClient(r)
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	app, err := client.ActiveApp()
	s.record(device.ID, "active_app", "", err == nil)
	if err != nil {
		if errors.Is(err, roku.ErrAmbiguousActiveApp) {
			s.sendError(w, http.StatusConflict, err.Error())
			return
		}
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	if app == nil {
		s.sendJSON(w, http.StatusOK, map[string]interface{}{"app": nil})
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]interface{}{"app": app})
}

func (s *Server) handleDeviceInfo(w http.ResponseWriter, r *http.Request) {
	device, client, err := s.deviceClient(r)
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	info, err := client.DeviceInfo()
	s.record(device.ID, "device_info", "", err == nil)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, info)
}

func (s *Server) handleKeyAction(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device, client, err := s.deviceClient(r)
		if err != nil {
			s.sendError(w, http.StatusNotFound, err.Error())
			return
		}

		key := mux.Vars(r)["key"]
		switch kind {
		case "down":
			err = client.Keydown(key)
		case "up":
			err = client.Keyup(key)
		default:
			err = client.Keypress(key)
		}
		s.record(device.ID, "key_"+kind, key, err == nil)

		if err != nil {
			if errors.Is(err, roku.ErrInvalidInput) {
				s.sendError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.sendError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.sendJSON(w, http.StatusOK, map[string]string{"status": "sent", "key": key})
	}
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	device, client, err := s.deviceClient(r)
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	appID := mux.Vars(r)["app_id"]
	err = client.Launch(appID)
	s.record(device.ID, "launch", appID, err == nil)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "launched", "app_id": appID})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	device, client, err := s.deviceClient(r)
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		s.sendError(w, http.StatusBadRequest, "text is required")
		return
	}

	err = client.Text(req.Text)
	s.record(device.ID, "text", req.Text, err == nil)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	device, client, err := s.deviceClient(r)
	if err != nil {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	appID := mux.Vars(r)["app_id"]

	if entry, ok := s.icons.Get(device.ID, appID); ok {
		w.Header().Set("Content-Type", entry.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write(entry.Data)
		return
	}

	dir, err := os.MkdirTemp("", "rokuctl-icon-")
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(dir)

	path, err := client.Icon(appID, dir)
	s.record(device.ID, "icon", appID, err == nil)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	contentType, ok := extensionContentTypes[filepath.Ext(path)]
	if !ok {
		contentType = "application/octet-stream"
	}
	s.icons.Add(device.ID, appID, data, contentType)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// record appends to the history log; failures are logged, not surfaced,
// since the forwarded action already completed.
func (s *Server) record(deviceID, action, detail string, success bool) {
	if err := s.store.RecordAction(deviceID, action, detail, success); err != nil {
		s.logger.Error().Err(err).
			Str("device_id", deviceID).
			Str("action", action).
			Msg("Failed to record action")
	}
}
