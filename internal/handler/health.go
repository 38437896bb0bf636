package handler

import "net/http"

// Health handles GET /healthz. It reports process liveness only — no
// dependency checks — so orchestrators never restart the server because the
// database is briefly unreachable.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenAPISpec handles GET /openapi.yaml, serving the spec embedded in the
// binary so the document and the running code are always in sync.
func (s *Server) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openapi)
}
