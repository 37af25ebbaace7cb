package shapetemplate

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/c360studio/semshape/export"
	"github.com/c360studio/semshape/graph"
)

// RegisterHTTPHandlers registers HTTP handlers for the shape-template component.
// The prefix includes the trailing slash (e.g., "/shape-template/").
func (c *Component) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(prefix+"types", c.handleListTypes)
	mux.HandleFunc(prefix+"templates/", c.handleGetTemplate)
	mux.HandleFunc(prefix+"catalog", c.handleGetCatalog)
}

// handleListTypes handles GET /types
func (c *Component) handleListTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := c.serve(&TemplateRequest{ListTypes: true})
	c.writeResponse(w, resp)
}

// handleGetTemplate handles GET /templates/{type}?mandatory=true&format=yaml
// The body is the rendered document; errors are returned as a
// TemplateResponse.
func (c *Component) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	typeName := extractTypeName(r.URL.Path)
	if typeName == "" {
		http.Error(w, "Type name required", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	req := &TemplateRequest{
		Type:   typeName,
		Format: query.Get("format"),
	}
	if v := query.Get("mandatory"); v != "" {
		mandatory, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid mandatory flag", http.StatusBadRequest)
			return
		}
		req.MandatoryOnly = mandatory
	}

	resp := c.serve(req)
	if resp.Error != "" {
		c.writeResponse(w, resp)
		return
	}

	body := []byte(resp.Rendered)
	if resp.Template != nil {
		body = resp.Template
	}
	info, _ := export.GetFormatInfo(export.Format(resp.Format))
	w.Header().Set("Content-Type", info.MIMEType)
	w.Header().Set("X-Shape-Generation", resp.Generation)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		c.logger.Warn("Failed to write response", "error", err)
	}
}

// handleGetCatalog handles GET /catalog?format=turtle&profile=cco
func (c *Component) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	holder := c.Holder()
	if holder == nil {
		http.Error(w, "Shape registry not loaded", http.StatusServiceUnavailable)
		return
	}

	format := export.FormatTurtle
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}
	profile := export.GetProfileConfig(export.Profile(r.URL.Query().Get("profile"))).Name

	reg := holder.Registry()
	out, err := graph.ExportCatalog(reg, format, profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, _ := export.GetFormatInfo(format)
	w.Header().Set("Content-Type", info.MIMEType)
	w.Header().Set("X-Shape-Generation", reg.Generation())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		c.logger.Warn("Failed to write response", "error", err)
	}
}

// writeResponse writes resp as JSON with a status derived from its error kind.
func (c *Component) writeResponse(w http.ResponseWriter, resp *TemplateResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(resp.ErrorKind))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.logger.Warn("Failed to write response", "error", err)
	}
}

func statusFor(kind string) int {
	switch kind {
	case "":
		return http.StatusOK
	case ErrorKindUnknownType:
		return http.StatusNotFound
	case ErrorKindInvalidRequest:
		return http.StatusBadRequest
	case ErrorKindCycle:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// extractTypeName extracts the type name from a path like /shape-template/templates/{type}
func extractTypeName(path string) string {
	idx := strings.LastIndex(path, "/templates/")
	if idx == -1 {
		return ""
	}
	return strings.TrimSuffix(path[idx+len("/templates/"):], "/")
}
