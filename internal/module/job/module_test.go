package job

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestJobModuleRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	public := r.Group("/api/v1")
	authed := r.Group("/api/v1")

	mod := NewModule(&JobHandler{})
	mod.RegisterRoutes(public, authed)

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/jobs"},
		{http.MethodGet, "/api/v1/jobs"},
		{http.MethodGet, "/api/v1/jobs/:id"},
		{http.MethodPut, "/api/v1/jobs/:id"},
		{http.MethodDelete, "/api/v1/jobs/:id"},
		{http.MethodDelete, "/api/v1/jobs/mass-delete"},
	}

	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+":"+ri.Path] = true
	}

	for _, exp := range expected {
		key := exp.method + ":" + exp.path
		if !registered[key] {
			t.Errorf("expected route %s %s to be registered", exp.method, exp.path)
		}
	}
}

func TestNewModule_PanicsOnNilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewModule() expected panic for nil handler, got none")
		}
	}()

	_ = NewModule(nil)
}
