package http

import (
	"net/http"
	"strings"
	"time"

	"projmatch/internal/http/handlers"
	"projmatch/internal/http/metrics"
	httpmw "projmatch/internal/http/middleware"
)

type RouterDependencies struct {
	UserHandler        *handlers.UserHandler
	ProjectHandler     *handlers.ProjectHandler
	ApplicationHandler *handlers.ApplicationHandler
	ArchiveHandler     *handlers.ArchiveHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.Metrics.Handler().ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/users":
			r.deps.UserHandler.Register(w, req)
			return
		case req.Method == http.MethodGet && path == "/supervisors":
			r.deps.UserHandler.ListSupervisors(w, req)
			return
		case req.Method == http.MethodGet && path == "/projects":
			r.deps.ProjectHandler.Search(w, req)
			return
		case req.Method == http.MethodGet && path == "/completed-projects":
			r.deps.ArchiveHandler.Search(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/projects/") && path != "/projects/mine":
			r.deps.ProjectHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/users/") || strings.HasPrefix(path, "/projects") || strings.HasPrefix(path, "/applications") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/users/"):
		r.deps.UserHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/users/"):
		r.deps.UserHandler.Update(w, req)
		return
	case req.Method == http.MethodPost && path == "/projects":
		r.deps.ProjectHandler.Create(w, req)
		return
	case req.Method == http.MethodGet && path == "/projects/mine":
		r.deps.ProjectHandler.Mine(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/projects/"):
		r.deps.ProjectHandler.Update(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/projects/"):
		r.deps.ProjectHandler.Delete(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		r.deps.ApplicationHandler.Apply(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications/proposal":
		r.deps.ApplicationHandler.SubmitProposal(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/"):
		r.deps.ApplicationHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		r.deps.ApplicationHandler.UpdateStatus(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/"):
		r.deps.ApplicationHandler.Patch(w, req)
		return
	}

	http.NotFound(w, req)
}
