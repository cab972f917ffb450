package githubauth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable is an HTTP service that can be mounted on a sub-route.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions selects the services mounted under /auth.
type RouterOptions struct {
	GitHub Mountable
}

// Router mounts the configured sign in services:
//
//	r.Mount("/", githubauth.Router(githubauth.RouterOptions{GitHub: svc}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(auth chi.Router) {
		if opts.GitHub != nil {
			auth.Mount("/github", opts.GitHub.Handle())
		}
	})

	return r
}
