// Package apps keeps the ordered list of installed components and checks
// that the configured middleware chain only relies on installed ones.
package apps

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Installed component identifiers.
const (
	Admin          = "admin"
	Auth           = "auth"
	ContentTypes   = "contenttypes"
	Sessions       = "sessions"
	Messages       = "messages"
	StaticFiles    = "staticfiles"
	REST           = "rest_framework"
	JWT            = "rest_framework_simplejwt"
	TokenBlacklist = "rest_framework_simplejwt.token_blacklist"
	CORSHeaders    = "corsheaders"
	Users          = "users"
	Tutorials      = "tutorials"
)

// Middleware names that depend on installed components.
const (
	MiddlewareSecurity       = "security"
	MiddlewareCORS           = "cors"
	MiddlewareSessions       = "sessions"
	MiddlewareCommon         = "common"
	MiddlewareCSRF           = "csrf"
	MiddlewareAuthentication = "authentication"
	MiddlewareMessages       = "messages"
	MiddlewareClickjacking   = "clickjacking"
	MiddlewareGzip           = "gzip"
)

var knownMiddleware = map[string]struct{}{
	MiddlewareSecurity: {}, MiddlewareCORS: {}, MiddlewareSessions: {}, MiddlewareCommon: {},
	MiddlewareCSRF: {}, MiddlewareAuthentication: {}, MiddlewareMessages: {}, MiddlewareClickjacking: {},
	MiddlewareGzip: {},
}

var known = map[string]struct{}{
	Admin: {}, Auth: {}, ContentTypes: {}, Sessions: {}, Messages: {}, StaticFiles: {},
	REST: {}, JWT: {}, TokenBlacklist: {}, CORSHeaders: {}, Users: {}, Tutorials: {},
}

// appDeps lists components that must be installed together with the key.
var appDeps = map[string][]string{
	TokenBlacklist: {JWT},
	JWT:            {REST},
	Admin:          {Auth, ContentTypes, Sessions, Messages},
	Auth:           {ContentTypes},
}

// middlewareDeps lists components a middleware needs.
var middlewareDeps = map[string][]string{
	MiddlewareCORS:           {CORSHeaders},
	MiddlewareSessions:       {Sessions},
	MiddlewareAuthentication: {Auth},
	MiddlewareMessages:       {Messages},
}

// middlewareAfter lists middleware that must appear earlier in the chain.
var middlewareAfter = map[string][]string{
	MiddlewareAuthentication: {MiddlewareSessions},
	MiddlewareMessages:       {MiddlewareSessions},
}

var ErrUnknownApp = errors.New("unknown installed component")

// Registry is an immutable ordered set of installed components
type Registry struct {
	names []string
	index map[string]struct{}
}

// New builds Registry from identifiers keeping their order
func New(names []string) (*Registry, error) {
	r := &Registry{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownApp, name)
		}
		if _, dup := r.index[name]; dup {
			return nil, fmt.Errorf("component %q is installed twice", name)
		}
		r.names = append(r.names, name)
		r.index[name] = struct{}{}
	}

	var errs *multierror.Error
	for _, name := range r.names {
		for _, dep := range appDeps[name] {
			if !r.Installed(dep) {
				errs = multierror.Append(errs, fmt.Errorf("component %q requires %q", name, dep))
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return r, nil
}

// Installed reports whether component is installed
func (r *Registry) Installed(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns a copy of installed identifiers in configured order
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Validate checks that middleware depends only on installed components and
// that ordering constraints between middleware hold
func (r *Registry) Validate(middleware []string) error {
	var errs *multierror.Error
	for i, mw := range middleware {
		if _, ok := knownMiddleware[mw]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("unknown middleware %q", mw))
			continue
		}
		for _, dep := range middlewareDeps[mw] {
			if !r.Installed(dep) {
				errs = multierror.Append(errs, fmt.Errorf("middleware %q requires component %q", mw, dep))
			}
		}
		for _, before := range middlewareAfter[mw] {
			pos := slices.Index(middleware, before)
			if pos < 0 || pos > i {
				errs = multierror.Append(errs, fmt.Errorf("middleware %q must be placed after %q", mw, before))
			}
		}
	}
	return errs.ErrorOrNil()
}
