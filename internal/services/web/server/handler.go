package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/meusanuncios/anuncios/internal/services/auth/user"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/modules/anuncios"
	"github.com/meusanuncios/anuncios/internal/services/web/modules/claim"
	"github.com/meusanuncios/anuncios/internal/services/web/modules/public"
	"github.com/meusanuncios/anuncios/internal/services/web/modules/settings"
	"github.com/meusanuncios/anuncios/internal/services/web/modules/simulator"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/requestmeta"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/sessioncookie"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/webctx"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	"github.com/meusanuncios/anuncios/internal/services/web/static"
)

// appPrefix guards the authenticated surface.
const appPrefix = "/app/"

func newHandler(config Config, services Services) (http.Handler, error) {
	resolvers := newResolvers()
	base := modulehandler.NewBase(resolvers.userID, resolvers.language, resolvers.viewer)

	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.Healthz, handleHealthz)
	mux.Handle(http.MethodGet+" /static/", http.StripPrefix("/static/", http.FileServerFS(static.FS)))

	features := []module.Module{
		public.New(services.Auth, base),
		simulator.New(base),
		claim.New(services.Listings, services.Grants, base),
		anuncios.New(services.Listings, services.Auth, services.Parser, services.Grants, base),
		settings.New(services.Auth, services.Billing, services.Listings, base),
	}
	seen := map[string]string{}
	for _, feature := range features {
		if err := mountFeature(mux, feature, seen); err != nil {
			return nil, err
		}
	}

	handler := httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		schemeMiddleware(config),
		sessionMiddleware(services),
	)
	return handler, nil
}

func mountFeature(mux *http.ServeMux, feature module.Module, seen map[string]string) error {
	if feature == nil {
		return fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount()
	if err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix := strings.TrimSpace(mount.Prefix)
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module %q has invalid prefix %q", feature.ID(), mount.Prefix)
	}
	if mount.Handler == nil {
		return fmt.Errorf("module %q has no handler", feature.ID())
	}

	handler := mount.Handler
	if strings.HasPrefix(prefix, appPrefix) {
		handler = requireAuth(handler)
	}
	if err := mountPrefix(mux, feature.ID(), prefix, handler, seen); err != nil {
		return err
	}
	// Subtree prefixes also answer on the slashless path.
	if alias := strings.TrimSuffix(prefix, "/"); alias != "" && alias != prefix {
		if err := mountPrefix(mux, feature.ID(), alias, handler, seen); err != nil {
			return err
		}
	}
	return nil
}

func mountPrefix(mux *http.ServeMux, moduleID, prefix string, handler http.Handler, seen map[string]string) error {
	if owner, taken := seen[prefix]; taken {
		return fmt.Errorf("module %q prefix %q already mounted by %q", moduleID, prefix, owner)
	}
	seen[prefix] = moduleID
	mux.Handle(prefix, handler)
	return nil
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if webctx.UserIDFrom(r.Context()) == "" {
			httpx.WriteRedirect(w, r, routepath.Login)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// schemeMiddleware normalizes the request scheme so cookie helpers see
// HTTPS when a trusted proxy terminated TLS.
func schemeMiddleware(config Config) httpx.Middleware {
	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL != nil && r.URL.Scheme == "" && requestmeta.IsHTTPSWithPolicy(r, policy) {
				clone := r.Clone(r.Context())
				clone.URL.Scheme = "https"
				next.ServeHTTP(w, clone)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionMiddleware resolves the browser session cookie into a request
// user. Invalid or expired sessions clear the cookie and continue
// anonymously.
func sessionMiddleware(services Services) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessioncookie.Read(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			record, _, err := services.Auth.ValidateWebSession(r.Context(), sessionID)
			if err != nil {
				sessioncookie.Clear(w, r)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(webctx.WithUser(r.Context(), record)))
		})
	}
}

type resolvers struct{}

func newResolvers() resolvers { return resolvers{} }

func (resolvers) userID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return webctx.UserIDFrom(r.Context())
}

func (resolvers) language(r *http.Request) string {
	record, ok := requestUser(r)
	if !ok {
		return ""
	}
	return record.Locale
}

func (resolvers) viewer(r *http.Request) module.Viewer {
	record, ok := requestUser(r)
	if !ok {
		return module.Viewer{}
	}
	displayName := record.DisplayName
	if displayName == "" {
		displayName = record.Username
	}
	return module.Viewer{
		DisplayName: displayName,
		Username:    record.Username,
		SignedIn:    true,
	}
}

func requestUser(r *http.Request) (user.User, bool) {
	if r == nil {
		return user.User{}, false
	}
	return webctx.UserFrom(r.Context())
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
