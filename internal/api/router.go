package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/shramba/internal/account"
	"github.com/erazemk/shramba/internal/catalog"
	"github.com/erazemk/shramba/internal/inventory"
	"github.com/erazemk/shramba/internal/ledger"
	"github.com/erazemk/shramba/internal/metrics"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/report"
	"github.com/erazemk/shramba/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
// Reports use loc for calendar months; m may be nil.
func NewRouter(db *sql.DB, jwtSecret string, loc *time.Location, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	tokens := &store.Tokens{DB: db}
	items := catalog.New(&store.Items{DB: db})
	activity := ledger.New(&store.Activities{DB: db})
	service := inventory.NewService(items, activity, m)
	reports := report.NewEngine(items, loc)

	accounts := account.NewDirectory(&store.Users{DB: db})
	authHandler := &AuthHandler{Accounts: accounts, Tokens: tokens, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{Accounts: accounts}
	itemsHandler := &ItemsHandler{Catalog: items, Inventory: service}
	activityHandler := &ActivityHandler{Ledger: activity, Inventory: service}
	reportsHandler := &ReportsHandler{Reports: reports, Now: time.Now}

	authMW := AuthMiddleware(jwtSecret, tokens)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("shramba is running\n"))
	})

	// Public: accounts.
	mux.HandleFunc("POST /api/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.Handle("POST /api/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items; photos are manager+.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireManager(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Reports.
	mux.Handle("GET /api/expiring-soon", authMW(http.HandlerFunc(reportsHandler.ExpiringSoon)))
	mux.Handle("GET /api/spending-summary", authMW(http.HandlerFunc(reportsHandler.SpendingSummary)))
	mux.Handle("GET /api/overview", authMW(http.HandlerFunc(reportsHandler.Overview)))

	// Activity log; reconciliation is admin only.
	mux.Handle("GET /api/activity", authMW(http.HandlerFunc(activityHandler.List)))
	mux.Handle("POST /api/activity", authMW(http.HandlerFunc(activityHandler.Create)))
	mux.Handle("POST /api/activity/delete-broken", authMW(requireAdmin(http.HandlerFunc(activityHandler.DeleteBroken))))

	return mux
}
