package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkrauss/inkwell/internal/blob"
	"github.com/dkrauss/inkwell/internal/config"
	"github.com/dkrauss/inkwell/internal/handlers"
	"github.com/dkrauss/inkwell/internal/livesync"
	"github.com/dkrauss/inkwell/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	// Configure slog as early as possible in main.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; JSONHandler would suit production.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init document store
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Blob store for uploads
	uploads, err := blob.NewStore(cfg.UploadDir, "/static/uploads")
	if err != nil {
		slog.Error("Failed to initialize upload store", "error", err)
		os.Exit(1)
	}

	// 6. Live sync: one subscription per collection, open for the life
	// of the process. Subscription failures surface through the banner
	// on the next page render; they never stop the server.
	banner := &handlers.SyncBanner{}
	live := livesync.NewManager(db, func(err error) {
		banner.Set(err.Error())
	})
	live.Start()
	gateway := livesync.NewGateway(db)

	// 7. Handlers
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		Live:         live,
		Gateway:      gateway,
		Uploads:      uploads,
		SessionStore: sessionStore,
		Templates:    templates,
		Banner:       banner,
	}
	publicHandler := &handlers.PublicHandler{
		Live:         live,
		Gateway:      gateway,
		Uploads:      uploads,
		SessionStore: sessionStore,
		Templates:    templates,
		Banner:       banner,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate Limiter (1 request per minute on public submissions)
	rateLimiter := handlers.NewRateLimiter(1 * time.Minute)

	// Public Routes
	mux.HandleFunc("/", publicHandler.Index)
	mux.HandleFunc("/showroom", publicHandler.Showroom)
	mux.HandleFunc("/specials", publicHandler.Specials)
	mux.HandleFunc("/booking", publicHandler.BookingForm)
	mux.HandleFunc("POST /booking", rateLimiter.Middleware(publicHandler.SubmitBooking))

	mux.HandleFunc("/login", adminHandler.LoginGet)
	mux.HandleFunc("POST /login", adminHandler.LoginPost)
	mux.HandleFunc("/logout", adminHandler.Logout)

	// Protected Routes
	auth := adminHandler.AuthMiddleware
	mux.HandleFunc("/admin", auth(adminHandler.Dashboard))

	mux.HandleFunc("/admin/portfolio", auth(adminHandler.ListPortfolio))
	mux.HandleFunc("/admin/portfolio/edit", auth(adminHandler.PortfolioForm))
	mux.HandleFunc("POST /admin/portfolio", auth(adminHandler.SavePortfolio))
	mux.HandleFunc("POST /admin/portfolio/delete", auth(adminHandler.DeletePortfolio))

	mux.HandleFunc("/admin/showroom", auth(adminHandler.ListShowroom))
	mux.HandleFunc("POST /admin/showroom/genres", auth(adminHandler.CreateGenre))
	mux.HandleFunc("POST /admin/showroom/genres/delete", auth(adminHandler.DeleteGenre))
	mux.HandleFunc("POST /admin/showroom/items", auth(adminHandler.AddGenreItem))
	mux.HandleFunc("POST /admin/showroom/items/delete", auth(adminHandler.RemoveGenreItem))

	mux.HandleFunc("/admin/specials", auth(adminHandler.ListSpecials))
	mux.HandleFunc("POST /admin/specials", auth(adminHandler.SaveSpecial))
	mux.HandleFunc("POST /admin/specials/delete", auth(adminHandler.DeleteSpecial))

	mux.HandleFunc("/admin/bookings", auth(adminHandler.ListBookings))
	mux.HandleFunc("POST /admin/bookings", auth(adminHandler.CreateManualBooking))
	mux.HandleFunc("POST /admin/bookings/update", auth(adminHandler.UpdateBooking))
	mux.HandleFunc("POST /admin/bookings/delete", auth(adminHandler.DeleteBooking))
	mux.HandleFunc("POST /admin/bookings/supplies", auth(adminHandler.FinalizeSupplies))

	mux.HandleFunc("/admin/expenses", auth(adminHandler.ListExpenses))
	mux.HandleFunc("POST /admin/expenses", auth(adminHandler.SaveExpense))
	mux.HandleFunc("POST /admin/expenses/delete", auth(adminHandler.DeleteExpense))

	mux.HandleFunc("/admin/inventory", auth(adminHandler.ListInventory))
	mux.HandleFunc("POST /admin/inventory", auth(adminHandler.SaveInventoryItem))
	mux.HandleFunc("POST /admin/inventory/delete", auth(adminHandler.DeleteInventoryItem))

	mux.HandleFunc("/admin/settings", auth(adminHandler.SettingsForm))
	mux.HandleFunc("POST /admin/settings", auth(adminHandler.SaveSettings))
	mux.HandleFunc("POST /admin/clear-all", auth(adminHandler.ClearAll))

	// 8. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 9. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	// Release the live subscriptions before closing the database.
	live.Stop()
	if err := db.Close(); err != nil {
		slog.Error("Store close failed", "error", err)
	}

	slog.Info("Server exited gracefully.")
}
