package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/config"
	"github.com/yukikurage/staffdesk/internal/database"
	"github.com/yukikurage/staffdesk/internal/realtime"
	"github.com/yukikurage/staffdesk/internal/repository"
	"github.com/yukikurage/staffdesk/internal/routes"
	"github.com/yukikurage/staffdesk/internal/seed"
	"github.com/yukikurage/staffdesk/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Open the record store and seed it once
	kv, closeStore, err := database.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	store := repository.NewRecordStore(kv, nil)
	if err := store.Bootstrap(); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	var credentials services.CredentialSource = services.StaticCredentials(seed.Builtin().Credentials)
	if cfg.EmployeeManagement {
		log.Println("Managed-employee mode enabled")
		credentials = services.CombinedCredentials{
			Static:  services.StaticCredentials(seed.Builtin().Credentials),
			Dynamic: store,
		}
	}

	authService, err := services.NewAuthService(store, store, credentials)
	if err != nil {
		log.Fatalf("Failed to start session gate: %v", err)
	}

	hub := realtime.NewHub()

	// Initialize AI service
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	r := routes.SetupRoutes(routes.Dependencies{
		SessionStore:     sessionStore,
		AuthService:      authService,
		TaskService:      services.NewTaskService(store, store, hub, generator),
		EmployeeService:  services.NewEmployeeService(store, credentials, cfg.EmployeeManagement),
		DashboardService: services.NewDashboardService(store, store),
		Hub:              hub,
	})

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore builds the cookie session backend used for the return-to
// location and the uid echo.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "redis" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		s, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	return store, nil
}
