package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/handlers"
	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	"taskflow/internal/repository/inmemory"
	"taskflow/internal/repository/postgres"
	"taskflow/internal/service"
	"taskflow/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	router    *chi.Mux
	worker    *worker.OverdueWorker
	shutdowns []func() // вызываются в обратном порядке при остановке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгера")
		logger.Sync()
	})

	var taskRepo service.TaskRepository
	var userRepo service.UserRepository

	switch a.config.Repository.Type {
	case "postgres":
		if err := postgres.RunMigrations(a.config.Database.URL, a.config.Database.MigrationsDir); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		taskRepo = postgres.NewTaskStorage(storage)
		userRepo = postgres.NewUserStorage(storage)
	case "inmemory":
		taskRepo = inmemory.NewTaskStorage()
		userRepo = inmemory.NewUserStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}

	taskService := service.NewTaskService(taskRepo)
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, []byte(a.config.Auth.Secret), a.config.Auth.TokenTTL)

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService)

	a.router = buildRouter(a.config, &taskHandler, &userHandler, &authHandler, authService)

	if a.config.Worker.Enabled {
		a.worker = worker.New(taskRepo, a.config.Worker.Interval)
	}

	return nil
}

func buildRouter(cfg *config.Config, taskHandler *handlers.TaskHandler, userHandler *handlers.UserHandler, authHandler *handlers.AuthHandler, auth middleware.Authenticator) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	r.Get("/health", taskHandler.HealthCheck)
	r.Get("/test", handlers.Test)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register) // POST /auth/register
		r.Post("/login", authHandler.Login)       // POST /auth/login
	})

	// всё ниже доступно только с валидным bearer-токеном
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(auth))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetTasks)                 // GET /tasks
			r.Post("/", taskHandler.PostTask)                // POST /tasks
			r.Put("/{id}", taskHandler.UpdateTask)           // PUT /tasks/{id}
			r.Delete("/{id}", taskHandler.DeleteTask)        // DELETE /tasks/{id}
			r.Get("/stats/overview", taskHandler.GetStats)   // GET /tasks/stats/overview
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", userHandler.GetProfile)              // GET /users/profile
			r.Put("/profile", userHandler.UpdateProfile)           // PUT /users/profile
			r.Put("/change-password", userHandler.ChangePassword)  // PUT /users/change-password
			r.Get("/stats", userHandler.GetStats)                  // GET /users/stats
		})
	})

	return r
}

// Run блокируется до сигнала остановки или падения сервера
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	server := &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return err
	case <-ctx.Done():
	}

	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера", err)
	}

	a.runShutdowns()
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
