package app

import (
	"context"
	"log"
	"net/http"

	"taskman/internal/auth"
	"taskman/internal/cache"
	"taskman/internal/config"
	"taskman/internal/handlers"
	"taskman/internal/health"
	"taskman/internal/repo"
	"taskman/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine and seeds the admin account.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, checker *health.Checker) error {
	r.GET("/health", healthHandler(cfg, checker))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	sessions := auth.NewStore(rdb, cfg.Session.TTL.Duration())

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, checker)

	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache, checker)

	if cfg.Admin.Password != "" {
		if err := userSvc.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return err
		}
	} else {
		log.Printf("ADMIN_PASSWORD not set, skipping admin seeding")
	}

	registerWebRoutes(r, cfg, sessions, userSvc, taskSvc)
	registerAPIRoutes(r, sessions, userSvc, taskSvc)
	return nil
}

func registerWebRoutes(r *gin.Engine, cfg config.Config, sessions *auth.Store, userSvc *service.UserService, taskSvc *service.TaskService) {
	webAuth := handlers.NewWebAuth(sessions, userSvc, cfg.HTTP.CookieSecure)
	webTasks := handlers.NewWebTasks(taskSvc)
	webUsers := handlers.NewWebUsers(userSvc)

	public := r.Group("", auth.Optional(sessions))
	public.GET("/", webAuth.Root)
	public.GET("/login", webAuth.LoginPage)
	public.POST("/login", webAuth.Login)
	public.GET("/signup", webAuth.SignupPage)
	public.POST("/signup", webAuth.Signup)
	public.POST("/logout", webAuth.Logout)

	private := r.Group("", auth.RequireSessionWeb(sessions))
	private.GET("/dashboard", webAuth.Dashboard)
	private.GET("/tasks", webTasks.ListPage)
	private.GET("/tasks/create", webTasks.CreatePage)
	private.POST("/tasks/create", webTasks.Create)
	private.GET("/tasks/edit/:id", webTasks.EditPage)
	private.POST("/tasks/edit/:id", webTasks.Edit)
	private.POST("/tasks/delete/:id", webTasks.Delete)

	admin := r.Group("", auth.RequireAdminWeb(sessions))
	admin.GET("/users", webUsers.ListPage)
	admin.GET("/users/create", webUsers.CreatePage)
	admin.POST("/users/create", webUsers.Create)
	admin.GET("/users/edit/:id", webUsers.EditPage)
	admin.POST("/users/edit/:id", webUsers.Edit)
	admin.POST("/users/delete/:id", webUsers.Delete)
}

func registerAPIRoutes(r *gin.Engine, sessions *auth.Store, userSvc *service.UserService, taskSvc *service.TaskService) {
	taskAPI := handlers.NewTaskAPI(taskSvc)
	userAPI := handlers.NewUserAPI(userSvc)

	tasks := r.Group("/api/tasks", auth.RequireSession(sessions))
	tasks.GET("", taskAPI.List)
	tasks.POST("", taskAPI.Create)
	tasks.GET("/:id", taskAPI.Get)
	tasks.PUT("/:id", taskAPI.Update)
	tasks.DELETE("/:id", taskAPI.Delete)

	// The user API stays unauthenticated, matching the reference deployment.
	users := r.Group("/api/users")
	users.GET("", userAPI.List)
	users.POST("", userAPI.Create)
	users.GET("/:id", userAPI.Get)
	users.PUT("/:id", userAPI.Update)
	users.DELETE("/:id", userAPI.Delete)
}

func healthHandler(cfg config.Config, checker *health.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeUp := checker == nil || checker.Available()
		status := http.StatusOK
		if !storeUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": storeUp, "env": cfg.App.Env, "store": storeUp})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
