package routes

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/authz"
	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/handlers"
	"github.com/yukikurage/staffdesk/internal/middleware"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/realtime"
	"github.com/yukikurage/staffdesk/internal/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	SessionStore     sessions.Store
	AuthService      *services.AuthService
	TaskService      *services.TaskService
	EmployeeService  *services.EmployeeService
	DashboardService *services.DashboardService
	Hub              *realtime.Hub
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// CORS middleware (for frontend integration)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))
	r.Use(middleware.LoadSession(deps.AuthService))

	// Task event streams end with the session that opened them
	deps.AuthService.OnSessionChange(deps.Hub.CloseAll)

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	employeeHandler := handlers.NewEmployeeHandler(deps.EmployeeService)
	viewHandler := handlers.NewViewHandler(deps.TaskService, deps.EmployeeService, deps.DashboardService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Staff task administration API is running",
		})
	})

	// Views
	r.GET(authz.LoginView, middleware.RequireLoginView(), viewHandler.Login)
	views := map[string]gin.HandlerFunc{
		authz.RootPath:              viewHandler.Root,
		authz.AdminDashboardPath:    viewHandler.AdminDashboard,
		authz.AdminEmployeesPath:    viewHandler.AdminEmployees,
		authz.AdminEmployeeAddPath:  viewHandler.AdminEmployeeAdd,
		authz.AdminEmployeeEditPath: viewHandler.AdminEmployeeEdit,
		authz.AdminTasksPath:        viewHandler.AdminTasks,
		authz.AdminTaskAddPath:      viewHandler.AdminTaskAdd,
		authz.AdminTaskEditPath:     viewHandler.AdminTaskEdit,
		authz.EmployeeDashboardPath: viewHandler.EmployeeDashboard,
		authz.EmployeeTasksPath:     viewHandler.EmployeeTasks,
	}
	for _, route := range authz.Views {
		r.GET(route.Path, middleware.RequireView(route), views[route.Path])
	}
	r.NoRoute(middleware.FallbackRedirect())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentSession)
		}

		employees := api.Group("/employees")
		employees.Use(middleware.RequireAuth())
		{
			employees.GET("", employeeHandler.ListEmployees)
			employees.GET("/:id", employeeHandler.GetEmployee)

			manage := employees.Group("", middleware.RequireRoles(models.RoleAdmin), middleware.RequireEmployeeManagement(deps.EmployeeService.Managed()))
			manage.POST("", employeeHandler.CreateEmployee)
			manage.PUT("/:id", employeeHandler.UpdateEmployee)
			manage.DELETE("/:id", employeeHandler.DeleteEmployee)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(deps.TaskService), taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		my := api.Group("/my")
		my.Use(middleware.RequireRoles(models.RoleEmployee))
		{
			my.GET("/tasks", taskHandler.ListMyTasks)
			my.PATCH("/tasks/:id/status", taskHandler.UpdateMyTaskStatus)
		}

		api.GET("/ws", middleware.RequireAuth(), handlers.WebSocketHandler(deps.Hub))
	}

	return r
}
