package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avickk/internship_backend_v1/internal/config"
	"github.com/avickk/internship_backend_v1/internal/controllers"
	"github.com/avickk/internship_backend_v1/internal/middleware"
	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
	"github.com/avickk/internship_backend_v1/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *ws.Hub) {
	expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
	if err != nil || expiresMins == 0 {
		expiresMins = 60 * time.Minute
	}

	var notify services.Notifier = services.NopNotifier{}
	if hub != nil {
		notify = hub
	}

	// Services
	applicationSvc := &services.ApplicationService{DB: db, Notify: notify}
	agreementSvc := &services.AgreementService{DB: db, Notify: notify}
	placementSvc := &services.PlacementService{DB: db, Notify: notify}
	taskSvc := &services.TaskService{DB: db, Notify: notify}
	weeklySvc := &services.WeeklyUpdateService{DB: db, Notify: notify}
	reportSvc := &services.ReportService{DB: db, Notify: notify}

	// Controllers
	authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, ExpiresIn: expiresMins}
	adminCtrl := &controllers.AdminController{DB: db}
	applicationCtrl := &controllers.ApplicationController{Service: applicationSvc}
	agreementCtrl := &controllers.AgreementController{Service: agreementSvc}
	placementCtrl := &controllers.PlacementController{Service: placementSvc}
	taskCtrl := &controllers.TaskController{Service: taskSvc}
	submissionCtrl := &controllers.SubmissionController{Service: taskSvc}
	weeklyCtrl := &controllers.WeeklyUpdateController{Service: weeklySvc}
	reportCtrl := &controllers.ReportController{Service: reportSvc}

	// Public
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authCtrl.Login)
	}

	// Protected
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		JWTExpiresIn: expiresMins,
	})
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)

		if hub != nil {
			api.GET("/ws/notifications", ws.Handler(hub))
		}

		// Super-admin only
		admin := api.Group("/admin", middleware.RequireRoles(models.RoleSuperAdmin))
		{
			admin.GET("/users", adminCtrl.ListUsers)
			admin.POST("/users", authCtrl.Register) // admin-only registration
			admin.GET("/users/:user_id", adminCtrl.GetUser)
			admin.PUT("/users/:user_id", adminCtrl.UpdateUser)
			admin.POST("/users/:user_id/reset-password", adminCtrl.ResetPassword)
			admin.DELETE("/users/:user_id", adminCtrl.DeleteUser)

			admin.GET("/applications", applicationCtrl.List)
			admin.POST("/applications/:id/decision", applicationCtrl.Decide)

			admin.POST("/students/:user_id/placement", placementCtrl.Assign)
			admin.GET("/students/:user_id/reports", reportCtrl.ListForStudent)
		}

		// Student area
		student := api.Group("/student", middleware.RequireRoles(models.RoleStudent))
		{
			student.POST("/applications", applicationCtrl.Submit)
			student.GET("/applications", applicationCtrl.ListMine)
			student.POST("/agreement", agreementCtrl.Submit)
			student.GET("/tasks", taskCtrl.ListStudent)
			student.PUT("/tasks/:id/submission", submissionCtrl.SubmitWork)
			student.PUT("/weekly-updates/:week", weeklyCtrl.Submit)
			student.GET("/weekly-updates", weeklyCtrl.ListMine)
		}

		// Faculty area (and super-admin)
		faculty := api.Group("/faculty", middleware.RequireRoles(models.RoleFaculty))
		{
			faculty.GET("/agreements", agreementCtrl.ListSubmitted)
			faculty.POST("/agreements/:id/verify", agreementCtrl.Verify)
			faculty.POST("/submissions/:id/grade", submissionCtrl.GradeByFaculty)
			faculty.GET("/students/:user_id/submissions", submissionCtrl.ListForStudent)
			faculty.GET("/students/:user_id/weekly-updates", weeklyCtrl.ListForStudent)
			faculty.POST("/weekly-updates/:id/review", weeklyCtrl.Review)
			faculty.PUT("/students/:user_id/report", reportCtrl.Upsert)
		}

		// Company area (and super-admin)
		company := api.Group("/company", middleware.RequireRoles(models.RoleCompany))
		{
			company.POST("/tasks", taskCtrl.Create)
			company.GET("/tasks", taskCtrl.ListCompany)
			company.POST("/tasks/:id/close", taskCtrl.Close)
			company.GET("/tasks/:id/submissions", submissionCtrl.ListForTask)
			company.POST("/submissions/:id/grade", submissionCtrl.GradeByCompany)
		}
	}
}
