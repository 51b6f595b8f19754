package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"quizmaster/config"
	"quizmaster/database"
	_ "quizmaster/docs" // Swagger docs - auto-generated
	"quizmaster/internal/auth"
	adminctrl "quizmaster/internal/controller/admin"
	authctrl "quizmaster/internal/controller/auth"
	studentctrl "quizmaster/internal/controller/student"
	"quizmaster/internal/logger"
	"quizmaster/internal/middleware"
	"quizmaster/internal/repository"
	"quizmaster/internal/service"
)

// @title Quizmaster API
// @version 1.0
// @description Quiz administration backend: subjects, chapters, questions, quizzes, assignments and scored attempts.
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewClassRepository,
			repository.NewSubjectRepository,
			repository.NewChapterRepository,
			repository.NewQuestionRepository,
			repository.NewQuizRepository,
			repository.NewAssignmentRepository,
			repository.NewAttemptRepository,
			repository.NewSessionRepository,
		),

		// Services layer
		fx.Provide(
			func(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) service.AuthService {
				return service.NewAuthService(userRepo, sessionRepo, cfg.Session.TTL)
			},
			service.NewContentService,
			service.NewQuizService,
			service.NewAssignmentService,
			service.NewAttemptService,
			service.NewQuestionDrafterService,
		),

		// API controllers layer
		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewAdminController,
			studentctrl.NewStudentController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartSessionJanitor),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Route gin's request log through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures routes and manages the server
// lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authSvc service.AuthService,
	authController *authctrl.AuthController,
	adminController *adminctrl.AdminController,
	studentController *studentctrl.StudentController,
) {
	// Public routes
	router.GET("/health", authController.Health)
	router.GET("/user", authController.LoginEntry)
	router.POST("/user", authController.Login)
	router.GET("/newuser", authController.RegisterEntry)
	router.POST("/newuser", authController.Register)
	router.GET("/logout", authController.Logout)

	// Admin routes, gated per capability
	adminGroup := router.Group("/", middleware.Session(authSvc))
	{
		content := adminGroup.Group("/", middleware.RequireCapability(auth.CapManageContent))
		content.GET("/admin/:username", adminController.Dashboard)
		content.GET("/students", adminController.ListStudents)
		content.POST("/addsubject", adminController.AddSubject)
		content.GET("/subjects/:subject_id", adminController.GetSubject)
		content.PUT("/subjects/:subject_id", adminController.EditSubject)
		content.DELETE("/delete_subject/:subject_id", adminController.DeleteSubject)
		content.POST("/addchapter/:subject_id", adminController.AddChapter)
		content.PUT("/edit_chapter/:chapter_id", adminController.EditChapter)
		content.DELETE("/delete_chapter/:chapter_id", adminController.DeleteChapter)
		content.POST("/addquestion/:chapter_id", adminController.AddQuestion)
		content.GET("/chapters/:chapter_id/questions", adminController.ListQuestions)
		content.PUT("/questions/:question_id", adminController.EditQuestion)
		content.DELETE("/questions/:question_id", adminController.DeleteQuestion)

		quizzes := adminGroup.Group("/", middleware.RequireCapability(auth.CapManageQuizzes))
		quizzes.POST("/newquiz", adminController.NewQuiz)
		quizzes.GET("/quizzes", adminController.ListQuizzes)
		quizzes.GET("/quizzes/:quiz_id", adminController.GetQuiz)
		quizzes.PATCH("/quizzes/:quiz_id/active", adminController.SetQuizActive)

		assigning := adminGroup.Group("/", middleware.RequireCapability(auth.CapAssignQuizzes))
		assigning.POST("/assignquiz", adminController.AssignQuiz)
		assigning.DELETE("/assignments/:assignment_id", adminController.Unassign)
		assigning.POST("/newclass", adminController.NewClass)
		assigning.GET("/classes", adminController.ListClasses)

		drafting := adminGroup.Group("/", middleware.RequireCapability(auth.CapDraftQuestions))
		drafting.POST("/chapters/:chapter_id/draftquestions", adminController.DraftQuestions)
	}

	// Student routes
	studentGroup := router.Group("/", middleware.Session(authSvc))
	{
		taking := studentGroup.Group("/", middleware.RequireCapability(auth.CapTakeQuiz))
		taking.GET("/student/quizzes", studentController.ListQuizzes)
		taking.GET("/student/assignments", studentController.ListAssignments)
		taking.POST("/student/quiz/:quiz_id/start", studentController.StartQuiz)
		taking.GET("/quiz/take/:attempt_id", studentController.TakeQuiz)
		taking.POST("/quiz/submit/:attempt_id", studentController.SubmitQuiz)

		viewing := studentGroup.Group("/", middleware.RequireCapability(auth.CapViewOwnAttempts))
		viewing.GET("/userdash/:username", studentController.Dashboard)
		viewing.GET("/student/attempts", studentController.ListAttempts)

		// Results are open to any authenticated caller; the attempt engine
		// decides between owner access and view-all access.
		studentGroup.GET("/student/results/:attempt_id", studentController.Results)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quizmaster server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.Migrate(db)
}

// StartSessionJanitor sweeps expired sessions hourly. Expired tokens are
// also rejected (and deleted) on read, so the sweep only reclaims storage.
func StartSessionJanitor(lc fx.Lifecycle, sessions repository.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				for {
					select {
					case <-ticker.C:
						if err := sessions.DeleteExpired(time.Now()); err != nil {
							log.Warn().Err(err).Msg("Session janitor sweep failed")
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ticker.Stop()
			close(done)
			return nil
		},
	})
}
