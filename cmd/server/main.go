package main

import (
	"github.com/andreyPromaster/Course/internal/config"
	"github.com/andreyPromaster/Course/internal/database"
	"github.com/andreyPromaster/Course/internal/handlers"
	"github.com/andreyPromaster/Course/internal/logger"
	"github.com/andreyPromaster/Course/internal/middleware"
	"github.com/andreyPromaster/Course/internal/services"

	_ "github.com/andreyPromaster/Course/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Classroom API
// @version         1.0
// @description     Quiz management API for teachers and students
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := database.Connect(cfg, log)
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to auto-migrate", "error", err)
	}
	log.Info("database migrated")

	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	attemptService := services.NewAttemptService(db)
	reportService := services.NewReportService(db)

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(quizService)
	reportHandler := handlers.NewReportHandler(quizService, reportService)
	studentHandler := handlers.NewStudentHandler(attemptService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		api.GET("/subjects", quizHandler.ListSubjects)

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.JWTAuth(authService), middleware.RequireTeacher())
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.PUT("/:id", quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
			quizzes.POST("/:id/questions", questionHandler.CreateQuestion)
			quizzes.GET("/:id/results", reportHandler.QuizResults)
			quizzes.GET("/:id/students/:student_id/answers", reportHandler.StudentsAnswers)
			quizzes.GET("/:id/pdf", reportHandler.ExportQuizPDF)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.JWTAuth(authService), middleware.RequireTeacher())
		{
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}

		analytics := api.Group("/analytics")
		analytics.Use(middleware.JWTAuth(authService), middleware.RequireTeacher())
		{
			analytics.GET("/taken-quizzes", reportHandler.AnalyticsTakenQuizzes)
		}

		student := api.Group("/student")
		student.Use(middleware.JWTAuth(authService), middleware.RequireStudent())
		{
			student.GET("/quizzes", studentHandler.AvailableQuizzes)
			student.GET("/taken", studentHandler.TakenQuizzes)
			student.POST("/quizzes/:id/attempt", studentHandler.SubmitAttempt)
			student.GET("/interests", studentHandler.GetInterests)
			student.PUT("/interests", studentHandler.UpdateInterests)
		}
	}

	log.Info("server starting", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("failed to start server", "error", err)
	}
}
