package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/university-portal-api/api/swagger"
	"github.com/noah-isme/university-portal-api/internal/handler"
	"github.com/noah-isme/university-portal-api/internal/middleware"
	"github.com/noah-isme/university-portal-api/internal/models"
	"github.com/noah-isme/university-portal-api/internal/repository"
	"github.com/noah-isme/university-portal-api/internal/service"
	"github.com/noah-isme/university-portal-api/pkg/cache"
	"github.com/noah-isme/university-portal-api/pkg/config"
	"github.com/noah-isme/university-portal-api/pkg/database"
	"github.com/noah-isme/university-portal-api/pkg/export"
	"github.com/noah-isme/university-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/university-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/university-portal-api/pkg/middleware/requestid"
)

// @title University Portal API
// @version 1.0.0
// @description Role-based university portal backed by MongoDB, Neo4j, Redis and InfluxDB
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, closeMongo, err := database.NewMongo(cfg.Mongo)
	if err != nil {
		logr.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := closeMongo(shutdownCtx); err != nil {
			logr.Warn("mongo close failed", zap.Error(err))
		}
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logr.Fatal("index creation failed", zap.Error(err))
	}

	graphDriver, err := database.NewNeo4j(ctx, cfg.Neo4j)
	if err != nil {
		logr.Fatal("neo4j connection failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := graphDriver.Close(shutdownCtx); err != nil {
			logr.Warn("neo4j close failed", zap.Error(err))
		}
	}()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	influxClient := database.NewInflux(cfg.Influx)
	defer influxClient.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(db, cfg.StoreTimeout)
	studentRepo := repository.NewStudentRepository(db, cfg.StoreTimeout)
	instructorRepo := repository.NewInstructorRepository(db, cfg.StoreTimeout)
	majorRepo := repository.NewMajorRepository(db, cfg.StoreTimeout)
	roomRepo := repository.NewRoomRepository(db, cfg.StoreTimeout)
	courseRepo := repository.NewCourseRepository(db, cfg.StoreTimeout)
	enrollmentRepo := repository.NewEnrollmentRepository(db, cfg.StoreTimeout)
	assignmentRepo := repository.NewAssignmentRepository(db, cfg.StoreTimeout)
	graphRepo := repository.NewGraphRepository(graphDriver, cfg.StoreTimeout)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	sessionRepo := repository.NewSessionRepository(redisClient)
	activityRepo := repository.NewActivityRepository(influxClient, cfg.Influx)

	// Services.
	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	pipeline := service.NewPipeline(logr, metricsSvc)
	sessionSvc := service.NewSessionService(sessionRepo, cfg.Session.TTL, logr)
	authSvc := service.NewAuthService(userRepo, sessionSvc, activityRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	})

	var credentials service.CredentialsWriter
	if cfg.Credentials.Enabled {
		writer, err := export.NewCredentialsWriter(cfg.Credentials.Dir)
		if err != nil {
			logr.Fatal("credentials export init failed", zap.Error(err))
		}
		credentials = writer
	}

	registrationSvc := service.NewRegistrationService(studentRepo, instructorRepo, userRepo, majorRepo, credentials, validate, logr)
	catalogSvc := service.NewCatalogService(majorRepo, roomRepo, courseRepo, instructorRepo, graphRepo, cacheSvc, pipeline, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(studentRepo, courseRepo, enrollmentRepo, roomRepo, graphRepo, activityRepo, cacheSvc, pipeline, logr)
	studentSvc := service.NewStudentService(studentRepo, courseRepo, enrollmentRepo, assignmentRepo, graphRepo, activityRepo, cacheSvc, pipeline, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, courseRepo, assignmentRepo, enrollmentRepo, graphRepo, cacheSvc, pipeline, validate, logr)
	networkSvc := service.NewNetworkService(graphRepo, studentRepo)
	analyticsSvc := service.NewAnalyticsService(activityRepo, courseRepo, cfg.Analytics.ActivityWindow, cfg.Analytics.RankingWindow, logr)
	deanSvc := service.NewDeanService(studentRepo, majorRepo, studentSvc, networkSvc, analyticsSvc, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, enrollmentSvc, networkSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc, networkSvc)
	deanHandler := handler.NewDeanHandler(catalogSvc, registrationSvc, deanSvc, analyticsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), cfg.StoreTimeout)
		defer cancel()
		if err := db.Client().Ping(pingCtx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireSession := middleware.Session(authSvc, sessionSvc)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireSession, authHandler.Logout)
		}

		student := api.Group("/student", requireSession, middleware.RequireRoles(models.RoleStudent))
		{
			student.GET("/courses", studentHandler.Courses)
			student.GET("/courses/available", studentHandler.AvailableCourses)
			student.GET("/courses/:courseID", studentHandler.CourseDetails)
			student.POST("/courses/:courseID/enroll", studentHandler.Enroll)
			student.GET("/courses/:courseID/network", studentHandler.CourseNetwork)
			student.GET("/tasks/pending", studentHandler.PendingTasks)
			student.POST("/assignments/:assignmentID/answer", studentHandler.SubmitAnswer)
			student.GET("/performance", studentHandler.Performance)
			student.GET("/network", studentHandler.Network)
		}

		instructor := api.Group("/instructor", requireSession, middleware.RequireRoles(models.RoleInstructor))
		{
			instructor.GET("/courses", instructorHandler.Courses)
			instructor.GET("/courses/:courseID/assignments", instructorHandler.CourseAssignments)
			instructor.POST("/courses/:courseID/assignments", instructorHandler.CreateAssignment)
			instructor.GET("/courses/:courseID/students", instructorHandler.Roster)
			instructor.GET("/courses/:courseID/network", instructorHandler.CourseNetwork)
			instructor.GET("/assignments", instructorHandler.Assignments)
			instructor.POST("/assignments/:assignmentID/grade", instructorHandler.Grade)
			instructor.GET("/assignments/:assignmentID/answers/:studentID", instructorHandler.Answer)
		}

		dean := api.Group("/dean", requireSession, middleware.RequireRoles(models.RoleDean))
		{
			dean.POST("/majors", deanHandler.CreateMajor)
			dean.GET("/majors", deanHandler.ListMajors)
			dean.POST("/rooms", deanHandler.CreateRoom)
			dean.GET("/rooms/available", deanHandler.AvailableRooms)
			dean.POST("/courses", deanHandler.CreateCourse)
			dean.POST("/students", deanHandler.RegisterStudent)
			dean.POST("/instructors", deanHandler.RegisterInstructor)
			dean.GET("/instructors/available", deanHandler.AvailableInstructors)
			dean.GET("/students/:studentID/overview", deanHandler.StudentOverview)
			dean.GET("/students/:studentID/report.pdf", deanHandler.StudentReportPDF)
			dean.GET("/students/:studentID/report.csv", deanHandler.StudentReportCSV)
			dean.GET("/analytics/courses/top", deanHandler.TopCourses)
			dean.GET("/analytics/courses/worst", deanHandler.WorstCourses)
			dean.GET("/analytics/students/:studentID", deanHandler.StudentActivity)
			dean.GET("/analytics/students/:studentID/courses/:courseID", deanHandler.StudentCourseActivity)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
	logr.Info("server stopped")
}
