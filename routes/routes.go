package routes

import (
	"log"

	"github.com/hugodiana/BariPlus-sub001/config"
	"github.com/hugodiana/BariPlus-sub001/controllers"
	"github.com/hugodiana/BariPlus-sub001/middlewares"
	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() (*gin.Engine, *services.GoalService) {
	r := gin.Default()

	aggSvc := services.NewAggregateService(config.DB)
	achSvc := services.NewAchievementService(config.DB)
	hub := services.NewRealtimeHub()
	services.InitEventBus(achSvc, hub)

	pushSvc, err := services.NewPushService(config.DB)
	if err != nil {
		// Push stays off; goal completions still settle without notifications.
		log.Printf("push service disabled: %v", err)
	}

	var notifier services.Notifier
	if pushSvc != nil {
		notifier = pushSvc
	}
	goalSvc := services.NewGoalService(config.DB, aggSvc, notifier, hub)
	diarySvc := services.NewDiaryService(config.DB, aggSvc)
	weightSvc := services.NewWeightService(config.DB)
	checklistSvc := services.NewChecklistService(config.DB)

	goalCtl := controllers.NewGoalController(goalSvc)
	diaryCtl := controllers.NewDiaryController(diarySvc)
	weightCtl := controllers.NewWeightController(weightSvc)
	checklistCtl := controllers.NewChecklistController(checklistSvc)
	achCtl := controllers.NewAchievementController(achSvc)
	rtCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Patient routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.POST("/onboarding", controllers.CompleteOnboarding)

		user.GET("/daily-goal", controllers.GetDailyProgress)
		user.PUT("/daily-goal", controllers.UpdateDailyGoal)

		user.GET("/goals", goalCtl.ListActive)
		user.GET("/achievements", achCtl.List)

		user.POST("/diary/water", diaryCtl.LogWater)
		user.POST("/diary/meals", diaryCtl.LogMeal)
		user.GET("/diary", diaryCtl.ListByDate)
		user.PUT("/diary/medications", diaryCtl.MarkMedication)
		user.GET("/diary/medications", diaryCtl.MedicationHistory)

		user.POST("/weights", weightCtl.Log)
		user.GET("/weights", weightCtl.History)

		user.GET("/checklist", checklistCtl.List)
		user.POST("/checklist", checklistCtl.Add)
		user.PUT("/checklist/:id", checklistCtl.Toggle)

		user.POST("/notifications/toggle", controllers.ToggleNotifications)
		user.GET("/events/ws", rtCtl.EventsWS)

		if pushSvc != nil {
			devCtl := controllers.NewDeviceController(pushSvc)
			user.POST("/devices", devCtl.Register)
		}
	}

	// Professional routes
	pro := r.Group("/nutricionista")
	pro.Use(middlewares.AuthMiddleware(), middlewares.RequireNutricionista())
	{
		pro.GET("/patients", controllers.ListPatients)
		pro.POST("/goals", goalCtl.Create)
		pro.GET("/goals", goalCtl.ListMine)
		pro.DELETE("/goals/:id", goalCtl.Delete)
	}

	return r, goalSvc
}
