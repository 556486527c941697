package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/storage"
	"github.com/lzytourist/digital-classroom/internal/utils"
)

type HandlerManager struct {
	authService services.AuthService

	accountHandler   *AccountHandler
	recoveryHandler  *RecoveryHandler
	profileHandler   *ProfileHandler
	classroomHandler *ClassroomHandler
}

func NewHandlerManager(
	accountService services.AccountService,
	authService services.AuthService,
	recoveryService services.RecoveryService,
	profileService services.ProfileService,
	classroomService services.ClassroomService,
	fileStorage storage.FileStorage,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authService:      authService,
		accountHandler:   NewAccountHandler(accountService, authService, logger),
		recoveryHandler:  NewRecoveryHandler(recoveryService, logger),
		profileHandler:   NewProfileHandler(profileService, logger),
		classroomHandler: NewClassroomHandler(classroomService, fileStorage, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "digital-classroom",
		})
	})

	v1 := router.Group("/api/v1")

	// Public account routes
	accounts := v1.Group("/accounts")
	{
		accounts.POST("/register", hm.accountHandler.Register)
		accounts.POST("/login", hm.accountHandler.Login)
		accounts.POST("/password-reset", hm.recoveryHandler.RequestReset)
		accounts.POST("/password-reset/confirm", hm.recoveryHandler.ConfirmReset)
	}

	// Routine and notice reads are open; everything else under /classroom
	// requires a token.
	v1.GET("/classroom/routines", hm.classroomHandler.ListRoutines)
	v1.GET("/classroom/routines/:id", hm.classroomHandler.GetRoutine)
	v1.GET("/classroom/notices", hm.classroomHandler.ListNotices)
	v1.GET("/classroom/notices/:id", hm.classroomHandler.GetNotice)

	// Authenticated account routes
	auth := v1.Group("", AuthMiddleware(hm.authService))
	{
		authAccounts := auth.Group("/accounts")
		{
			authAccounts.POST("/logout", hm.accountHandler.Logout)
			authAccounts.GET("/me", hm.accountHandler.Me)
			authAccounts.GET("/users", hm.accountHandler.ListUsers)
			authAccounts.PATCH("/users/active-status", hm.accountHandler.UpdateActiveStatus)

			authAccounts.GET("/profile", hm.profileHandler.GetProfile)
			authAccounts.PATCH("/profile", hm.profileHandler.UpdateProfile)

			authAccounts.GET("/students", hm.profileHandler.ListStudents)
			authAccounts.GET("/students/export", hm.profileHandler.ExportStudents)
		}

		classroom := auth.Group("/classroom")
		{
			classroom.POST("/routines", hm.classroomHandler.CreateRoutine)
			classroom.PUT("/routines/:id", hm.classroomHandler.UpdateRoutine)
			classroom.DELETE("/routines/:id", hm.classroomHandler.DeleteRoutine)

			classroom.POST("/notices", hm.classroomHandler.CreateNotice)
			classroom.PUT("/notices/:id", hm.classroomHandler.UpdateNotice)
			classroom.DELETE("/notices/:id", hm.classroomHandler.DeleteNotice)

			classroom.POST("/classes", hm.classroomHandler.CreateClass)
			classroom.GET("/classes", hm.classroomHandler.ListClasses)
			classroom.GET("/classes/:id", hm.classroomHandler.GetClass)
			classroom.PUT("/classes/:id", hm.classroomHandler.UpdateClass)
			classroom.DELETE("/classes/:id", hm.classroomHandler.DeleteClass)

			classroom.POST("/assignments", hm.classroomHandler.CreateAssignment)
			classroom.GET("/assignments", hm.classroomHandler.ListAssignments)
			classroom.GET("/assignments/:id", hm.classroomHandler.GetAssignment)
			classroom.PUT("/assignments/:id", hm.classroomHandler.UpdateAssignment)
			classroom.DELETE("/assignments/:id", hm.classroomHandler.DeleteAssignment)
		}
	}
}
