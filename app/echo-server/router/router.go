package router

import (
	"myCourseCompass/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired, adminOnly, selfOrAdmin echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/refresh", handler.RefreshToken)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/me", handler.Me, authRequired)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, selfOrAdmin)
	users.PUT("/:id", handler.UpdateUser, authRequired, selfOrAdmin)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupGradeRoutes(api *echo.Group, handler *rest.GradeHandler, authRequired echo.MiddlewareFunc) {
	grades := api.Group("/grades")

	grades.POST("/validate", handler.ValidateGrades)

	grades.POST("", handler.SaveGrades, authRequired)
	grades.GET("", handler.GetUserGrades, authRequired)
	grades.GET("/latest", handler.GetLatestGrades, authRequired)
	grades.PUT("/:id", handler.UpdateGrades, authRequired)
	grades.DELETE("/:id", handler.DeleteGrades, authRequired)
}

// SetupCalculationRoutes puts every calculation behind login and a completed payment.
func SetupCalculationRoutes(api *echo.Group, handler *rest.CalculationHandler, authRequired, paymentRequired echo.MiddlewareFunc) {
	calculations := api.Group("/calculations", authRequired, paymentRequired)

	calculations.POST("/eligibility", handler.Eligibility)
	calculations.POST("/cluster-points", handler.ClusterPoints)
	calculations.POST("/compare", handler.Compare)
	calculations.POST("/recommendations", handler.Recommendations)
	calculations.GET("/history", handler.History)
}

func SetupCourseRoutes(api *echo.Group, handler *rest.CourseHandler) {
	courses := api.Group("/courses")

	courses.GET("", handler.GetCourses)
	courses.GET("/search", handler.SearchCourses)
	courses.GET("/program/:programType", handler.GetCoursesByProgramType)
	courses.GET("/:id", handler.GetCourseByID)
}

func SetupInstitutionRoutes(api *echo.Group, handler *rest.InstitutionHandler) {
	institutions := api.Group("/institutions")

	institutions.GET("", handler.GetInstitutions)
	institutions.GET("/types", handler.GetInstitutionTypes)
	institutions.GET("/type/:type", handler.GetInstitutionsByType)
	institutions.GET("/:id", handler.GetInstitutionByID)
	institutions.GET("/:id/courses", handler.GetInstitutionCourses)
	institutions.GET("/:id/stats", handler.GetInstitutionStats)
}

func SetupPaymentRoutes(api *echo.Group, handler *rest.PaymentsHandler, authRequired echo.MiddlewareFunc) {
	payments := api.Group("/payments")

	payments.POST("/verify-existing", handler.VerifyExistingPayment)

	payments.POST("/initialize", handler.InitializePayment, authRequired)
	payments.GET("/verify/:reference", handler.VerifyPayment, authRequired)
	payments.GET("/status", handler.GetPaymentStatus, authRequired)
	payments.GET("/transactions", handler.GetUserTransactions, authRequired)
}

func SetupWebhookRoutes(api *echo.Group, handler *rest.PaymentsHandler) {
	webhooks := api.Group("/webhooks")
	webhooks.POST("/paystack", handler.HandleWebhook)
}

func SetupClusterRoutes(api *echo.Group, handler *rest.ClusterHandler) {
	api.GET("/clusters", handler.GetClusters)
}
