package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/opencourse/discovery/internal/app/controllers"
	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/middleware"
	"github.com/opencourse/discovery/internal/pkg/cache"
)

// SetupRouter configures all application routes. Catalog reads are public
// and served through the response cache; writes require a staff token.
func SetupRouter(
	router *gin.Engine,
	partnerController *controllers.PartnerController,
	courseController *controllers.CourseController,
	courseRunController *controllers.CourseRunController,
	programController *controllers.ProgramController,
	curriculumController *controllers.CurriculumController,
	switchController *controllers.SwitchController,
	authMiddleware *middleware.AuthMiddleware,
	apiCache *cache.APICache,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog reads (cached) ---
	public := v1.Group("")
	public.Use(middleware.ResponseCache(apiCache))
	{
		public.GET("/partners", partnerController.GetAllPartners)
		public.GET("/partners/:id", partnerController.GetPartnerByID)

		public.GET("/courses", courseController.ListCourses)
		public.GET("/courses/:id", courseController.GetCourseByID)

		public.GET("/course-runs", courseRunController.ListCourseRuns)
		public.GET("/course-runs/:id", courseRunController.GetCourseRunByID)
		public.GET("/course-runs/:id/seats", courseRunController.ListSeats)

		public.GET("/program-types", programController.GetAllProgramTypes)
		public.GET("/programs", programController.ListPrograms)
		public.GET("/programs/:id", programController.GetProgramByID)

		public.GET("/curricula", curriculumController.ListCurricula)
		public.GET("/curricula/:id", curriculumController.GetCurriculumByID)
		public.GET("/curricula/:id/courses", curriculumController.ListCourses)
	}

	// --- Staff-only catalog writes ---
	staff := v1.Group("")
	staff.Use(authMiddleware.JWTAuth())
	staff.Use(authMiddleware.StaffRequired())
	{
		staff.POST("/partners", partnerController.CreatePartner)
		staff.PUT("/partners/:id", partnerController.UpdatePartner)
		staff.DELETE("/partners/:id", partnerController.DeletePartner)

		staff.POST("/courses", courseController.CreateCourse)
		staff.PUT("/courses/:id", courseController.UpdateCourse)
		staff.DELETE("/courses/:id", courseController.DeleteCourse)

		staff.POST("/course-runs", courseRunController.CreateCourseRun)
		staff.PUT("/course-runs/:id", courseRunController.UpdateCourseRun)
		staff.DELETE("/course-runs/:id", courseRunController.DeleteCourseRun)
		staff.POST("/course-runs/:id/seats", courseRunController.CreateSeat)
		staff.DELETE("/seats/:id", courseRunController.DeleteSeat)

		staff.POST("/program-types", programController.CreateProgramType)
		staff.POST("/programs", programController.CreateProgram)
		staff.PUT("/programs/:id", programController.UpdateProgram)
		staff.DELETE("/programs/:id", programController.DeleteProgram)

		staff.POST("/curricula", curriculumController.CreateCurriculum)
		staff.PUT("/curricula/:id", curriculumController.UpdateCurriculum)
		staff.DELETE("/curricula/:id", curriculumController.DeleteCurriculum)
		staff.POST("/curricula/:id/courses", curriculumController.AddCourse)
		staff.DELETE("/curricula/:id/courses/:courseId", curriculumController.RemoveCourse)

		staff.GET("/switches", switchController.GetAllSwitches)
		staff.GET("/switches/:name", switchController.GetSwitch)
		staff.PUT("/switches/:name", switchController.SetSwitch)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
