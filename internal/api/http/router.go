package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/api/http/handlers"
	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/realtime"
)

// authUploaderRoles are the roles allowed to publish content.
func authUploaderRoles() []domain.Role {
	return []domain.Role{domain.RoleFaculty, domain.RoleAdmin}
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	Resources      *handlers.ResourcesHandler
	Dashboard      *handlers.DashboardHandler
	Notices        *handlers.NoticesHandler
	Notifications  *handlers.NotificationsHandler
	Live           *realtime.Handler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register-student", cfg.Users.RegisterStudent)
	users.Post("/register-faculty", cfg.Users.RegisterFaculty)
	users.Post("/login", cfg.Users.Login)
	users.Post("/refresh", cfg.Users.Refresh)
	users.Post("/logout", cfg.Users.Logout)
	users.Post("/forgot-password", cfg.Users.ForgotPassword)
	users.Post("/reset-password/:token", cfg.Users.ResetPassword)

	usersAuthed := users.Group("", cfg.AuthMiddleware.Handle)
	usersAuthed.Get("/me", cfg.Users.Profile)
	usersAuthed.Post("/change-password", cfg.Users.ChangePassword)
	usersAuthed.Get("/student/:id", cfg.Users.GetStudent)
	usersAuthed.Get("/faculty/:id", cfg.Users.GetFaculty)
	usersAuthed.Get("/pending", auth.RequireAdmin(), cfg.Users.PendingVerifications)
	usersAuthed.Patch("/:id/activate", auth.RequireAdmin(), cfg.Users.Activate)

	courses := api.Group("/courses", cfg.AuthMiddleware.Handle)
	courses.Get("/", cfg.Catalog.ListCourses)
	courses.Get("/:id", cfg.Catalog.GetCourse)
	courses.Post("/", auth.RequireAdmin(), cfg.Catalog.CreateCourse)
	courses.Put("/:id", auth.RequireAdmin(), cfg.Catalog.UpdateCourse)
	courses.Delete("/:id", auth.RequireAdmin(), cfg.Catalog.DeleteCourse)

	semesters := api.Group("/semesters", cfg.AuthMiddleware.Handle)
	semesters.Get("/", cfg.Catalog.ListSemesters)
	semesters.Post("/", auth.RequireAdmin(), cfg.Catalog.CreateSemester)
	semesters.Put("/:id", auth.RequireAdmin(), cfg.Catalog.UpdateSemester)
	semesters.Delete("/:id", auth.RequireAdmin(), cfg.Catalog.DeleteSemester)

	subjects := api.Group("/subjects", cfg.AuthMiddleware.Handle)
	subjects.Get("/", cfg.Catalog.ListSubjects)
	subjects.Get("/:id", cfg.Catalog.GetSubject)
	subjects.Post("/", auth.RequireAdmin(), cfg.Catalog.CreateSubject)
	subjects.Put("/:id", auth.RequireAdmin(), cfg.Catalog.UpdateSubject)
	subjects.Delete("/:id", auth.RequireAdmin(), cfg.Catalog.DeleteSubject)

	resources := api.Group("/resources", cfg.AuthMiddleware.Handle)
	resources.Get("/", cfg.Resources.List)
	resources.Get("/:id", cfg.Resources.Get)
	resources.Get("/:id/download", cfg.Resources.DownloadLink)
	resources.Post("/", auth.RequireRoles(authUploaderRoles()...), cfg.Resources.Create)
	resources.Put("/:id", auth.RequireRoles(authUploaderRoles()...), cfg.Resources.Update)
	resources.Delete("/:id", auth.RequireRoles(authUploaderRoles()...), cfg.Resources.Delete)
	resources.Post("/:id/submissions", auth.RequireStudent(), cfg.Resources.Submit)
	resources.Get("/:id/submissions", auth.RequireRoles(authUploaderRoles()...), cfg.Resources.ListSubmissions)

	api.Delete("/assignment-submissions/:id", cfg.AuthMiddleware.Handle, auth.RequireStudent(), cfg.Resources.DeleteSubmission)

	api.Get("/search", cfg.AuthMiddleware.Handle, SearchRateLimiter(), cfg.Resources.Search)

	dashboard := api.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/faculty", auth.RequireFaculty(), cfg.Dashboard.Faculty)
	dashboard.Get("/student", auth.RequireStudent(), cfg.Dashboard.Student)

	api.Get("/analytics/subject/:id", cfg.AuthMiddleware.Handle, auth.RequireFaculty(), cfg.Dashboard.SubjectAnalytics)

	notices := api.Group("/notices", cfg.AuthMiddleware.Handle)
	notices.Get("/", cfg.Notices.List)
	notices.Get("/:id", cfg.Notices.Get)
	notices.Post("/", auth.RequireRoles(authUploaderRoles()...), cfg.Notices.Create)
	notices.Delete("/:id", auth.RequireRoles(authUploaderRoles()...), cfg.Notices.Delete)

	notifications := api.Group("/notifications", cfg.AuthMiddleware.Handle)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Patch("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	app.Use("/ws", cfg.Live.Upgrade)
	app.Get("/ws", cfg.Live.Serve())
}
