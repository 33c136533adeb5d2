package api

import "github.com/listenupapp/lessons-server/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Auth     *service.AuthService
	User     *service.UserService
	Lesson   *service.LessonService
	Favorite *service.FavoriteService
	Report   *service.ReportService
	Payment  *service.PaymentService
	Admin    *service.AdminService
}
