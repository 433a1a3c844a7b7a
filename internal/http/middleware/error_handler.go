package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно: AppError отдаётся
// клиенту со своим статусом, остальное маскируется.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		switch {
		case errors.Is(err, repository.ErrRequestNotFound):
			statusCode, message = http.StatusNotFound, "обращение не найдено"
		case errors.Is(err, repository.ErrCitizenNotFound):
			statusCode, message = http.StatusNotFound, "гражданин не найден"
		case errors.Is(err, repository.ErrEmployeeNotFound):
			statusCode, message = http.StatusNotFound, "сотрудник не найден"
		case errors.Is(err, repository.ErrDistrictNotFound):
			statusCode, message = http.StatusNotFound, "район не найден"
		case errors.Is(err, repository.ErrUserNotFound):
			statusCode, message = http.StatusNotFound, "пользователь не найден"
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
