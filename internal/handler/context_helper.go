package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-portal-api/internal/middleware"
	"github.com/noah-isme/university-portal-api/internal/models"
)

func sessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// scheduleFromQuery reads a weekly slot from query parameters:
// days (comma separated), start_time and end_time as "HH:MM".
func scheduleFromQuery(c *gin.Context) models.Schedule {
	var days []string
	for _, day := range strings.Split(c.Query("days"), ",") {
		if trimmed := strings.TrimSpace(day); trimmed != "" {
			days = append(days, trimmed)
		}
	}
	return models.Schedule{
		Days:      days,
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
	}
}
